// Package errors defines the error taxonomy shared by springmap components.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a stable error category.
type ErrorCode string

const (
	// FileSystemError indicates the scan root or a directory under it could not be read.
	FileSystemError ErrorCode = "FILESYSTEM_ERROR"
	// ParseError indicates a malformed or missing model document.
	ParseError ErrorCode = "PARSE_ERROR"
	// Canceled indicates an extraction run was aborted by its context.
	Canceled ErrorCode = "CANCELED"
	// InvalidArgument indicates a caller supplied an unusable argument.
	InvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// StoreError indicates the run store failed.
	StoreError ErrorCode = "STORE_ERROR"
	// NotFound indicates a stored run does not exist. Query lookups never use it.
	NotFound ErrorCode = "NOT_FOUND"
)

// Error carries a code, a message and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	cause   error
}

// New creates an Error.
func New(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Newf creates an Error with a formatted message and no cause.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
