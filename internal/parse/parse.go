// Package parse recovers controller, service, repository and entity facts
// from source text with lexical patterns. It does not build a syntax tree:
// each fact kind has a small grammar over a forward-only cursor, and
// anything that does not fit a grammar is silently skipped.
package parse

import (
	"regexp"
	"strings"

	"github.com/phobologic/springmap/internal/lang"
	"github.com/phobologic/springmap/internal/model"
)

var (
	controllerMarkerRe = regexp.MustCompile(`@(?:Rest)?Controller\b`)
	serviceMarkerRe    = regexp.MustCompile(`@Service\b`)
	repositoryMarkerRe = regexp.MustCompile(`@Repository\b`)
	entityMarkerRe     = regexp.MustCompile(`@Entity\b`)

	// The two recognized base repositories, with optional <Entity, ID>.
	repositoryExtendsRe = regexp.MustCompile(`\bextends\s+(?:JpaRepository|CrudRepository)\b`)

	classNameRe = regexp.MustCompile(`\b(?:class|interface)\s+([A-Za-z_$][\w$]*)`)
)

// Options controls an Extractor.
type Options struct {
	// MaskComments blanks comments before matching so commented-out
	// declarations are not recovered.
	MaskComments bool
}

// Extractor classifies files and extracts one fact per file. An Extractor
// with comment masking owns a tree-sitter parser and must not be shared
// between goroutines.
type Extractor struct {
	masker *lang.Masker
}

// NewExtractor creates an Extractor.
func NewExtractor(opts Options) (*Extractor, error) {
	e := &Extractor{}
	if opts.MaskComments {
		m, err := lang.NewMasker(lang.Java)
		if err != nil {
			return nil, err
		}
		e.masker = m
	}
	return e, nil
}

// Extract classifies source and returns its fact, or nil when the file
// matches no kind.
func (e *Extractor) Extract(source []byte) model.Fact {
	if e.masker != nil {
		source = e.masker.Mask(source)
	}
	return Extract(string(source))
}

// Extract classifies src with fixed priority Controller, Service,
// Repository, Entity and returns the first kind that yields a fact, or nil.
// A controller with no recovered endpoints falls through to the next kind.
func Extract(src string) model.Fact {
	if c, ok := ParseController(src); ok {
		return c
	}
	if s, ok := ParseService(src); ok {
		return s
	}
	if r, ok := ParseRepository(src); ok {
		return r
	}
	if en, ok := ParseEntity(src); ok {
		return en
	}
	return nil
}

// className returns the first declared class or interface name.
func className(src string) (string, bool) {
	m := classNameRe.FindStringSubmatch(src)
	if m == nil {
		return "", false
	}
	return m[1], true
}

var (
	quotedRe = regexp.MustCompile(`"([^"]*)"`)

	keyValueRes = map[string]*regexp.Regexp{
		"value": regexp.MustCompile(`\bvalue\s*=\s*\{?\s*"([^"]*)"`),
		"path":  regexp.MustCompile(`\bpath\s*=\s*\{?\s*"([^"]*)"`),
		"name":  regexp.MustCompile(`\bname\s*=\s*\{?\s*"([^"]*)"`),
	}
)

// reservedTypeWords cannot start a return or field type; seeing one means
// the cursor is on a type declaration or a statement, not a member.
var reservedTypeWords = map[string]struct{}{
	"class":      {},
	"interface":  {},
	"enum":       {},
	"record":     {},
	"new":        {},
	"return":     {},
	"throw":      {},
	"else":       {},
	"case":       {},
	"extends":    {},
	"implements": {},
	"import":     {},
	"package":    {},
}

func isReservedType(t string) bool {
	_, ok := reservedTypeWords[t]
	return ok
}

// annotationValue returns the string argument of the first occurrence of
// the annotation matched by marker whose arguments take one of the
// supported shapes: a bare string, or key = "..." for each key in keys
// (tried in order).
func annotationValue(src string, marker *regexp.Regexp, keys ...string) (string, bool) {
	for _, loc := range marker.FindAllStringIndex(src, -1) {
		c := cursor{src: src, pos: loc[1]}
		if c.next() != '(' {
			continue
		}
		args, ok := c.balanced('(', ')')
		if !ok {
			continue
		}
		if v, ok := argValue(args, keys...); ok {
			return v, true
		}
	}
	return "", false
}

// argValue extracts a string value from annotation arguments. A leading
// string literal (or array of them) is the bare form; otherwise each key
// is looked up as key = "value".
func argValue(args string, keys ...string) (string, bool) {
	bare := strings.TrimSpace(args)
	bare = strings.TrimSpace(strings.TrimPrefix(bare, "{"))
	if strings.HasPrefix(bare, `"`) {
		if m := quotedRe.FindStringSubmatch(bare); m != nil {
			return m[1], true
		}
	}
	for _, key := range keys {
		re, ok := keyValueRes[key]
		if !ok {
			continue
		}
		if m := re.FindStringSubmatch(args); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// firstQuoted returns the first string literal in s, or "".
func firstQuoted(s string) string {
	if m := quotedRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
