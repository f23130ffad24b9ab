// Package discover finds candidate source files in a project tree.
package discover

import (
	"context"
	stderrors "errors"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	serrors "github.com/phobologic/springmap/internal/errors"
	"github.com/phobologic/springmap/internal/lang"
	"github.com/phobologic/springmap/internal/logging"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to the scan root
	Language string // Registered language name, "" if the extension is unregistered
}

// Options controls discovery. The zero value scans every registered language
// extension with no size limit and ignores .gitignore.
type Options struct {
	Extensions       []string
	RespectGitignore bool
	MaxFileSize      int64
	Logger           *slog.Logger
}

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
}

// errStop ends a walk early when the consumer stops iterating.
var errStop = stderrors.New("discover: stop")

// IsTestPath reports whether any component of the root-relative path rel
// contains "test" or "Test". Test files and everything under test
// directories are never scanned.
func IsTestPath(rel string) bool {
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if isTestName(part) {
			return true
		}
	}
	return false
}

func isTestName(name string) bool {
	return strings.Contains(name, "test") || strings.Contains(name, "Test")
}

// Walk yields candidate files under root in a deterministic order:
// filepath.WalkDir order, which visits each directory's entries sorted by
// name. The sequence is lazy and single-use. A directory that cannot be read
// ends the sequence with a FILESYSTEM_ERROR; a cancelled ctx ends it with
// CANCELED. Errors are yielded once, with a zero FileEntry.
func Walk(ctx context.Context, root string, opts Options) iter.Seq2[FileEntry, error] {
	return func(yield func(FileEntry, error) bool) {
		info, err := os.Stat(root)
		if err != nil {
			yield(FileEntry{}, serrors.New(serrors.FileSystemError, "reading scan root", err))
			return
		}
		if !info.IsDir() {
			yield(FileEntry{}, serrors.Newf(serrors.FileSystemError, "%s: not a directory", root))
			return
		}

		logger := logging.OrDiscard(opts.Logger)
		exts := extensionSet(opts.Extensions)
		var gi *ignore.GitIgnore
		if opts.RespectGitignore {
			gi = loadGitignore(root)
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return serrors.New(serrors.FileSystemError, "reading "+path, err)
			}
			if cerr := ctx.Err(); cerr != nil {
				return serrors.New(serrors.Canceled, "scan aborted", cerr)
			}

			if path == root {
				return nil
			}

			name := d.Name()
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}

			if d.IsDir() {
				if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") || isTestName(name) {
					return filepath.SkipDir
				}
				if gi != nil && (gi.MatchesPath(rel) || gi.MatchesPath(rel+"/")) {
					return filepath.SkipDir
				}
				return nil
			}

			if strings.HasPrefix(name, ".") || isTestName(name) {
				return nil
			}

			// Skip symlinks
			if d.Type()&os.ModeSymlink != 0 {
				return nil
			}

			ext := filepath.Ext(name)
			if _, ok := exts[ext]; !ok {
				return nil
			}

			if gi != nil && gi.MatchesPath(rel) {
				return nil
			}

			if opts.MaxFileSize > 0 {
				if fi, err := d.Info(); err == nil && fi.Size() > opts.MaxFileSize {
					logger.Warn("discover.skip", "path", rel, "size", fi.Size(), "limit", opts.MaxFileSize)
					return nil
				}
			}

			if !yield(FileEntry{Path: rel, Language: lang.ForExtension(ext)}, nil) {
				return errStop
			}
			return nil
		})
		if err != nil && !stderrors.Is(err, errStop) {
			yield(FileEntry{}, err)
		}
	}
}

// Files collects Walk into a slice, preserving its order.
func Files(ctx context.Context, root string, opts Options) ([]FileEntry, error) {
	var results []FileEntry
	for entry, err := range Walk(ctx, root, opts) {
		if err != nil {
			return nil, err
		}
		results = append(results, entry)
	}
	return results, nil
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{})
	if len(exts) == 0 {
		for _, l := range lang.Languages {
			for _, ext := range l.Extensions {
				set[ext] = struct{}{}
			}
		}
		return set
	}
	for _, ext := range exts {
		set[ext] = struct{}{}
	}
	return set
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
