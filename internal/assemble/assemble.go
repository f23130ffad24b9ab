// Package assemble runs discovery and extraction over a source tree and
// reduces the per-file facts into a Project in discovery order.
package assemble

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phobologic/springmap/internal/discover"
	serrors "github.com/phobologic/springmap/internal/errors"
	"github.com/phobologic/springmap/internal/logging"
	"github.com/phobologic/springmap/internal/model"
	"github.com/phobologic/springmap/internal/parse"
)

// Options controls a Build.
type Options struct {
	Discover discover.Options
	Extract  parse.Options
	// Workers bounds concurrent extraction; 0 means GOMAXPROCS.
	Workers int
	Logger  *slog.Logger
}

// Stats describes a finished Build.
type Stats struct {
	Files    int // candidate files discovered
	Skipped  int // files that could not be read
	Facts    int // files that yielded a fact
	Duration time.Duration
}

// Build scans root, extracts one optional fact per file in parallel and
// assembles them in discovery order. Any error (an unreadable directory, a
// cancelled ctx) returns a nil Project: a partial model is never produced.
func Build(ctx context.Context, root string, opts Options) (*model.Project, Stats, error) {
	start := time.Now()
	logger := logging.OrDiscard(opts.Logger)
	if opts.Discover.Logger == nil {
		opts.Discover.Logger = logger
	}

	files, err := discover.Files(ctx, root, opts.Discover)
	if err != nil {
		return nil, Stats{}, err
	}
	stats := Stats{Files: len(files)}

	facts, skipped, err := extractAll(ctx, root, files, opts, logger)
	if err != nil {
		return nil, Stats{}, err
	}
	stats.Skipped = skipped

	p := Assemble(facts)
	for _, f := range facts {
		if f != nil {
			stats.Facts++
		}
	}
	stats.Duration = time.Since(start)

	logger.Info("assemble.done",
		"root", root,
		"files", stats.Files,
		"facts", stats.Facts,
		"skipped", stats.Skipped,
		"controllers", len(p.Controllers),
		"services", len(p.Services),
		"repositories", len(p.Repositories),
		"entities", len(p.Entities),
		"duration", stats.Duration,
	)
	return p, stats, nil
}

// extractAll extracts every file with a bounded pool of workers. Each worker
// owns its Extractor. Results land at the file's discovery index, so the
// returned slice is in discovery order regardless of completion order; nil
// entries are files without a fact.
func extractAll(ctx context.Context, root string, files []discover.FileEntry, opts Options, logger *slog.Logger) ([]model.Fact, int, error) {
	facts := make([]model.Fact, len(files))
	if len(files) == 0 {
		return facts, 0, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, len(files))

	work := make(chan int)
	unread := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(work)
		for i := range files {
			select {
			case work <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	for range workers {
		g.Go(func() error {
			ex, err := parse.NewExtractor(opts.Extract)
			if err != nil {
				return serrors.New(serrors.ParseError, "creating extractor", err)
			}
			for idx := range work {
				if err := gctx.Err(); err != nil {
					return serrors.New(serrors.Canceled, "extraction aborted", err)
				}
				f := files[idx]
				source, err := os.ReadFile(filepath.Join(root, f.Path))
				if err != nil {
					logger.Warn("assemble.read", "path", f.Path, "err", err)
					unread[idx] = true
					continue
				}
				facts[idx] = ex.Extract(source)
				if facts[idx] != nil {
					logger.Debug("assemble.fact", "path", f.Path, "kind", facts[idx].Kind(), "name", facts[idx].Name())
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, serrors.New(serrors.Canceled, "extraction aborted", err)
	}

	skipped := 0
	for _, u := range unread {
		if u {
			skipped++
		}
	}
	return facts, skipped, nil
}

// Assemble appends each fact to its kind's sequence in the given order.
// nil facts are ignored. No deduplication or validation is performed.
func Assemble(facts []model.Fact) *model.Project {
	p := model.NewProject()
	for _, f := range facts {
		switch f := f.(type) {
		case *model.Controller:
			p.Controllers = append(p.Controllers, *f)
		case *model.Service:
			p.Services = append(p.Services, *f)
		case *model.Repository:
			p.Repositories = append(p.Repositories, *f)
		case *model.Entity:
			p.Entities = append(p.Entities, *f)
		}
	}
	return p
}
