// Package workspace holds the active project model. Readers take an
// immutable Snapshot; a new extraction binds a new Snapshot with a single
// atomic swap, so a reader sees either the old model or the new one in
// full.
package workspace

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/phobologic/springmap/internal/graph"
	"github.com/phobologic/springmap/internal/logging"
	"github.com/phobologic/springmap/internal/model"
	"github.com/phobologic/springmap/internal/query"
	"github.com/phobologic/springmap/internal/tools"
	"github.com/phobologic/springmap/internal/trace"
)

// NoProject is the tool result when no model has been bound yet.
const NoProject = "No project loaded."

// Snapshot is one bound model with its query engine and tracer.
type Snapshot struct {
	Project  *model.Project
	Origin   string // where the model came from: a root, a document or a run ID
	BoundAt  time.Time
	engine   *query.Engine
	tracer   *trace.Tracer
	sequence uint64
}

func (s *Snapshot) Query() *query.Engine  { return s.engine }
func (s *Snapshot) Tracer() *trace.Tracer { return s.tracer }

// Sequence numbers snapshots in bind order, starting at 1.
func (s *Snapshot) Sequence() uint64 { return s.sequence }

var _ tools.Source = (*Snapshot)(nil)

// Loader produces a fresh Project, e.g. by running an extraction or reading
// a stored document.
type Loader func(ctx context.Context) (*model.Project, error)

// Workspace is the single holder of the active Snapshot. It is safe for
// concurrent use.
type Workspace struct {
	current  atomic.Pointer[Snapshot]
	sequence atomic.Uint64
	resolver graph.Resolver
	logger   *slog.Logger
}

// New creates an empty Workspace. A nil resolver uses graph.NamingResolver.
func New(r graph.Resolver, logger *slog.Logger) *Workspace {
	if r == nil {
		r = graph.NamingResolver{}
	}
	return &Workspace{resolver: r, logger: logging.OrDiscard(logger)}
}

// Current returns the active Snapshot, or nil before the first Bind.
func (w *Workspace) Current() *Snapshot { return w.current.Load() }

// Bind indexes p and makes it the active model. p must not be modified
// afterwards.
func (w *Workspace) Bind(p *model.Project, origin string) *Snapshot {
	s := &Snapshot{
		Project:  p,
		Origin:   origin,
		BoundAt:  time.Now(),
		engine:   query.New(p),
		tracer:   trace.New(p, w.resolver),
		sequence: w.sequence.Add(1),
	}
	prev := w.current.Swap(s)
	attrs := []any{"origin", origin, "sequence", s.sequence}
	if prev != nil {
		attrs = append(attrs, "replaced", prev.sequence)
	}
	w.logger.Info("workspace.bind", attrs...)
	return s
}

// Reload runs load and binds its result. When load fails the active
// Snapshot is left untouched and the error is returned.
func (w *Workspace) Reload(ctx context.Context, origin string, load Loader) (*Snapshot, error) {
	p, err := load(ctx)
	if err != nil {
		w.logger.Warn("workspace.reload", "origin", origin, "err", err)
		return nil, err
	}
	return w.Bind(p, origin), nil
}

// Execute runs a tool against the active Snapshot.
func (w *Workspace) Execute(name string, args map[string]any) string {
	s := w.Current()
	if s == nil {
		return NoProject
	}
	return tools.Execute(s, name, args)
}
