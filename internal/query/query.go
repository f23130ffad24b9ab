// Package query answers name lookups over a Project and renders facts as
// plain-text reports.
package query

import (
	"fmt"
	"strings"

	"github.com/phobologic/springmap/internal/model"
	"github.com/phobologic/springmap/internal/ranking"
)

// Engine indexes a Project for lookup by identifying name. An Engine is
// read-only and safe for concurrent use.
type Engine struct {
	project *model.Project
	names   map[model.Kind][]string
	facts   map[model.Kind][]model.Fact
}

// Candidate is one lookup match.
type Candidate struct {
	Fact model.Fact
	Tier ranking.Tier
}

// New indexes p. p must not be modified afterwards.
func New(p *model.Project) *Engine {
	e := &Engine{
		project: p,
		names:   make(map[model.Kind][]string, len(model.Kinds)),
		facts:   make(map[model.Kind][]model.Fact, len(model.Kinds)),
	}
	for _, k := range model.Kinds {
		facts := p.Facts(k)
		names := make([]string, len(facts))
		for i, f := range facts {
			names[i] = f.Name()
		}
		e.facts[k] = facts
		e.names[k] = names
	}
	return e
}

// Project returns the indexed project.
func (e *Engine) Project() *model.Project { return e.project }

// Lookup returns the first fact of kind k whose name equals q
// case-insensitively, else the first whose name contains q
// case-insensitively.
func (e *Engine) Lookup(k model.Kind, q string) (model.Fact, bool) {
	m, ok := ranking.Best(e.names[k], q)
	if !ok {
		return nil, false
	}
	return e.facts[k][m.Index], true
}

// Candidates returns every fact of kind k matching q, in the order Lookup
// prefers them. More than one candidate means the lookup was ambiguous.
func (e *Engine) Candidates(k model.Kind, q string) []Candidate {
	matches := ranking.Rank(e.names[k], q)
	out := make([]Candidate, len(matches))
	for i, m := range matches {
		out[i] = Candidate{Fact: e.facts[k][m.Index], Tier: m.Tier}
	}
	return out
}

// NotFound is the report for a lookup miss.
func NotFound(k model.Kind, q string) string {
	return fmt.Sprintf(`%s "%s" not found.`, k.Title(), q)
}

// Info looks up q among facts of kind k and renders it, or returns the
// not-found sentence.
func (e *Engine) Info(k model.Kind, q string) string {
	f, ok := e.Lookup(k, q)
	if !ok {
		return NotFound(k, q)
	}
	return Render(f)
}

func (e *Engine) ControllerInfo(q string) string { return e.Info(model.KindController, q) }
func (e *Engine) ServiceInfo(q string) string    { return e.Info(model.KindService, q) }
func (e *Engine) RepositoryInfo(q string) string { return e.Info(model.KindRepository, q) }
func (e *Engine) EntityInfo(q string) string     { return e.Info(model.KindEntity, q) }

// ListEndpoints renders one line per endpoint across all controllers:
// "<METHOD> <basePath+path> → <Class>.<method>()".
func (e *Engine) ListEndpoints() string {
	var lines []string
	for _, c := range e.project.Controllers {
		for _, ep := range c.Endpoints {
			lines = append(lines, fmt.Sprintf("%s %s%s → %s.%s()", ep.HTTPMethod, c.BasePath, ep.Path, c.ClassName, ep.MethodName))
		}
	}
	return strings.Join(lines, "\n")
}

// Summary reports per-kind counts, controller and entity names and the
// total endpoint count.
func (e *Engine) Summary() string {
	p := e.project
	var b strings.Builder
	b.WriteString("=== PROJECT SUMMARY ===\n\n")
	fmt.Fprintf(&b, "Controllers: %d\n", len(p.Controllers))
	fmt.Fprintf(&b, "Services: %d\n", len(p.Services))
	fmt.Fprintf(&b, "Repositories: %d\n", len(p.Repositories))
	fmt.Fprintf(&b, "Entities: %d\n\n", len(p.Entities))
	fmt.Fprintf(&b, "Controllers: %s\n", strings.Join(e.names[model.KindController], ", "))
	fmt.Fprintf(&b, "Entities: %s\n", strings.Join(e.names[model.KindEntity], ", "))
	fmt.Fprintf(&b, "Total Endpoints: %d\n", p.EndpointCount())
	return b.String()
}
