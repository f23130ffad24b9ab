// Package graph links facts across kinds. Facts carry no cross-references;
// a Resolver decides on demand which service handles a controller, which
// repository backs it and which entity the repository stores, and BuildGraph
// materializes those links as edges for export.
package graph

import (
	"sort"
	"strings"

	"github.com/phobologic/springmap/internal/model"
	"github.com/phobologic/springmap/internal/ranking"
)

// Resolution is the outcome of resolving one hop. Index is a position in
// the target kind's model order, or -1 when nothing matched. Candidates
// counts every fact the rule accepted; the first in model order wins.
type Resolution struct {
	Index      int
	Candidates int
}

// Found reports whether the hop resolved.
func (r Resolution) Found() bool { return r.Index >= 0 }

// Ambiguous reports whether more than one fact satisfied the rule.
func (r Resolution) Ambiguous() bool { return r.Candidates > 1 }

func resolution(matches []int) Resolution {
	if len(matches) == 0 {
		return Resolution{Index: -1}
	}
	return Resolution{Index: matches[0], Candidates: len(matches)}
}

// Resolver maps each hop of a request flow to the next. Implementations
// must be deterministic for a given Project.
type Resolver interface {
	Service(p *model.Project, c *model.Controller) Resolution
	Repository(p *model.Project, c *model.Controller, s *model.Service) Resolution
	Entity(p *model.Project, r *model.Repository) Resolution
}

// NamingResolver resolves hops by naming convention: the controller's class
// name minus a trailing "Controller" is a prefix that the service and
// repository names must contain, and the entity's class name must equal the
// repository's entity type exactly.
type NamingResolver struct{}

var _ Resolver = NamingResolver{}

// Prefix strips a trailing "Controller" from a class name.
func Prefix(className string) string {
	return strings.TrimSuffix(className, "Controller")
}

func (NamingResolver) Service(p *model.Project, c *model.Controller) Resolution {
	names := make([]string, len(p.Services))
	for i := range p.Services {
		names[i] = p.Services[i].ClassName
	}
	return resolution(ranking.Containing(names, Prefix(c.ClassName)))
}

func (NamingResolver) Repository(p *model.Project, c *model.Controller, _ *model.Service) Resolution {
	names := make([]string, len(p.Repositories))
	for i := range p.Repositories {
		names[i] = p.Repositories[i].InterfaceName
	}
	return resolution(ranking.Containing(names, Prefix(c.ClassName)))
}

func (NamingResolver) Entity(p *model.Project, r *model.Repository) Resolution {
	if r.EntityType == "" {
		return Resolution{Index: -1}
	}
	names := make([]string, len(p.Entities))
	for i := range p.Entities {
		names[i] = p.Entities[i].ClassName
	}
	return resolution(ranking.Equal(names, r.EntityType))
}

// EdgeKind labels a link between two facts.
type EdgeKind string

const (
	Handles EdgeKind = "handles" // controller -> service resolving its flow
	Injects EdgeKind = "injects" // service -> fact named by a dependency type
	Backs   EdgeKind = "backs"   // controller -> repository resolving its flow
	Stores  EdgeKind = "stores"  // repository -> entity
	Relates EdgeKind = "relates" // entity -> related entity
)

// Edge links two facts by identifying name.
type Edge struct {
	Source string
	Target string
	Kind   EdgeKind
}

// BuildGraph derives the cross-kind edges of p. Controller edges follow r;
// injection edges require a dependency type to equal a fact name; relation
// edges require the target entity to exist. Edges are deduplicated and
// sorted by source, target and kind.
func BuildGraph(p *model.Project, r Resolver) []Edge {
	seen := make(map[Edge]struct{})
	var edges []Edge
	add := func(e Edge) {
		if _, dup := seen[e]; dup {
			return
		}
		seen[e] = struct{}{}
		edges = append(edges, e)
	}

	for i := range p.Controllers {
		c := &p.Controllers[i]
		sr := r.Service(p, c)
		if !sr.Found() {
			continue
		}
		s := &p.Services[sr.Index]
		add(Edge{Source: c.ClassName, Target: s.ClassName, Kind: Handles})
		if rr := r.Repository(p, c, s); rr.Found() {
			add(Edge{Source: c.ClassName, Target: p.Repositories[rr.Index].InterfaceName, Kind: Backs})
		}
	}

	known := make(map[string]struct{})
	for _, k := range model.Kinds {
		for _, f := range p.Facts(k) {
			known[f.Name()] = struct{}{}
		}
	}
	for i := range p.Services {
		s := &p.Services[i]
		for _, d := range s.Dependencies {
			if _, ok := known[d.Type]; ok && d.Type != s.ClassName {
				add(Edge{Source: s.ClassName, Target: d.Type, Kind: Injects})
			}
		}
	}

	for i := range p.Repositories {
		repo := &p.Repositories[i]
		if er := r.Entity(p, repo); er.Found() {
			add(Edge{Source: repo.InterfaceName, Target: p.Entities[er.Index].ClassName, Kind: Stores})
		}
	}

	entities := make(map[string]struct{}, len(p.Entities))
	for i := range p.Entities {
		entities[p.Entities[i].ClassName] = struct{}{}
	}
	for i := range p.Entities {
		e := &p.Entities[i]
		for _, rel := range e.Relationships {
			if _, ok := entities[rel.TargetEntity]; ok {
				add(Edge{Source: e.ClassName, Target: rel.TargetEntity, Kind: Relates})
			}
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		if edges[i].Target != edges[j].Target {
			return edges[i].Target < edges[j].Target
		}
		return edges[i].Kind < edges[j].Kind
	})
	return edges
}
