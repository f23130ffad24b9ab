// Package trace reconstructs the path a request takes from an endpoint
// through a service and a repository to a persisted entity.
package trace

import (
	"fmt"
	"strings"

	"github.com/phobologic/springmap/internal/graph"
	"github.com/phobologic/springmap/internal/model"
)

// Tracer walks Controller -> Service -> Repository -> Entity over one
// Project. Hops after the first are chosen by a graph.Resolver.
type Tracer struct {
	project  *model.Project
	resolver graph.Resolver
}

// New returns a Tracer over p. A nil resolver uses graph.NamingResolver.
func New(p *model.Project, r graph.Resolver) *Tracer {
	if r == nil {
		r = graph.NamingResolver{}
	}
	return &Tracer{project: p, resolver: r}
}

// Result is a resolved flow. Hops after a missing one are nil. The
// candidate counts record how many facts satisfied each hop's rule; a count
// above one means the first in model order was taken from several.
type Result struct {
	Method string
	Path   string

	Controller *model.Controller
	Endpoint   *model.Endpoint
	Service    *model.Service
	Repository *model.Repository
	Entity     *model.Entity

	EndpointCandidates   int
	ServiceCandidates    int
	RepositoryCandidates int
	EntityCandidates     int
}

// Hops returns the number of resolved hops, 1 to 4.
func (r *Result) Hops() int {
	switch {
	case r.Service == nil:
		return 1
	case r.Repository == nil:
		return 2
	case r.Entity == nil:
		return 3
	}
	return 4
}

// Ambiguous reports whether any hop was picked from several candidates.
func (r *Result) Ambiguous() bool {
	return r.EndpointCandidates > 1 || r.ServiceCandidates > 1 ||
		r.RepositoryCandidates > 1 || r.EntityCandidates > 1
}

// matches reports whether an endpoint at fullPath answers a query for
// path: either path contains the other.
func matches(fullPath, path string) bool {
	return strings.Contains(fullPath, path) || strings.Contains(path, fullPath)
}

// Trace finds the first endpoint, in model order, whose HTTP method equals
// method case-insensitively and whose base path plus path matches path, then
// resolves the remaining hops. ok is false when no endpoint matches.
func (t *Tracer) Trace(method, path string) (*Result, bool) {
	res := &Result{Method: method, Path: path}
	for i := range t.project.Controllers {
		c := &t.project.Controllers[i]
		for j := range c.Endpoints {
			ep := &c.Endpoints[j]
			if !strings.EqualFold(ep.HTTPMethod, method) || !matches(c.BasePath+ep.Path, path) {
				continue
			}
			if res.Endpoint == nil {
				res.Controller, res.Endpoint = c, ep
			}
			res.EndpointCandidates++
		}
	}
	if res.Endpoint == nil {
		return nil, false
	}

	sr := t.resolver.Service(t.project, res.Controller)
	res.ServiceCandidates = sr.Candidates
	if !sr.Found() {
		return res, true
	}
	res.Service = &t.project.Services[sr.Index]

	rr := t.resolver.Repository(t.project, res.Controller, res.Service)
	res.RepositoryCandidates = rr.Candidates
	if !rr.Found() {
		return res, true
	}
	res.Repository = &t.project.Repositories[rr.Index]

	er := t.resolver.Entity(t.project, res.Repository)
	res.EntityCandidates = er.Candidates
	if er.Found() {
		res.Entity = &t.project.Entities[er.Index]
	}
	return res, true
}

// Report traces method and path and renders the hop report, or the
// endpoint-not-found sentence.
func (t *Tracer) Report(method, path string) string {
	res, ok := t.Trace(method, path)
	if !ok {
		return NotFound(method, path)
	}
	return res.String()
}

// NotFound is the report for a trace with no matching endpoint.
func NotFound(method, path string) string {
	return fmt.Sprintf(`Endpoint "%s %s" not found.`, method, path)
}

// String renders the numbered hop report. It stops after the last
// resolved hop.
func (r *Result) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== Tracing %s %s ===\n\n", strings.ToUpper(r.Method), r.Path)

	fmt.Fprintf(&b, "1. CONTROLLER: %s\n", r.Controller.ClassName)
	fmt.Fprintf(&b, "   Method: %s()\n", r.Endpoint.MethodName)
	fmt.Fprintf(&b, "   Returns: %s\n\n", r.Endpoint.ReturnType)
	if r.Service == nil {
		return b.String()
	}

	deps := make([]string, len(r.Service.Dependencies))
	for i, d := range r.Service.Dependencies {
		deps[i] = d.Type
	}
	depList := strings.Join(deps, ", ")
	if depList == "" {
		depList = "none"
	}
	fmt.Fprintf(&b, "2. SERVICE: %s\n", r.Service.ClassName)
	fmt.Fprintf(&b, "   Dependencies: %s\n", depList)
	fmt.Fprintf(&b, "   Methods: %s\n\n", methodNames(r.Service.Methods))
	if r.Repository == nil {
		return b.String()
	}

	fmt.Fprintf(&b, "3. REPOSITORY: %s\n", r.Repository.InterfaceName)
	fmt.Fprintf(&b, "   Entity: %s\n", r.Repository.EntityType)
	fmt.Fprintf(&b, "   Custom queries: %s\n\n", methodNames(r.Repository.CustomMethods))
	if r.Entity == nil {
		return b.String()
	}

	fields := make([]string, len(r.Entity.Fields))
	for i, f := range r.Entity.Fields {
		fields[i] = f.Name
	}
	fmt.Fprintf(&b, "4. ENTITY: %s\n", r.Entity.ClassName)
	fmt.Fprintf(&b, "   Table: %s\n", r.Entity.Table())
	fmt.Fprintf(&b, "   Fields: %s\n", strings.Join(fields, ", "))
	return b.String()
}

func methodNames(ms []model.Method) string {
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}
