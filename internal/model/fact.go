package model

// Fact is a closed variant over *Controller, *Service, *Repository and
// *Entity. It cannot be implemented outside this package.
type Fact interface {
	Kind() Kind
	// Name returns the identifying name used for lookup.
	Name() string
	isFact()
}

func (*Controller) Kind() Kind { return KindController }
func (*Service) Kind() Kind    { return KindService }
func (*Repository) Kind() Kind { return KindRepository }
func (*Entity) Kind() Kind     { return KindEntity }

func (c *Controller) Name() string { return c.ClassName }
func (s *Service) Name() string    { return s.ClassName }
func (r *Repository) Name() string { return r.InterfaceName }
func (e *Entity) Name() string     { return e.ClassName }

func (*Controller) isFact() {}
func (*Service) isFact()    {}
func (*Repository) isFact() {}
func (*Entity) isFact()     {}

// Project is the aggregation of all facts from one extraction run, each kind
// in file-discovery order. A Project is never mutated after assembly; a new
// run produces a new Project.
type Project struct {
	Controllers  []Controller `json:"controllers" yaml:"controllers"`
	Services     []Service    `json:"services" yaml:"services"`
	Repositories []Repository `json:"repositories" yaml:"repositories"`
	Entities     []Entity     `json:"entities" yaml:"entities"`
}

// NewProject returns an empty project whose sequences are non-nil so that
// an empty model serializes as empty arrays.
func NewProject() *Project {
	return &Project{
		Controllers:  []Controller{},
		Services:     []Service{},
		Repositories: []Repository{},
		Entities:     []Entity{},
	}
}

// Count returns the number of facts of kind k.
func (p *Project) Count(k Kind) int {
	switch k {
	case KindController:
		return len(p.Controllers)
	case KindService:
		return len(p.Services)
	case KindRepository:
		return len(p.Repositories)
	case KindEntity:
		return len(p.Entities)
	}
	return 0
}

// Facts returns the facts of kind k in model order. The returned facts point
// into the project and must be treated as read-only.
func (p *Project) Facts(k Kind) []Fact {
	var out []Fact
	switch k {
	case KindController:
		for i := range p.Controllers {
			out = append(out, &p.Controllers[i])
		}
	case KindService:
		for i := range p.Services {
			out = append(out, &p.Services[i])
		}
	case KindRepository:
		for i := range p.Repositories {
			out = append(out, &p.Repositories[i])
		}
	case KindEntity:
		for i := range p.Entities {
			out = append(out, &p.Entities[i])
		}
	}
	return out
}

// EndpointCount returns the total number of endpoints across controllers.
func (p *Project) EndpointCount() int {
	n := 0
	for i := range p.Controllers {
		n += len(p.Controllers[i].Endpoints)
	}
	return n
}
