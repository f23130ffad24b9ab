package parse

import (
	"regexp"

	"github.com/phobologic/springmap/internal/model"
)

var (
	injectMarkerRe = regexp.MustCompile(`@(?:Autowired|Inject|Resource)\b`)
	publicRe       = regexp.MustCompile(`\bpublic\b`)
)

// ParseService extracts a service fact. ok is false when src has no service
// marker or no class declaration.
func ParseService(src string) (*model.Service, bool) {
	if !serviceMarkerRe.MatchString(src) {
		return nil, false
	}
	name, ok := className(src)
	if !ok {
		return nil, false
	}
	return &model.Service{
		ClassName:    name,
		Dependencies: parseDependencies(src, name),
		Methods:      parsePublicMethods(src),
	}, true
}

// parseDependencies collects injected collaborators: each injection marker
// followed by a "<type> <name>" field declaration, or by a constructor of
// className whose parameters are then the dependencies.
func parseDependencies(src, className string) []model.Dependency {
	deps := []model.Dependency{}
	for _, loc := range injectMarkerRe.FindAllStringIndex(src, -1) {
		c := cursor{src: src, pos: loc[0]}
		c.annotations()
		c.modifiers()

		save := c.pos
		if ctor, ok := c.ident(); ok && ctor == className && c.next() == '(' {
			params, ok := c.balanced('(', ')')
			if !ok {
				continue
			}
			for _, p := range parseParams(params, false) {
				deps = append(deps, model.Dependency{Type: p.Type, Name: p.Name})
			}
			continue
		}
		c.pos = save

		typ, ok := c.typeToken()
		if !ok || isReservedType(typ) {
			continue
		}
		field, ok := c.ident()
		if !ok {
			continue
		}
		if next := c.next(); next != ';' && next != '=' {
			continue
		}
		deps = append(deps, model.Dependency{Type: typ, Name: field})
	}
	return deps
}

// parsePublicMethods collects "public <ret> <name>(<params>) {" declarations.
// Constructors and type declarations do not fit the shape and are skipped.
func parsePublicMethods(src string) []model.Method {
	methods := []model.Method{}
	for _, loc := range publicRe.FindAllStringIndex(src, -1) {
		c := cursor{src: src, pos: loc[1]}
		c.modifiers()
		c.typeParams()
		ret, ok := c.typeToken()
		if !ok || isReservedType(ret) {
			continue
		}
		name, ok := c.ident()
		if !ok {
			continue
		}
		params, ok := c.balanced('(', ')')
		if !ok {
			continue
		}
		c.skipThrows()
		if c.next() != '{' {
			continue
		}
		methods = append(methods, model.Method{
			Name:       name,
			ReturnType: ret,
			Parameters: parseParams(params, false),
		})
	}
	return methods
}
