package parse

import (
	"regexp"

	"github.com/phobologic/springmap/internal/model"
)

var (
	repositoryGenericsRe = regexp.MustCompile(`\bextends\s+(?:JpaRepository|CrudRepository)\s*<\s*([\w$.]+)\s*,\s*([\w$.]+)\s*>`)

	// Candidate "<returnType> <name>(" heads. Each is confirmed by reading the
	// parameter list and requiring ";" or "{" after it.
	methodHeadRe = regexp.MustCompile(`([A-Za-z_$][\w$.]*(?:\s*<[^;{}()]*>)?(?:\s*\[\])*)\s+([A-Za-z_$][\w$]*)\s*\(`)
)

// ParseRepository extracts a repository fact. ok is false when src neither
// carries a repository marker nor extends a recognized base repository, or
// has no class or interface declaration.
func ParseRepository(src string) (*model.Repository, bool) {
	if !repositoryMarkerRe.MatchString(src) && !repositoryExtendsRe.MatchString(src) {
		return nil, false
	}
	name, ok := className(src)
	if !ok {
		return nil, false
	}
	repo := &model.Repository{
		InterfaceName: name,
		CustomMethods: parseAbstractMethods(src, name),
	}
	if m := repositoryGenericsRe.FindStringSubmatch(src); m != nil {
		repo.EntityType = m[1]
		repo.IDType = m[2]
	}
	return repo, true
}

// parseAbstractMethods collects "<ret> <name>(<params>)" declarations ending
// in ";" (or "{" for default methods). String literal contents are blanked
// first so query text inside annotations is not mistaken for a signature. A
// declaration named like the interface itself is skipped.
func parseAbstractMethods(src, interfaceName string) []model.Method {
	methods := []model.Method{}
	blank := blankLiterals(src)
	for _, m := range methodHeadRe.FindAllStringSubmatchIndex(blank, -1) {
		ret := normalizeType(src[m[2]:m[3]])
		name := src[m[4]:m[5]]
		if name == interfaceName || isReservedType(ret) {
			continue
		}
		c := cursor{src: blank, pos: m[1] - 1}
		if _, ok := c.balanced('(', ')'); !ok {
			continue
		}
		end := c.pos
		c.skipThrows()
		if next := c.next(); next != ';' && next != '{' {
			continue
		}
		methods = append(methods, model.Method{
			Name:       name,
			ReturnType: ret,
			Parameters: parseParams(src[m[1]:end-1], false),
		})
	}
	return methods
}
