package parse

import (
	"regexp"
	"strings"

	"github.com/phobologic/springmap/internal/model"
)

// Binding annotations preferred over other parameter annotations when a
// parameter carries several (e.g. "@Valid @RequestBody User user").
var bindingAnnotations = map[string]struct{}{
	"PathVariable":   {},
	"RequestParam":   {},
	"RequestBody":    {},
	"RequestHeader":  {},
	"RequestPart":    {},
	"CookieValue":    {},
	"ModelAttribute": {},
	"MatrixVariable": {},
}

var (
	// "<type> <identifier>" at the end of a parameter; the type may carry one
	// generic segment and array or varargs suffixes.
	paramShapeRe = regexp.MustCompile(`^([\w$.]+(?:\s*<.*>)?(?:\s*\[\])*(?:\.\.\.)?)\s+([A-Za-z_$][\w$]*)$`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// parseParams parses a parenthesized parameter list body. Tokens that do not
// end in "<type> <identifier>" are dropped. When withAnnotation is false the
// binding annotation is not recorded.
func parseParams(list string, withAnnotation bool) []model.Parameter {
	params := []model.Parameter{}
	if strings.TrimSpace(list) == "" {
		return params
	}
	for _, raw := range splitTopLevel(list) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		p, ok := parseParam(raw)
		if !ok {
			continue
		}
		if !withAnnotation {
			p.Annotation = ""
		}
		params = append(params, p)
	}
	return params
}

func parseParam(raw string) (model.Parameter, bool) {
	c := cursor{src: raw}
	anns := c.annotations()
	c.modifiers()
	anns = append(anns, c.annotations()...)
	rest := collapseSpace(c.src[c.pos:])

	m := paramShapeRe.FindStringSubmatch(rest)
	if m == nil {
		return model.Parameter{}, false
	}
	return model.Parameter{
		Name:       m[2],
		Type:       normalizeType(m[1]),
		Annotation: bindingAnnotation(anns),
	}, true
}

func bindingAnnotation(anns []annotation) string {
	for _, a := range anns {
		if _, ok := bindingAnnotations[a.name]; ok {
			return a.name
		}
	}
	if len(anns) > 0 {
		return anns[0].name
	}
	return ""
}

// normalizeType collapses whitespace in a type token and removes spaces
// before generic and array brackets.
func normalizeType(t string) string {
	t = whitespaceRe.ReplaceAllString(strings.TrimSpace(t), " ")
	t = strings.ReplaceAll(t, " <", "<")
	t = strings.ReplaceAll(t, " []", "[]")
	t = strings.ReplaceAll(t, "< ", "<")
	t = strings.ReplaceAll(t, " >", ">")
	return t
}

// genericArgs returns the top-level arguments of a type's generic segment,
// or nil when the type is not generic.
func genericArgs(t string) []string {
	open := strings.IndexByte(t, '<')
	close := strings.LastIndexByte(t, '>')
	if open < 0 || close < open {
		return nil
	}
	var out []string
	for _, a := range splitTopLevel(t[open+1 : close]) {
		a = strings.TrimSpace(a)
		a = strings.TrimPrefix(a, "? extends ")
		a = strings.TrimPrefix(a, "? super ")
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}
