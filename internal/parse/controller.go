package parse

import (
	"regexp"

	"github.com/phobologic/springmap/internal/model"
)

var (
	requestMappingRe = regexp.MustCompile(`@RequestMapping\b`)
	endpointMarkerRe = regexp.MustCompile(`@(Get|Post|Put|Delete|Patch|Request)Mapping\b`)
	requestMethodRe  = regexp.MustCompile(`\bmethod\s*=\s*\{?\s*(?:RequestMethod\s*\.\s*)?([A-Z]+)\b`)
)

var mappingMethods = map[string]string{
	"Get":    model.MethodGet,
	"Post":   model.MethodPost,
	"Put":    model.MethodPut,
	"Delete": model.MethodDelete,
	"Patch":  model.MethodPatch,
}

// ParseController extracts a controller fact. ok is false when src has no
// controller marker, no class declaration, or no recoverable endpoint.
func ParseController(src string) (*model.Controller, bool) {
	if !controllerMarkerRe.MatchString(src) {
		return nil, false
	}
	name, ok := className(src)
	if !ok {
		return nil, false
	}
	endpoints := parseEndpoints(src)
	if len(endpoints) == 0 {
		return nil, false
	}
	basePath, _ := annotationValue(src, requestMappingRe, "value", "path")
	return &model.Controller{
		ClassName: name,
		BasePath:  basePath,
		Endpoints: endpoints,
	}, true
}

// parseEndpoints finds every mapping marker that is followed by a method
// signature. A method-level @RequestMapping takes its verb from a
// method = RequestMethod.X argument and defaults to GET; a class-level one
// is not followed by a signature and is skipped.
func parseEndpoints(src string) []model.Endpoint {
	endpoints := []model.Endpoint{}
	for _, m := range endpointMarkerRe.FindAllStringSubmatchIndex(src, -1) {
		verb := src[m[2]:m[3]]
		c := cursor{src: src, pos: m[1]}

		var args string
		if c.next() == '(' {
			a, ok := c.balanced('(', ')')
			if !ok {
				continue
			}
			args = a
		}

		ep, ok := endpointSignature(&c)
		if !ok {
			continue
		}

		method, ok := mappingMethods[verb]
		if !ok {
			method = requestMethod(args)
			if method == "" {
				continue
			}
		}
		ep.HTTPMethod = method
		ep.Path = firstQuoted(args)
		endpoints = append(endpoints, ep)
	}
	return endpoints
}

// endpointSignature reads "[annotations] [modifiers] [<T>] Type name(params)".
func endpointSignature(c *cursor) (model.Endpoint, bool) {
	c.annotations()
	c.modifiers()
	c.typeParams()
	ret, ok := c.typeToken()
	if !ok || isReservedType(ret) {
		return model.Endpoint{}, false
	}
	name, ok := c.ident()
	if !ok {
		return model.Endpoint{}, false
	}
	params, ok := c.balanced('(', ')')
	if !ok {
		return model.Endpoint{}, false
	}
	return model.Endpoint{
		MethodName: name,
		ReturnType: ret,
		Parameters: parseParams(params, true),
	}, true
}

// requestMethod returns the verb named by a method = ... argument, GET when
// absent, or "" for verbs outside the recognized five.
func requestMethod(args string) string {
	m := requestMethodRe.FindStringSubmatch(args)
	if m == nil {
		return model.MethodGet
	}
	for _, v := range mappingMethods {
		if v == m[1] {
			return v
		}
	}
	return ""
}
