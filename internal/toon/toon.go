// Package toon renders a project model in TOON (Token-Oriented Object
// Notation), a compact tabular text format for feeding models to agents.
package toon

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/springmap/internal/graph"
	"github.com/phobologic/springmap/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode renders a Project as TOON tables: one row per controller, endpoint,
// service, repository, entity, field and relationship, in model order.
// Nested lists collapse to space-separated cells.
func Encode(name string, p *model.Project) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("project: %s", encodeValue(name)))

	var controllerRows, endpointRows [][]string
	for i := range p.Controllers {
		c := &p.Controllers[i]
		controllerRows = append(controllerRows, []string{
			c.ClassName,
			c.BasePath,
			strconv.Itoa(len(c.Endpoints)),
		})
		for j := range c.Endpoints {
			ep := &c.Endpoints[j]
			endpointRows = append(endpointRows, []string{
				ep.HTTPMethod,
				c.BasePath + ep.Path,
				c.ClassName + "." + ep.MethodName,
				ep.ReturnType,
				paramList(ep.Parameters),
			})
		}
	}
	parts = append(parts, formatTabular("controllers", []string{"class", "basePath", "endpoints"}, controllerRows))
	parts = append(parts, formatTabular("endpoints", []string{"method", "path", "handler", "returns", "params"}, endpointRows))

	var serviceRows [][]string
	for i := range p.Services {
		s := &p.Services[i]
		deps := make([]string, len(s.Dependencies))
		for j, d := range s.Dependencies {
			deps[j] = d.Type
		}
		serviceRows = append(serviceRows, []string{
			s.ClassName,
			strings.Join(deps, " "),
			methodNames(s.Methods),
		})
	}
	parts = append(parts, formatTabular("services", []string{"class", "dependencies", "methods"}, serviceRows))

	var repoRows [][]string
	for i := range p.Repositories {
		r := &p.Repositories[i]
		repoRows = append(repoRows, []string{
			r.InterfaceName,
			r.EntityType,
			r.IDType,
			methodNames(r.CustomMethods),
		})
	}
	parts = append(parts, formatTabular("repositories", []string{"interface", "entity", "id", "methods"}, repoRows))

	var entityRows, fieldRows, relRows [][]string
	for i := range p.Entities {
		e := &p.Entities[i]
		entityRows = append(entityRows, []string{e.ClassName, e.Table()})
		for _, f := range e.Fields {
			fieldRows = append(fieldRows, []string{
				e.ClassName,
				f.Name,
				f.Type,
				strings.Join(f.Annotations, " "),
			})
		}
		for _, r := range e.Relationships {
			relRows = append(relRows, []string{
				e.ClassName,
				string(r.Kind),
				r.FieldName,
				r.TargetEntity,
			})
		}
	}
	parts = append(parts, formatTabular("entities", []string{"class", "table"}, entityRows))
	parts = append(parts, formatTabular("fields", []string{"entity", "name", "type", "markers"}, fieldRows))
	if len(relRows) > 0 {
		parts = append(parts, formatTabular("relationships", []string{"entity", "kind", "field", "target"}, relRows))
	}

	return strings.Join(parts, "\n")
}

// EncodeEdges renders cross-kind edges as a single TOON table.
func EncodeEdges(edges []graph.Edge) string {
	rows := make([][]string, len(edges))
	for i, e := range edges {
		rows[i] = []string{e.Source, e.Target, string(e.Kind)}
	}
	return formatTabular("edges", []string{"source", "target", "kind"}, rows)
}

func paramList(params []model.Parameter) string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Type + " " + p.Name
	}
	return strings.Join(out, "; ")
}

func methodNames(ms []model.Method) string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return strings.Join(out, " ")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
