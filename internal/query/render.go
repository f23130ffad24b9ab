package query

import (
	"fmt"
	"strings"

	"github.com/phobologic/springmap/internal/model"
)

// Render formats a fact as its kind's report.
func Render(f model.Fact) string {
	switch f := f.(type) {
	case *model.Controller:
		return renderController(f)
	case *model.Service:
		return renderService(f)
	case *model.Repository:
		return renderRepository(f)
	case *model.Entity:
		return renderEntity(f)
	}
	return ""
}

func renderController(c *model.Controller) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Controller: %s\n", c.ClassName)
	fmt.Fprintf(&b, "Base Path: %s\n", orDefault(c.BasePath, "/"))
	b.WriteString("Endpoints:\n")
	for _, ep := range c.Endpoints {
		params := make([]string, len(ep.Parameters))
		for i, p := range ep.Parameters {
			params[i] = FormatParameter(p)
		}
		fmt.Fprintf(&b, "  %s %s → %s(%s): %s\n", ep.HTTPMethod, ep.Path, ep.MethodName, strings.Join(params, ", "), ep.ReturnType)
	}
	return b.String()
}

func renderService(s *model.Service) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Service: %s\n", s.ClassName)
	if len(s.Dependencies) > 0 {
		b.WriteString("Dependencies:\n")
		for _, d := range s.Dependencies {
			fmt.Fprintf(&b, "  %s %s\n", d.Type, d.Name)
		}
	}
	b.WriteString("Methods:\n")
	writeMethods(&b, s.Methods)
	return b.String()
}

func renderRepository(r *model.Repository) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", r.InterfaceName)
	fmt.Fprintf(&b, "Entity: %s\n", r.EntityType)
	fmt.Fprintf(&b, "ID Type: %s\n", r.IDType)
	b.WriteString("Custom Methods:\n")
	writeMethods(&b, r.CustomMethods)
	return b.String()
}

func renderEntity(e *model.Entity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Entity: %s\n", e.ClassName)
	fmt.Fprintf(&b, "Table: %s\n", e.Table())
	b.WriteString("Fields:\n")
	for _, f := range e.Fields {
		markers := ""
		if len(f.Annotations) > 0 {
			markers = strings.Join(f.Annotations, ", ") + " "
		}
		fmt.Fprintf(&b, "  %s%s %s\n", markers, f.Type, f.Name)
	}
	if len(e.Relationships) > 0 {
		b.WriteString("Relationships:\n")
		for _, r := range e.Relationships {
			fmt.Fprintf(&b, "  @%s %s %s\n", r.Kind, r.TargetEntity, r.FieldName)
		}
	}
	return b.String()
}

func writeMethods(b *strings.Builder, methods []model.Method) {
	for _, m := range methods {
		params := make([]string, len(m.Parameters))
		for i, p := range m.Parameters {
			params[i] = p.Type + " " + p.Name
		}
		fmt.Fprintf(b, "  %s(%s): %s\n", m.Name, strings.Join(params, ", "), m.ReturnType)
	}
}

// FormatParameter renders "[@Annotation ]<type> <name>".
func FormatParameter(p model.Parameter) string {
	if p.Annotation != "" {
		return "@" + p.Annotation + " " + p.Type + " " + p.Name
	}
	return p.Type + " " + p.Name
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
