// Package tools exposes the query operations as named tools that take
// structured arguments and return plain text.
package tools

import (
	"fmt"
	"sort"

	"github.com/phobologic/springmap/internal/model"
	"github.com/phobologic/springmap/internal/query"
	"github.com/phobologic/springmap/internal/trace"
)

// Source supplies the query engine and tracer a tool call runs against.
type Source interface {
	Query() *query.Engine
	Tracer() *trace.Tracer
}

// Param is a required string argument.
type Param struct {
	Name        string
	Description string
}

// Tool is one registered operation.
type Tool struct {
	Name        string
	Description string
	Params      []Param
	run         func(src Source, args []string) string
}

// Tool names.
const (
	ListEndpoints     = "list_endpoints"
	GetControllerInfo = "get_controller_info"
	GetServiceInfo    = "get_service_info"
	GetRepositoryInfo = "get_repository_info"
	GetEntityInfo     = "get_entity_info"
	TraceEndpoint     = "trace_endpoint"
	GetProjectSummary = "get_project_summary"
)

var registry = []Tool{
	{
		Name:        ListEndpoints,
		Description: "List all API endpoints in the project",
		run:         func(src Source, _ []string) string { return src.Query().ListEndpoints() },
	},
	{
		Name:        GetControllerInfo,
		Description: "Get detailed information about a specific controller",
		Params:      []Param{{"controller_name", "The name of the controller (e.g., 'UserController' or 'User')"}},
		run:         info(model.KindController),
	},
	{
		Name:        GetServiceInfo,
		Description: "Get detailed information about a specific service",
		Params:      []Param{{"service_name", "The name of the service (e.g., 'UserService' or 'User')"}},
		run:         info(model.KindService),
	},
	{
		Name:        GetRepositoryInfo,
		Description: "Get detailed information about a specific repository",
		Params:      []Param{{"repo_name", "The name of the repository (e.g., 'UserRepository' or 'User')"}},
		run:         info(model.KindRepository),
	},
	{
		Name:        GetEntityInfo,
		Description: "Get detailed information about a specific entity/model",
		Params:      []Param{{"entity_name", "The name of the entity (e.g., 'User')"}},
		run:         info(model.KindEntity),
	},
	{
		Name:        TraceEndpoint,
		Description: "Trace the flow of a specific endpoint from controller to database",
		Params: []Param{
			{"method", "HTTP method (GET, POST, PUT, DELETE, PATCH)"},
			{"path", "The endpoint path (e.g., '/users' or 'users/{id}')"},
		},
		run: func(src Source, args []string) string { return src.Tracer().Report(args[0], args[1]) },
	},
	{
		Name:        GetProjectSummary,
		Description: "Get a high-level summary of the entire project",
		run:         func(src Source, _ []string) string { return src.Query().Summary() },
	},
}

func info(k model.Kind) func(Source, []string) string {
	return func(src Source, args []string) string { return src.Query().Info(k, args[0]) }
}

// All returns the registered tools in registration order.
func All() []Tool {
	out := make([]Tool, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the tool registered under name.
func Lookup(name string) (Tool, bool) {
	for _, t := range registry {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// Execute runs the named tool. Unknown tools and missing or non-string
// arguments produce a text result rather than an error, like lookup misses.
func Execute(src Source, name string, args map[string]any) string {
	t, ok := Lookup(name)
	if !ok {
		return "Unknown tool: " + name
	}
	values := make([]string, len(t.Params))
	for i, p := range t.Params {
		v, ok := args[p.Name]
		if !ok {
			return fmt.Sprintf("Missing argument %q for %s.", p.Name, name)
		}
		s, ok := v.(string)
		if !ok {
			return fmt.Sprintf("Argument %q for %s must be a string.", p.Name, name)
		}
		values[i] = s
	}
	return t.run(src, values)
}

// Positional maps positional arguments onto t's parameters in order.
func (t Tool) Positional(values []string) (map[string]any, error) {
	if len(values) != len(t.Params) {
		return nil, fmt.Errorf("%s takes %d argument(s), got %d", t.Name, len(t.Params), len(values))
	}
	args := make(map[string]any, len(values))
	for i, p := range t.Params {
		args[p.Name] = values[i]
	}
	return args, nil
}

// Schema returns the tool's function-calling declaration: name, description
// and a JSON-schema object with every parameter required.
func (t Tool) Schema() map[string]any {
	props := make(map[string]any, len(t.Params))
	required := make([]string, 0, len(t.Params))
	for _, p := range t.Params {
		props[p.Name] = map[string]any{
			"type":        "string",
			"description": p.Description,
		}
		required = append(required, p.Name)
	}
	return map[string]any{
		"type": "function",
		"function": map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"parameters": map[string]any{
				"type":       "object",
				"properties": props,
				"required":   required,
			},
		},
	}
}

// Names returns the registered tool names, sorted.
func Names() []string {
	names := make([]string, len(registry))
	for i, t := range registry {
		names[i] = t.Name
	}
	sort.Strings(names)
	return names
}
