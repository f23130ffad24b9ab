package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phobologic/springmap/internal/model"
	"github.com/phobologic/springmap/internal/query"
	"github.com/phobologic/springmap/internal/tools"
)

// candidateKinds maps the info tools onto the kind they look up.
var candidateKinds = map[string]model.Kind{
	tools.GetControllerInfo: model.KindController,
	tools.GetServiceInfo:    model.KindService,
	tools.GetRepositoryInfo: model.KindRepository,
	tools.GetEntityInfo:     model.KindEntity,
}

func newQueryCmd(g *globalOptions) *cobra.Command {
	var (
		src        modelSource
		candidates bool
	)

	cmd := &cobra.Command{
		Use:   "query <tool> [args...]",
		Short: "Run a named query tool against a model",
		Long: `Run one of the query tools (see "springmap tools") with positional arguments.

  springmap query --model model.json list_endpoints
  springmap query --run latest get_controller_info User
  springmap query trace_endpoint GET /api/users

Name lookups match case-insensitively on the full name first, then on any
name containing the query. --candidates lists every match for an info tool
instead of describing the first.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := tools.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown tool %q (available: %s)", args[0], strings.Join(tools.Names(), ", "))
			}
			toolArgs, err := t.Positional(args[1:])
			if err != nil {
				return err
			}
			kind, lookup := candidateKinds[t.Name]
			if candidates && !lookup {
				return fmt.Errorf("--candidates applies to get_*_info tools, not %s", t.Name)
			}

			ws, _, err := src.open(cmd.Context(), g)
			if err != nil {
				return err
			}

			if candidates {
				printCandidates(g, ws.Current().Query(), kind, args[1])
				return nil
			}
			printText(g.stdout, ws.Execute(t.Name, toolArgs))
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().BoolVar(&candidates, "candidates", false, "list every name matching the lookup")
	return cmd
}

func printCandidates(g *globalOptions, e *query.Engine, k model.Kind, q string) {
	matches := e.Candidates(k, q)
	if len(matches) == 0 {
		printText(g.stdout, query.NotFound(k, q))
		return
	}
	tw := tabwriter.NewWriter(g.stdout, 0, 4, 2, ' ', 0)
	for _, c := range matches {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", c.Fact.Name(), c.Tier)
	}
	_ = tw.Flush()
}

func newTraceCmd(g *globalOptions) *cobra.Command {
	var src modelSource

	cmd := &cobra.Command{
		Use:   "trace <METHOD> <path>",
		Short: "Trace an endpoint from controller to database table",
		Long: `Trace the request flow of an endpoint: the handling controller method, the
service and repository resolved from the controller's name prefix, and the
entity the repository stores.

The path matches when either the endpoint's full path contains it or it
contains the full path, so "users" finds "/api/users".`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, logger, err := src.open(cmd.Context(), g)
			if err != nil {
				return err
			}

			method, path := args[0], args[1]
			res, ok := ws.Current().Tracer().Trace(method, path)
			if !ok {
				printText(g.stdout, ws.Execute(tools.TraceEndpoint, map[string]any{"method": method, "path": path}))
				return nil
			}
			if res.Ambiguous() {
				logger.Warn("trace.ambiguous",
					"endpoints", res.EndpointCandidates,
					"services", res.ServiceCandidates,
					"repositories", res.RepositoryCandidates,
					"entities", res.EntityCandidates,
				)
			}
			printText(g.stdout, res.String())
			return nil
		},
	}

	src.register(cmd)
	return cmd
}

func newToolsCmd(g *globalOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the query tools and their arguments",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			all := tools.All()
			if asJSON {
				schemas := make([]map[string]any, len(all))
				for i, t := range all {
					schemas[i] = t.Schema()
				}
				enc := json.NewEncoder(g.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(schemas)
			}

			tw := tabwriter.NewWriter(g.stdout, 0, 4, 2, ' ', 0)
			for _, t := range all {
				names := make([]string, len(t.Params))
				for i, p := range t.Params {
					names[i] = "<" + p.Name + ">"
				}
				usage := strings.TrimSpace(t.Name + " " + strings.Join(names, " "))
				_, _ = fmt.Fprintf(tw, "%s\t%s\n", usage, t.Description)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print function-calling schemas as JSON")
	return cmd
}
