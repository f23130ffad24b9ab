package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phobologic/springmap/internal/document"
	"github.com/phobologic/springmap/internal/graph"
	"github.com/phobologic/springmap/internal/toon"
)

func newExportCmd(g *globalOptions) *cobra.Command {
	var (
		src    modelSource
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a model as TOON tables, JSON or YAML",
		Long: `Render a model for another consumer. The default TOON form has one table per
fact kind plus an edges table linking controllers to the services and
repositories their flows resolve to, services to injected components,
repositories to entities and entities to related entities.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, _, err := src.open(cmd.Context(), g)
			if err != nil {
				return err
			}
			p := ws.Current().Project

			var data []byte
			switch format {
			case "toon":
				out := toon.Encode(src.projectName(), p) + "\n" +
					toon.EncodeEdges(graph.BuildGraph(p, graph.NamingResolver{})) + "\n"
				data = []byte(out)
			default:
				f, err := document.ParseFormat(format)
				if err != nil {
					return err
				}
				if data, err = document.Encode(p, f); err != nil {
					return err
				}
			}

			if output == "" {
				_, err := g.stdout.Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			return nil
		},
	}

	src.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "toon", "output format: toon, json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	return cmd
}
