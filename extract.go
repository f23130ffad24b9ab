package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phobologic/springmap/internal/assemble"
	"github.com/phobologic/springmap/internal/document"
	"github.com/phobologic/springmap/internal/store"
)

func newExtractCmd(g *globalOptions) *cobra.Command {
	var (
		output       string
		format       string
		save         bool
		maskComments bool
		workers      int
	)

	cmd := &cobra.Command{
		Use:   "extract [root]",
		Short: "Scan a source tree and emit its project model",
		Long: `Scan every .java file under root (default ".") and assemble the project
model: controllers with their endpoints, services, repositories and entities.

The model is written to stdout, or to the file named by -o; a .yaml or .yml
output path selects YAML, anything else JSON. With --store the model is also
recorded in the run store so later commands can load it with --run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}

			cfg, logger, err := g.setup(root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("mask-comments") {
				cfg.Extract.MaskComments = maskComments
			}
			if cmd.Flags().Changed("workers") {
				cfg.Scan.Workers = workers
			}

			fmtOut, err := document.ParseFormat(format)
			if err != nil {
				return err
			}

			p, stats, err := assemble.Build(cmd.Context(), root, buildOptions(cfg, logger))
			if err != nil {
				return err
			}

			if output != "" {
				if err := document.Save(output, p); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(g.stderr, "wrote model to %s (%d controllers, %d services, %d repositories, %d entities from %d files)\n",
					output, len(p.Controllers), len(p.Services), len(p.Repositories), len(p.Entities), stats.Files)
			} else {
				data, err := document.Encode(p, fmtOut)
				if err != nil {
					return err
				}
				if _, err := g.stdout.Write(data); err != nil {
					return err
				}
			}

			if save {
				st, err := store.Open(cfg.StorePath(root), logger)
				if err != nil {
					return err
				}
				defer func() { _ = st.Close() }()
				r, err := st.Save(cmd.Context(), root, p)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(g.stderr, "stored run %s\n", r.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the model to this file instead of stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "stdout format: json or yaml")
	cmd.Flags().BoolVar(&save, "store", false, "also record the model in the run store")
	cmd.Flags().BoolVar(&maskComments, "mask-comments", false, "blank comments before extraction (overrides extract.maskComments)")
	cmd.Flags().IntVarP(&workers, "workers", "j", 0, "concurrent extraction workers, 0 for GOMAXPROCS (overrides scan.workers)")
	return cmd
}
