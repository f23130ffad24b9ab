package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/phobologic/springmap/internal/store"
)

func newRunsCmd(g *globalOptions) *cobra.Command {
	var (
		root   string
		limit  int
		prune  int
		remove string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List, prune or delete stored extraction runs",
		Long: `Manage the run store written by "springmap extract --store". Runs are listed
newest first; any listed ID, or "latest", can be passed to --run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := g.setup(root)
			if err != nil {
				return err
			}
			st, err := store.Open(cfg.StorePath(root), logger)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			ctx := cmd.Context()
			switch {
			case remove != "":
				if err := st.Delete(ctx, remove); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(g.stdout, "deleted run %s\n", remove)
				return nil
			case cmd.Flags().Changed("prune"):
				n, err := st.Prune(ctx, prune)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(g.stdout, "pruned %d run(s)\n", n)
				return nil
			}

			runs, err := st.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				_, _ = fmt.Fprintln(g.stdout, "no stored runs")
				return nil
			}
			tw := tabwriter.NewWriter(g.stdout, 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "ID\tCREATED\tCONTROLLERS\tSERVICES\tREPOSITORIES\tENTITIES\tENDPOINTS\tROOT")
			for _, r := range runs {
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
					r.ID, r.CreatedAt.Local().Format(time.DateTime),
					r.Controllers, r.Services, r.Repositories, r.Entities, r.Endpoints, r.Root)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "project root whose run store to open")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "list at most this many runs, 0 for all")
	cmd.Flags().IntVar(&prune, "prune", 0, "keep only the newest N runs")
	cmd.Flags().StringVar(&remove, "delete", "", "delete the run with this ID")
	cmd.MarkFlagsMutuallyExclusive("prune", "delete")
	return cmd
}
