// springmap extracts a queryable architecture model from Spring Boot sources.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/springmap/internal/assemble"
	"github.com/phobologic/springmap/internal/config"
	"github.com/phobologic/springmap/internal/discover"
	"github.com/phobologic/springmap/internal/document"
	"github.com/phobologic/springmap/internal/graph"
	"github.com/phobologic/springmap/internal/logging"
	"github.com/phobologic/springmap/internal/model"
	"github.com/phobologic/springmap/internal/parse"
	"github.com/phobologic/springmap/internal/store"
	"github.com/phobologic/springmap/internal/workspace"
)

var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose    int
	quiet      bool
	configPath string
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globalOptions{stdout: stdout, stderr: stderr}
	var showVersion bool

	cmd := &cobra.Command{
		Use:   "springmap",
		Short: "Map a Spring Boot codebase into a queryable architecture model",
		Long: `springmap scans Java sources for controllers, services, repositories and
entities, assembles them into a project model, and answers questions about it:
endpoint listings, per-component detail, and controller-to-table flow traces.

Typical use:
  springmap extract -o model.json
  springmap query --model model.json list_endpoints
  springmap trace --model model.json GET /api/users`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				_, _ = fmt.Fprintf(stdout, "springmap %s\n", version)
				return nil
			}
			return cmd.Help()
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().BoolVarP(&showVersion, "version", "V", false, "show version and exit")
	cmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	cmd.PersistentFlags().BoolVarP(&g.quiet, "quiet", "q", false, "suppress all logging")
	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default <root>/.springmap.toml if present)")

	cmd.AddCommand(
		newExtractCmd(g),
		newQueryCmd(g),
		newTraceCmd(g),
		newExportCmd(g),
		newToolsCmd(g),
		newRunsCmd(g),
		newInitCmd(g),
	)
	return cmd
}

// setup loads the configuration for root and builds the command logger.
// Verbosity flags override the configured level.
func (g *globalOptions) setup(root string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(root, g.configPath)
	if err != nil {
		return nil, nil, err
	}
	level := logging.LevelFromVerbosity(g.verbose, g.quiet, logging.LevelFromString(cfg.Logging.Level))
	return cfg, logging.NewLogger(g.stderr, logging.Format(cfg.Logging.Format), level), nil
}

// buildOptions maps configuration onto an assembly run.
func buildOptions(cfg *config.Config, logger *slog.Logger) assemble.Options {
	return assemble.Options{
		Discover: discover.Options{
			Extensions:       cfg.Scan.Extensions,
			RespectGitignore: cfg.Scan.RespectGitignore,
			MaxFileSize:      cfg.Scan.MaxFileSize,
			Logger:           logger,
		},
		Extract: parse.Options{MaskComments: cfg.Extract.MaskComments},
		Workers: cfg.Scan.Workers,
		Logger:  logger,
	}
}

// modelSource selects the model a read command works on: a document, a
// stored run, or (by default) a fresh extraction of root.
type modelSource struct {
	modelPath string
	runID     string
	root      string
}

func (m *modelSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&m.modelPath, "model", "m", "", "read the model from a JSON or YAML document")
	cmd.Flags().StringVar(&m.runID, "run", "", `load a stored run by ID, or "latest"`)
	cmd.Flags().StringVar(&m.root, "root", ".", "project root to extract, or whose run store to read")
	cmd.MarkFlagsMutuallyExclusive("model", "run")
}

// open loads the selected model into a fresh workspace.
func (m *modelSource) open(ctx context.Context, g *globalOptions) (*workspace.Workspace, *slog.Logger, error) {
	cfg, logger, err := g.setup(m.root)
	if err != nil {
		return nil, nil, err
	}

	var (
		origin string
		load   workspace.Loader
	)
	switch {
	case m.modelPath != "":
		origin = m.modelPath
		load = func(context.Context) (*model.Project, error) {
			return document.Load(m.modelPath)
		}
	case m.runID != "":
		origin = "run:" + m.runID
		load = func(ctx context.Context) (*model.Project, error) {
			st, err := store.Open(cfg.StorePath(m.root), logger)
			if err != nil {
				return nil, err
			}
			defer func() { _ = st.Close() }()
			p, _, err := st.Load(ctx, m.runID)
			return p, err
		}
	default:
		origin = m.root
		load = func(ctx context.Context) (*model.Project, error) {
			p, _, err := assemble.Build(ctx, m.root, buildOptions(cfg, logger))
			return p, err
		}
	}

	ws := workspace.New(graph.NamingResolver{}, logger)
	if _, err := ws.Reload(ctx, origin, load); err != nil {
		return nil, nil, err
	}
	return ws, logger, nil
}

// projectName names a model for rendered output.
func (m *modelSource) projectName() string {
	if m.modelPath != "" {
		return strings.TrimSuffix(filepath.Base(m.modelPath), filepath.Ext(m.modelPath))
	}
	abs, err := filepath.Abs(m.root)
	if err != nil {
		return m.root
	}
	return filepath.Base(abs)
}

// printText writes s followed by exactly one newline.
func printText(w io.Writer, s string) {
	_, _ = fmt.Fprintln(w, strings.TrimSuffix(s, "\n"))
}
