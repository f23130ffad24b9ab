package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phobologic/springmap/internal/config"
)

const (
	sentinelStart = "<!-- springmap:start -->"
	sentinelEnd   = "<!-- springmap:end -->"
)

// newInitCmd builds `springmap init`, which writes (or updates) a springmap
// usage section in a CLAUDE.md file.
func newInitCmd(g *globalOptions) *cobra.Command {
	var (
		dryRun      bool
		writeConfig bool
	)

	cmd := &cobra.Command{
		Use:   "init [path-to-CLAUDE.md]",
		Short: "Write a springmap usage section to CLAUDE.md",
		Long: `Write a springmap usage section to a CLAUDE.md file. The section is wrapped in
sentinel comments so it can be updated in place on subsequent runs without
touching surrounding content. Creates the file if it does not exist.

path-to-CLAUDE.md defaults to ./CLAUDE.md. With --write-config a
.springmap.toml holding the default settings is also written next to it,
unless one already exists.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			section := generateSection()

			// --dry-run with no path: just print the section itself.
			if dryRun && len(args) == 0 {
				_, _ = fmt.Fprintln(g.stdout, section)
				return nil
			}

			path := "CLAUDE.md"
			if len(args) > 0 {
				path = args[0]
			}

			existing, _ := os.ReadFile(path)
			updated := applySection(string(existing), section)

			if dryRun {
				_, _ = fmt.Fprint(g.stdout, updated)
				return nil
			}

			if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			_, _ = fmt.Fprintf(g.stderr, "wrote springmap section to %s\n", path)

			if writeConfig {
				cfgPath := filepath.Join(filepath.Dir(path), config.FileName+".toml")
				if _, err := os.Stat(cfgPath); err == nil {
					_, _ = fmt.Fprintf(g.stderr, "kept existing %s\n", cfgPath)
					return nil
				}
				if err := config.DefaultConfig().Save(cfgPath); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(g.stderr, "wrote default config to %s\n", cfgPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be written without modifying the file")
	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "also write a default .springmap.toml")
	return cmd
}

// generateSection returns the full sentinel-wrapped springmap documentation block.
func generateSection() string {
	body := `## springmap: Spring Boot architecture map

Run ` + "`springmap`" + ` via the Bash tool before exploring a Spring Boot codebase. It
extracts controllers, services, repositories and entities into one model and
answers questions about them without reading every file.

**Availability:** Check with ` + "`springmap --version`" + ` first; skip gracefully if
not found.

**Run it:**
` + "```" + `bash
springmap extract --store                         # scan ., record the model
springmap query --run latest list_endpoints       # every endpoint and handler
springmap query --run latest get_controller_info User
springmap query --run latest get_entity_info Order
springmap trace --run latest GET /api/users       # controller -> table flow
springmap query --run latest get_project_summary
` + "```" + `

**Storing runs:** ` + "`extract --store`" + ` keeps the model in ` + "`.springmap/runs.db`" + `;
add ` + "`.springmap/`" + ` to ` + "`.gitignore`" + `. Re-run extract after changing sources.

**All commands:** ` + "`springmap --help`" + `, tools: ` + "`springmap tools`" + `

**How to use the output:**

1. **Start from ` + "`list_endpoints`" + `** to find the handler for a route instead
   of grepping for mapping annotations.

2. **Use ` + "`trace`" + ` to follow a request.** It names the controller method,
   service, repository and entity table in one step. Services and repositories
   are matched by the controller's name prefix, so verify the trace when a
   controller's name does not follow that convention.

3. **Use the info tools for signatures.** Lookups accept partial names
   (` + "`User`" + ` finds ` + "`UserController`" + `); add ` + "`--candidates`" + ` to see every match.

4. **Only fall back to Glob/Grep for things springmap cannot answer**, such as
   method bodies or classes outside the four recognized kinds.`

	return sentinelStart + "\n" + body + "\n" + sentinelEnd
}

// applySection inserts section into content, replacing an existing sentinel
// block if present or appending if not. It is a pure function for easy testing.
func applySection(content, section string) string {
	start := strings.Index(content, sentinelStart)
	end := strings.Index(content, sentinelEnd)

	if start >= 0 && end > start {
		return content[:start] + section + content[end+len(sentinelEnd):]
	}

	// Append, ensuring a blank line separator.
	if len(content) > 0 && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + section + "\n"
}
