package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kestrel-mc/kestrel/internal/dot"
	"github.com/kestrel-mc/kestrel/internal/trace"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Output string // "" means stdout
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <trace.yaml>",
		Short: "Export the graph a trace builds in Graphviz DOT form",
		Long: `Apply a trace scenario's mutations to a fresh graph and print the
resulting graph in DOT form. Expectation steps are ignored.

Examples:
  kestrel export trace.yaml
  kestrel export trace.yaml -o graph.dot`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write DOT to this file instead of stdout")

	return cmd
}

func runExport(opts *ExportOptions, cmd *cobra.Command, path string) error {
	sc, err := trace.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	g, err := trace.Graph(sc)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build graph", err)
	}
	rendered := dot.Render(g.Snapshot())

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(rendered), 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write DOT file", err)
		}
		return nil
	}

	_, err = cmd.OutOrStdout().Write([]byte(rendered))
	return err
}
