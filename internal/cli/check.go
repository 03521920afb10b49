package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kestrel-mc/kestrel/internal/dot"
	"github.com/kestrel-mc/kestrel/internal/store"
	"github.com/kestrel-mc/kestrel/internal/trace"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Database string // optional - record the run
	DotPath  string // optional - write DOT of the final graph
}

// CheckResult holds the check command output.
type CheckResult struct {
	Scenario       string             `json:"scenario"`
	Consistent     bool               `json:"consistent"`
	ExpectationsOK bool               `json:"expectations_ok"`
	RunID          string             `json:"run_id,omitempty"`
	FailedSteps    []trace.StepResult `json:"failed_steps,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check <trace.yaml>",
		Short: "Run a recorded trace and report its consistency verdict",
		Long: `Run a trace scenario against a fresh ordering graph and report whether
the candidate ordering is consistent and whether every expectation held.

Exit codes:
  0 - All expectations held
  1 - An expectation failed
  2 - Command error (missing file, malformed scenario, etc.)

Examples:
  kestrel check trace.yaml
  kestrel check trace.yaml --db runs.db
  kestrel check trace.yaml --dot graph.dot --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "record the run in this SQLite database")
	cmd.Flags().StringVar(&opts.DotPath, "dot", "", "write the final graph in DOT form to this file")

	return cmd
}

func runCheck(opts *CheckOptions, cmd *cobra.Command, path string) error {
	sc, err := trace.LoadScenario(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	slog.Debug("scenario loaded", "name", sc.Name, "actions", len(sc.Actions), "steps", len(sc.Steps))

	res, err := trace.Run(sc)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}

	result := CheckResult{
		Scenario:       res.Scenario,
		Consistent:     res.Consistent,
		ExpectationsOK: res.OK,
	}
	for _, s := range res.Steps {
		if !s.OK {
			result.FailedSteps = append(result.FailedSteps, s)
		}
	}

	if opts.Database != "" {
		st, err := store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()

		run := store.NewRun(sc, res)
		if err := st.RecordRun(context.Background(), run); err != nil {
			return WrapExitError(ExitCommandError, "failed to record run", err)
		}
		result.RunID = run.ID
		slog.Debug("run recorded", "id", run.ID)
	}

	if opts.DotPath != "" {
		g, err := trace.Graph(sc)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to rebuild graph", err)
		}
		if err := os.WriteFile(opts.DotPath, []byte(dot.Render(g.Snapshot())), 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write DOT file", err)
		}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := out.SuccessText(formatCheckResult(result), result); err != nil {
		return err
	}

	if !result.ExpectationsOK {
		return NewExitError(ExitFailure, "scenario expectations failed")
	}
	return nil
}

func formatCheckResult(r CheckResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario:     %s\n", r.Scenario)
	if r.Consistent {
		b.WriteString("verdict:      consistent\n")
	} else {
		b.WriteString("verdict:      INCONSISTENT (cycle detected)\n")
	}
	if r.ExpectationsOK {
		b.WriteString("expectations: ok")
	} else {
		fmt.Fprintf(&b, "expectations: %d failed", len(r.FailedSteps))
		for _, s := range r.FailedSteps {
			fmt.Fprintf(&b, "\n  step %d (%s): %s", s.Index, s.Op, s.Note)
		}
	}
	if r.RunID != "" {
		fmt.Fprintf(&b, "\nrun:          %s", r.RunID)
	}
	return b.String()
}
