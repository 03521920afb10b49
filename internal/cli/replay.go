package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kestrel-mc/kestrel/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
}

// ReplayResult holds the overall replay output.
type ReplayResult struct {
	Reports  []store.ReplayReport `json:"reports"`
	AllMatch bool                 `json:"all_match"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [run-id]",
		Short: "Replay stored runs and verify their verdicts reproduce",
		Long: `Re-apply the op log of stored runs to a fresh graph and verify each
reproduces its stored verdict, op by op. With a run ID, replays that run
only; otherwise replays every stored run.

Exit codes:
  0 - All replayed runs reproduce their verdicts
  1 - A replayed run diverged from its stored log
  2 - Command error (database not found, unknown run ID, etc.)

Examples:
  kestrel replay --db runs.db
  kestrel replay --db runs.db 2f1a...
  kestrel replay --db runs.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd, args)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	var runIDs []string
	if len(args) == 1 {
		runIDs = args
	} else {
		summaries, err := st.ListRuns(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list runs", err)
		}
		for _, s := range summaries {
			runIDs = append(runIDs, s.ID)
		}
	}

	result := ReplayResult{AllMatch: true}
	for _, id := range runIDs {
		report, err := st.ReplayRun(ctx, id)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", id), err)
		}
		slog.Debug("run replayed", "id", id, "match", report.Match)
		result.Reports = append(result.Reports, report)
		if !report.Match {
			result.AllMatch = false
		}
	}

	out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
	if err := out.SuccessText(formatReplayResult(result), result); err != nil {
		return err
	}

	if !result.AllMatch {
		return NewExitError(ExitFailure, "replay diverged from stored log")
	}
	return nil
}

func formatReplayResult(r ReplayResult) string {
	if len(r.Reports) == 0 {
		return "no stored runs"
	}

	var b strings.Builder
	for i, rep := range r.Reports {
		if i > 0 {
			b.WriteString("\n")
		}
		status := "ok"
		if !rep.Match {
			status = "DIVERGED: " + rep.Divergence
		}
		verdict := "consistent"
		if !rep.StoredConsistent {
			verdict = "inconsistent"
		}
		fmt.Fprintf(&b, "%s  %-20s %-12s %s", rep.RunID, rep.Scenario, verdict, status)
	}
	return b.String()
}
