package store

import (
	"context"
	"fmt"

	"github.com/kestrel-mc/kestrel/internal/graph"
	"github.com/kestrel-mc/kestrel/internal/ir"
	"github.com/kestrel-mc/kestrel/internal/trace"
)

// ReplayReport is the outcome of re-deriving a stored run's verdict.
type ReplayReport struct {
	RunID              string `json:"run_id"`
	Scenario           string `json:"scenario"`
	StoredConsistent   bool   `json:"stored_consistent"`
	ReplayedConsistent bool   `json:"replayed_consistent"`

	// Match is true when every op reproduced its recorded cycle state
	// and the final verdicts agree.
	Match bool `json:"match"`

	// Divergence describes the first mismatch, if any.
	Divergence string `json:"divergence,omitempty"`
}

// ReplayRun re-applies a stored run's op log to a fresh graph and
// checks that it reproduces the stored verdict, op by op.
//
// The graph is deterministic: identical ops in identical order must
// produce identical cycle states. A divergence therefore means the
// stored log is corrupt or was produced by an incompatible version.
func (s *Store) ReplayRun(ctx context.Context, id string) (ReplayReport, error) {
	run, err := s.ReadRun(ctx, id)
	if err != nil {
		return ReplayReport{}, err
	}

	report := ReplayReport{
		RunID:            run.ID,
		Scenario:         run.Scenario,
		StoredConsistent: run.Consistent,
		Match:            true,
	}

	actions := make(map[string]*ir.Action, len(run.Actions))
	for _, a := range run.Actions {
		actions[string(a.ID)] = a
	}

	// A stored log always satisfies transaction discipline; a begin op
	// with mutations pending means the log was tampered with, and must
	// not reach the graph's precondition panic.
	g := graph.New()
	dirty := false
	for _, op := range run.Ops {
		switch op.Op {
		case trace.OpAddEdge:
			from, to := actions[op.From], actions[op.To]
			if from == nil || to == nil {
				return ReplayReport{}, fmt.Errorf("replay run %q: op %d references unknown action", id, op.Seq)
			}
			g.AddEdge(from, to)
			dirty = true
		case trace.OpAddRMW:
			from, rmw := actions[op.From], actions[op.To]
			if from == nil || rmw == nil {
				return ReplayReport{}, fmt.Errorf("replay run %q: op %d references unknown action", id, op.Seq)
			}
			g.AddRMWEdge(from, rmw)
			dirty = true
		case trace.OpBegin:
			if dirty {
				return ReplayReport{}, fmt.Errorf("replay run %q: op %d begins with mutations pending", id, op.Seq)
			}
			g.StartTransaction()
		case trace.OpCommit:
			g.Commit()
			dirty = false
		case trace.OpRollback:
			g.Rollback()
			dirty = false
		default:
			return ReplayReport{}, fmt.Errorf("replay run %q: op %d has unknown kind %q", id, op.Seq, op.Op)
		}

		if report.Match && g.HasCycles() != op.CyclesAfter {
			report.Match = false
			report.Divergence = fmt.Sprintf("op %d (%s): cycles = %v, stored %v",
				op.Seq, op.Op, g.HasCycles(), op.CyclesAfter)
		}
	}

	report.ReplayedConsistent = !g.HasCycles()
	if report.Match && report.ReplayedConsistent != report.StoredConsistent {
		report.Match = false
		report.Divergence = fmt.Sprintf("final verdict: consistent = %v, stored %v",
			report.ReplayedConsistent, report.StoredConsistent)
	}
	return report, nil
}
