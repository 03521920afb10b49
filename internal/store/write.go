package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kestrel-mc/kestrel/internal/ir"
	"github.com/kestrel-mc/kestrel/internal/trace"
)

// Run is one completed check of a scenario, ready to persist.
type Run struct {
	ID             string
	Scenario       string
	Consistent     bool
	ExpectationsOK bool
	CreatedAt      int64 // unix seconds, metadata only
	Actions        []*ir.Action
	Ops            []trace.OpRecord
}

// NewRun assembles a Run from a scenario and its result, assigning a
// fresh uuid.
func NewRun(sc *trace.Scenario, res *trace.Result) Run {
	return Run{
		ID:             uuid.NewString(),
		Scenario:       sc.Name,
		Consistent:     res.Consistent,
		ExpectationsOK: res.OK,
		CreatedAt:      time.Now().Unix(),
		Actions:        trace.DeclaredActions(sc),
		Ops:            res.Ops,
	}
}

// RecordRun persists a run atomically: the run row, its actions, and
// its op log all land in one transaction or not at all. Re-recording
// the same run ID is silently ignored (idempotent).
func (s *Store) RecordRun(ctx context.Context, run Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, scenario, consistent, expectations_ok, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Scenario, boolInt(run.Consistent), boolInt(run.ExpectationsOK), run.CreatedAt)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Run already recorded; nothing more to write.
		return nil
	}

	for _, a := range run.Actions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_actions (run_id, action_id, thread, seq, kind, loc)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, string(a.ID), int(a.Thread), a.Seq, string(a.Kind), a.Loc)
		if err != nil {
			return fmt.Errorf("record run action %q: %w", a.ID, err)
		}
	}

	for _, op := range run.Ops {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO run_ops (run_id, seq, op, from_ref, to_ref, cycles_after)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, op.Seq, op.Op, op.From, op.To, boolInt(op.CyclesAfter))
		if err != nil {
			return fmt.Errorf("record run op %d: %w", op.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
