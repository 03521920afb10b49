package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kestrel-mc/kestrel/internal/ir"
	"github.com/kestrel-mc/kestrel/internal/trace"
)

// ErrRunNotFound is returned when a run ID has no stored row.
var ErrRunNotFound = errors.New("store: run not found")

// RunSummary is the list view of a stored run.
type RunSummary struct {
	ID             string `json:"id"`
	Scenario       string `json:"scenario"`
	Consistent     bool   `json:"consistent"`
	ExpectationsOK bool   `json:"expectations_ok"`
	CreatedAt      int64  `json:"created_at"`
}

// ListRuns returns summaries of all stored runs, newest first, with
// run ID as the tiebreaker for determinism.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scenario, consistent, expectations_ok, created_at
		FROM runs
		ORDER BY created_at DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var consistent, ok int
		if err := rows.Scan(&r.ID, &r.Scenario, &consistent, &ok, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		r.Consistent = consistent != 0
		r.ExpectationsOK = ok != 0
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return out, nil
}

// ReadRun loads a stored run with its actions and op log. Ops come back
// ordered by seq, which is the replay order.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var run Run
	var consistent, ok int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, scenario, consistent, expectations_ok, created_at
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Scenario, &consistent, &ok, &run.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %q: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %q: %w", id, err)
	}
	run.Consistent = consistent != 0
	run.ExpectationsOK = ok != 0

	run.Actions, err = s.readRunActions(ctx, id)
	if err != nil {
		return Run{}, err
	}
	run.Ops, err = s.readRunOps(ctx, id)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

func (s *Store) readRunActions(ctx context.Context, id string) ([]*ir.Action, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT action_id, thread, seq, kind, loc
		FROM run_actions WHERE run_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("read run actions: %w", err)
	}
	defer rows.Close()

	var out []*ir.Action
	for rows.Next() {
		var a ir.Action
		var actionID, kind string
		var thread int
		if err := rows.Scan(&actionID, &thread, &a.Seq, &kind, &a.Loc); err != nil {
			return nil, fmt.Errorf("read run actions: %w", err)
		}
		a.ID = ir.ActionID(actionID)
		a.Thread = ir.TID(thread)
		a.Kind = ir.ActionKind(kind)
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read run actions: %w", err)
	}
	return out, nil
}

func (s *Store) readRunOps(ctx context.Context, id string) ([]trace.OpRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, op, from_ref, to_ref, cycles_after
		FROM run_ops WHERE run_id = ?
		ORDER BY seq ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("read run ops: %w", err)
	}
	defer rows.Close()

	var out []trace.OpRecord
	for rows.Next() {
		var op trace.OpRecord
		var cycles int
		if err := rows.Scan(&op.Seq, &op.Op, &op.From, &op.To, &cycles); err != nil {
			return nil, fmt.Errorf("read run ops: %w", err)
		}
		op.CyclesAfter = cycles != 0
		out = append(out, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read run ops: %w", err)
	}
	return out, nil
}
