package trace

import (
	"fmt"

	"github.com/kestrel-mc/kestrel/internal/graph"
	"github.com/kestrel-mc/kestrel/internal/ir"
)

// StepResult records the outcome of one step.
type StepResult struct {
	Index int    `json:"index"`
	Op    string `json:"op"`
	OK    bool   `json:"ok"`
	Note  string `json:"note,omitempty"` // set on expectation failures
}

// OpRecord is one applied mutation or boundary, in the flat form the
// store persists. Seq is the position within the run's op log.
type OpRecord struct {
	Seq         int    `json:"seq"`
	Op          string `json:"op"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"` // reader ID for add_rmw
	CyclesAfter bool   `json:"cycles_after"`
}

// Result is the outcome of running a scenario.
type Result struct {
	Scenario string `json:"scenario"`

	// Consistent is the final verdict: no cycle was live when the run
	// ended.
	Consistent bool `json:"consistent"`

	// OK reports whether every expectation in the scenario held.
	OK bool `json:"ok"`

	Steps []StepResult `json:"steps"`

	// Ops is the flat operation log, suitable for persisting and
	// replaying the run.
	Ops []OpRecord `json:"ops"`
}

// DeclaredActions materializes the declared actions, stamping seq
// numbers from a fresh clock in declaration order. Two runs of the same
// scenario therefore produce identical actions. Kind defaults to write.
func DeclaredActions(sc *Scenario) []*ir.Action {
	clock := ir.NewClock()
	actions := make([]*ir.Action, 0, len(sc.Actions))
	for _, d := range sc.Actions {
		kind := ir.ActionKind(d.Kind)
		if kind == "" {
			kind = ir.KindWrite
		}
		actions = append(actions, &ir.Action{
			ID:     ir.ActionID(d.ID),
			Thread: ir.TID(d.Thread),
			Seq:    clock.Next(),
			Kind:   kind,
			Loc:    d.Loc,
		})
	}
	return actions
}

func buildActions(sc *Scenario) map[string]*ir.Action {
	list := DeclaredActions(sc)
	actions := make(map[string]*ir.Action, len(list))
	for _, a := range list {
		actions[string(a.ID)] = a
	}
	return actions
}

// Run applies a validated scenario to a fresh graph.
//
// Expectation failures are recorded in the result; only a malformed
// scenario returns an error. Seq numbers are stamped from a fresh clock
// in declaration order, so two runs of the same scenario produce
// identical actions and identical op logs.
func Run(sc *Scenario) (*Result, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	actions := buildActions(sc)
	g := graph.New()
	res := &Result{
		Scenario: sc.Name,
		OK:       true,
		Steps:    make([]StepResult, 0, len(sc.Steps)),
	}

	record := func(op, from, to string) {
		res.Ops = append(res.Ops, OpRecord{
			Seq:         len(res.Ops),
			Op:          op,
			From:        from,
			To:          to,
			CyclesAfter: g.HasCycles(),
		})
	}

	for i, st := range sc.Steps {
		sr := StepResult{Index: i, Op: st.Op, OK: true}

		switch st.Op {
		case OpAddEdge:
			g.AddEdge(actions[st.From], actions[st.To])
			record(OpAddEdge, st.From, st.To)
		case OpAddRMW:
			g.AddRMWEdge(actions[st.From], actions[st.RMW])
			record(OpAddRMW, st.From, st.RMW)
		case OpBegin:
			g.StartTransaction()
			record(OpBegin, "", "")
		case OpCommit:
			g.Commit()
			record(OpCommit, "", "")
		case OpRollback:
			g.Rollback()
			record(OpRollback, "", "")
		case OpExpectReachable:
			got := g.ReachableFromAction(actions[st.From], actions[st.To])
			if got != *st.Want {
				sr.OK = false
				sr.Note = fmt.Sprintf("reachable(%s, %s) = %v, want %v", st.From, st.To, got, *st.Want)
				res.OK = false
			}
		case OpExpectCycles:
			got := g.HasCycles()
			if got != *st.Want {
				sr.OK = false
				sr.Note = fmt.Sprintf("cycles = %v, want %v", got, *st.Want)
				res.OK = false
			}
		}

		res.Steps = append(res.Steps, sr)
	}

	res.Consistent = !g.HasCycles()
	return res, nil
}

// Graph rebuilds the final graph a scenario produces, for export. The
// scenario's expectations are ignored; only mutations are applied.
func Graph(sc *Scenario) (*graph.Graph, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}

	actions := buildActions(sc)
	g := graph.New()
	for _, st := range sc.Steps {
		switch st.Op {
		case OpAddEdge:
			g.AddEdge(actions[st.From], actions[st.To])
		case OpAddRMW:
			g.AddRMWEdge(actions[st.From], actions[st.RMW])
		case OpBegin:
			g.StartTransaction()
		case OpCommit:
			g.Commit()
		case OpRollback:
			g.Rollback()
		}
	}
	return g, nil
}
