package trace

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kestrel-mc/kestrel/internal/ir"
)

// Scenario describes one recorded candidate ordering to check.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Actions declares every recorded action a step may reference.
	Actions []ActionDecl `yaml:"actions"`

	// Steps are applied in order against a fresh graph.
	Steps []Step `yaml:"steps"`
}

// ActionDecl declares a recorded action. Seq numbers are assigned by the
// runner's clock in declaration order.
type ActionDecl struct {
	// ID names the action within this scenario.
	ID string `yaml:"id"`

	// Thread is the performing thread.
	Thread int `yaml:"thread"`

	// Kind is one of read, write, rmw, fence. Defaults to write.
	Kind string `yaml:"kind,omitempty"`

	// Loc is the memory location. Optional, diagnostic only.
	Loc string `yaml:"loc,omitempty"`
}

// Step is a single operation against the graph.
type Step struct {
	// Op selects the operation:
	//   - "add_edge": order From before To
	//   - "add_rmw": RMW reads from From
	//   - "begin" / "commit" / "rollback": transaction boundaries
	//   - "expect_reachable": assert ReachableFromAction(From, To) == Want
	//   - "expect_cycles": assert HasCycles() == Want
	Op string `yaml:"op"`

	// From and To reference declared action IDs (add_edge,
	// expect_reachable; From also for add_rmw).
	From string `yaml:"from,omitempty"`
	To   string `yaml:"to,omitempty"`

	// RMW references the reading action (add_rmw).
	RMW string `yaml:"rmw,omitempty"`

	// Want is the expected answer (expect_reachable, expect_cycles).
	Want *bool `yaml:"want,omitempty"`
}

// Step op constants.
const (
	OpAddEdge         = "add_edge"
	OpAddRMW          = "add_rmw"
	OpBegin           = "begin"
	OpCommit          = "commit"
	OpRollback        = "rollback"
	OpExpectReachable = "expect_reachable"
	OpExpectCycles    = "expect_cycles"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected (catches typos like "step:" vs "steps:"), and the scenario is
// validated before it is returned.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Validate checks declarations, step references, and transaction
// discipline.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return &ScenarioError{Code: ErrCodeMissingField, Message: "scenario has no name", Step: -1}
	}

	declared := make(map[string]bool, len(sc.Actions))
	for _, a := range sc.Actions {
		if a.ID == "" {
			return &ScenarioError{Code: ErrCodeMissingField, Message: "action declaration has no id", Step: -1}
		}
		if declared[a.ID] {
			return &ScenarioError{Code: ErrCodeDuplicateAction, Message: "action declared twice", Step: -1, Ref: a.ID}
		}
		if a.Kind != "" && !ir.ValidKinds[ir.ActionKind(a.Kind)] {
			return &ScenarioError{Code: ErrCodeInvalidKind, Message: "invalid action kind", Step: -1, Ref: a.Kind}
		}
		declared[a.ID] = true
	}

	need := func(i int, field, ref string) *ScenarioError {
		if ref == "" {
			return &ScenarioError{Code: ErrCodeMissingField, Message: "step missing " + field, Step: i}
		}
		if !declared[ref] {
			return &ScenarioError{Code: ErrCodeUnknownAction, Message: "step references undeclared action", Step: i, Ref: ref}
		}
		return nil
	}

	// begin requires the clean state; a mutation step since the last
	// commit or rollback makes the graph dirty. The check is
	// conservative: it counts every mutation step, not just the ones
	// that would actually change the graph.
	dirty := false

	for i, st := range sc.Steps {
		switch st.Op {
		case OpAddEdge:
			if err := need(i, "from", st.From); err != nil {
				return err
			}
			if err := need(i, "to", st.To); err != nil {
				return err
			}
			dirty = true
		case OpExpectReachable:
			if err := need(i, "from", st.From); err != nil {
				return err
			}
			if err := need(i, "to", st.To); err != nil {
				return err
			}
		case OpAddRMW:
			if err := need(i, "from", st.From); err != nil {
				return err
			}
			if err := need(i, "rmw", st.RMW); err != nil {
				return err
			}
			dirty = true
		case OpBegin:
			if dirty {
				return &ScenarioError{Code: ErrCodeUnbalancedBegin, Message: "begin with mutations pending since the last commit or rollback", Step: i}
			}
		case OpCommit, OpRollback:
			dirty = false
		case OpExpectCycles:
			// Want checked below.
		default:
			return &ScenarioError{Code: ErrCodeUnknownOp, Message: "unknown op", Step: i, Ref: st.Op}
		}

		if (st.Op == OpExpectReachable || st.Op == OpExpectCycles) && st.Want == nil {
			return &ScenarioError{Code: ErrCodeMissingField, Message: "expectation missing want", Step: i}
		}
	}
	return nil
}
