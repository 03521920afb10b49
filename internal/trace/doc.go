// Package trace defines the YAML scenario format for exercising the
// ordering-constraint graph, and the runner that applies a scenario to a
// fresh graph and reports the verdict.
//
// A scenario declares the recorded actions up front, then lists ordered
// steps: graph mutations (add_edge, add_rmw), transaction boundaries
// (begin, commit, rollback), and expectations (expect_reachable,
// expect_cycles). Expectation failures are recorded in the result, not
// returned as errors; malformed scenarios are errors.
//
// The runner also emits the flat mutation log a run produces, which is
// what the store persists and replays.
package trace
