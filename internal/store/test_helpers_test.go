package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kestrel-mc/kestrel/internal/trace"
)

// createTestStore creates a fresh on-disk store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err, "Open() failed")
	t.Cleanup(func() { s.Close() })
	return s
}

// cycleScenario is a small scenario whose run ends inconsistent.
func cycleScenario(t *testing.T) *trace.Scenario {
	t.Helper()
	sc, err := trace.ParseScenario([]byte(`
name: store-cycle
actions:
  - id: x
    thread: 1
  - id: y
    thread: 2
steps:
  - op: add_edge
    from: x
    to: y
  - op: add_edge
    from: y
    to: x
`))
	require.NoError(t, err)
	return sc
}

// rmwScenario is a consistent scenario that exercises the RMW path.
func rmwScenario(t *testing.T) *trace.Scenario {
	t.Helper()
	sc, err := trace.ParseScenario([]byte(`
name: store-rmw
actions:
  - id: w
    thread: 1
    kind: write
    loc: c
  - id: v
    thread: 2
    kind: write
    loc: c
  - id: r
    thread: 3
    kind: rmw
    loc: c
steps:
  - op: add_edge
    from: w
    to: v
  - op: add_rmw
    from: w
    rmw: r
  - op: commit
`))
	require.NoError(t, err)
	return sc
}

// recordedRun runs a scenario and persists it, returning the run.
func recordedRun(t *testing.T, s *Store, sc *trace.Scenario) Run {
	t.Helper()
	res, err := trace.Run(sc)
	require.NoError(t, err)
	run := NewRun(sc, res)
	require.NoError(t, s.RecordRun(context.Background(), run))
	return run
}
