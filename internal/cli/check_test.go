package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-mc/kestrel/internal/store"
)

func execCheck(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCheckCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestCheck_ConsistentScenario(t *testing.T) {
	buf, err := execCheck(t, "testdata/consistent.yaml")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "scenario:     consistent-ordering")
	assert.Contains(t, buf.String(), "verdict:      consistent")
	assert.Contains(t, buf.String(), "expectations: ok")
}

func TestCheck_CycleScenario(t *testing.T) {
	// The scenario expects the cycle, so expectations hold even though
	// the ordering is inconsistent.
	buf, err := execCheck(t, "testdata/cycle.yaml")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "INCONSISTENT")
	assert.Contains(t, buf.String(), "expectations: ok")
}

func TestCheck_FailedExpectationExitsNonzero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "failing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: failing
actions:
  - id: x
    thread: 1
  - id: y
    thread: 2
steps:
  - op: add_edge
    from: x
    to: y
  - op: expect_cycles
    want: true
`), 0o644))

	buf, err := execCheck(t, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "expectations: 1 failed")
	assert.Contains(t, buf.String(), "cycles = false, want true")
}

func TestCheck_MissingFile(t *testing.T) {
	_, err := execCheck(t, "testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestCheck_JSONOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewCheckCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"testdata/consistent.yaml"})
	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "consistent-ordering", data["scenario"])
	assert.Equal(t, true, data["consistent"])
}

func TestCheck_RecordsRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	buf, err := execCheck(t, "testdata/cycle.yaml", "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "run:")

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	runs, err := st.ListRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "closed-cycle", runs[0].Scenario)
	assert.False(t, runs[0].Consistent)
}

func TestCheck_WritesDotFile(t *testing.T) {
	dotPath := filepath.Join(t.TempDir(), "graph.dot")

	_, err := execCheck(t, "testdata/consistent.yaml", "--dot", dotPath)
	require.NoError(t, err)

	data, err := os.ReadFile(dotPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "digraph ordering {")
	assert.Contains(t, string(data), `"x" -> "y";`)
}
