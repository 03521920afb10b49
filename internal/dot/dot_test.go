package dot

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-mc/kestrel/internal/graph"
	"github.com/kestrel-mc/kestrel/internal/ir"
)

func action(id string, thread ir.TID, kind ir.ActionKind) *ir.Action {
	return &ir.Action{ID: ir.ActionID(id), Thread: thread, Kind: kind, Loc: "c"}
}

// To regenerate golden files, run:
//
//	go test ./internal/dot -update

func TestRender_RMWGolden(t *testing.T) {
	w := action("w", 1, ir.KindWrite)
	v := action("v", 2, ir.KindWrite)
	r := action("r", 3, ir.KindRMW)

	g := graph.New()
	g.AddEdge(w, v)
	g.AddRMWEdge(w, r)
	require.False(t, g.HasCycles())

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, "rmw", []byte(Render(g.Snapshot())))
}

func TestRender_CycleGolden(t *testing.T) {
	x := action("x", 1, ir.KindWrite)
	y := action("y", 2, ir.KindWrite)

	g := graph.New()
	g.AddEdge(x, y)
	g.AddEdge(y, x)
	require.True(t, g.HasCycles())

	gold := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	gold.Assert(t, "cycle", []byte(Render(g.Snapshot())))
}

func TestRender_PromiseNodeIsDashed(t *testing.T) {
	x := action("x", 1, ir.KindWrite)

	g := graph.New()
	g.AddPromiseEdge(x, promiseStub{})

	out := Render(g.Snapshot())
	assert.Contains(t, out, `"promise#0" [label="promise#0", style=dashed];`)
	assert.Contains(t, out, `"x" -> "promise#0";`)
}

func TestRender_Deterministic(t *testing.T) {
	x := action("x", 1, ir.KindWrite)
	y := action("y", 2, ir.KindWrite)

	g := graph.New()
	g.AddEdge(x, y)

	first := Render(g.Snapshot())
	second := Render(g.Snapshot())
	assert.Equal(t, first, second)
	assert.True(t, strings.HasSuffix(first, "}\n"))
}

type promiseStub struct{}

func (promiseStub) ExcludesThread(ir.TID) bool { return false }
