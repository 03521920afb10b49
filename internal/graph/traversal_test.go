package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraversal_ReachableTrivialSelf(t *testing.T) {
	a := newActionNode("a")
	tr := newTraversal()

	assert.True(t, tr.reachable(a, a), "a node trivially reaches itself")
}

func TestTraversal_ReachableChain(t *testing.T) {
	a := newActionNode("a")
	b := newActionNode("b")
	c := newActionNode("c")
	a.addEdge(b)
	b.addEdge(c)

	tr := newTraversal()
	assert.True(t, tr.reachable(a, c))
	assert.False(t, tr.reachable(c, a), "edges are directed")
}

func TestTraversal_TerminatesOnCycle(t *testing.T) {
	a := newActionNode("a")
	b := newActionNode("b")
	a.addEdge(b)
	b.addEdge(a)

	tr := newTraversal()
	assert.True(t, tr.reachable(a, b))
	assert.True(t, tr.reachable(b, a))
	c := newActionNode("c")
	assert.False(t, tr.reachable(a, c), "walk over the cycle must terminate")
}

func TestTraversal_NoRevisitsOnDiamond(t *testing.T) {
	top := newActionNode("top")
	left := newActionNode("left")
	right := newActionNode("right")
	bottom := newActionNode("bottom")
	top.addEdge(left)
	top.addEdge(right)
	left.addEdge(bottom)
	right.addEdge(bottom)

	tr := newTraversal()
	visits := 0
	found := tr.find(top, func(*Node) bool {
		visits++
		return false
	})
	assert.False(t, found)
	assert.Equal(t, 4, visits, "each node evaluated exactly once")
}

func TestTraversal_FindShortCircuits(t *testing.T) {
	a := newActionNode("a")
	b := newActionNode("b")
	c := newActionNode("c")
	a.addEdge(b)
	b.addEdge(c)

	tr := newTraversal()
	visits := 0
	found := tr.find(a, func(n *Node) bool {
		visits++
		return n == a
	})
	assert.True(t, found, "predicate is evaluated at the start node")
	assert.Equal(t, 1, visits, "first hit stops the walk")
}

func TestTraversal_ScratchReuseIsClean(t *testing.T) {
	a := newActionNode("a")
	b := newActionNode("b")
	a.addEdge(b)

	tr := newTraversal()
	assert.True(t, tr.reachable(a, b))

	// A previous query must not leak discovered nodes into the next.
	c := newActionNode("c")
	assert.False(t, tr.reachable(c, b))
	assert.True(t, tr.reachable(a, b))
}
