package graph

// Transaction boundary.
//
// The graph has two externally visible states: clean (nothing pending
// since the last commit) and dirty (edges or RMW links added). The
// search driver brackets every speculative exploration with
// StartTransaction and exactly one of Commit / Rollback.

// StartTransaction asserts the clean state. It is a precondition check,
// not a state change: the logs must be empty and the cycle flag must
// equal its last committed value. Calling it mid-transaction is misuse
// by the single trusted caller and panics.
func (g *Graph) StartTransaction() {
	if len(g.edgeLog) != 0 || len(g.rmwLog) != 0 {
		panic("graph: StartTransaction on dirty graph (uncommitted mutations pending)")
	}
	if g.hasCycles != g.committedCycles {
		panic("graph: StartTransaction with unreconciled cycle flag")
	}
}

// Commit keeps every pending mutation: it discards both logs without
// undoing anything and snapshots the cycle flag as the new rollback
// target.
func (g *Graph) Commit() {
	g.edgeLog = g.edgeLog[:0]
	g.rmwLog = g.rmwLog[:0]
	g.committedCycles = g.hasCycles
}

// Rollback returns the graph to exactly its state at the last commit.
//
// Edges are undone in reverse insertion order - each log entry names
// the node whose most recently added outgoing edge is popped, which
// also repairs the inverse back-edge on the other endpoint. RMW links
// are restored to their prior holders, newest entry first so a link
// set twice in one transaction ends at its pre-transaction value.
// Finally the cycle flag is restored to its committed snapshot.
//
// Cost is proportional to the mutations in the discarded transaction,
// not to the size of the graph.
func (g *Graph) Rollback() {
	for i := len(g.edgeLog) - 1; i >= 0; i-- {
		g.edgeLog[i].removeLastEdge()
	}
	for i := len(g.rmwLog) - 1; i >= 0; i-- {
		u := g.rmwLog[i]
		u.node.restoreRMW(u.prev)
	}
	g.edgeLog = g.edgeLog[:0]
	g.rmwLog = g.rmwLog[:0]
	g.hasCycles = g.committedCycles
}
