package graph

import "github.com/kestrel-mc/kestrel/internal/ir"

// Graph owns every Node and exposes the ten-operation surface the search
// driver uses: AddEdge, AddRMWEdge, AddPromiseEdge, AddEdgeFromPromise,
// ReachableFromAction, CanEliminate, StartTransaction, Commit, Rollback,
// HasCycles.
type Graph struct {
	actions  map[*ir.Action]*Node
	promises map[ir.Promise]*Node

	// order records node creation order so diagnostics (DOT export)
	// are deterministic; map iteration is not.
	order []*Node

	// hasCycles is sticky: mutation only moves it false->true.
	// Rollback restores it to committedCycles, nothing else resets it.
	hasCycles       bool
	committedCycles bool

	// edgeLog holds, per edge inserted since the last commit, the node
	// whose most recently added outgoing edge must be popped on
	// rollback. Duplicates are expected; order is the undo order,
	// reversed.
	edgeLog []*Node

	// rmwLog holds every RMW link set since the last commit together
	// with the prior holder, so rollback restores the link exactly -
	// including after a uniqueness violation overwrote it.
	rmwLog []rmwUndo

	scratch *traversal
}

type rmwUndo struct {
	node *Node
	prev *Node
}

// New creates an empty graph with no pending transaction.
func New() *Graph {
	return &Graph{
		actions:  make(map[*ir.Action]*Node),
		promises: make(map[ir.Promise]*Node),
		scratch:  newTraversal(),
	}
}

// node returns the unique Node for an action, creating it on first
// reference. Lookup is idempotent: the same action never yields two
// nodes.
func (g *Graph) node(a *ir.Action) *Node {
	n := g.actions[a]
	if n == nil {
		n = &Node{action: a}
		g.actions[a] = n
		g.order = append(g.order, n)
	}
	return n
}

// promiseNode returns the unique Node for a promise, creating it on
// first reference.
func (g *Graph) promiseNode(p ir.Promise) *Node {
	n := g.promises[p]
	if n == nil {
		n = &Node{promise: p}
		g.promises[p] = n
		g.order = append(g.order, n)
	}
	return n
}

// link inserts from -> to with the cycle pre-check and the RMW fusion
// step. This is the single mutation path every edge insertion funnels
// through.
func (g *Graph) link(from, to *Node) {
	g.insert(from, to)

	// An RMW occupies the modification-order position immediately after
	// the node it reads from, so it inherits every ordering constraint
	// imposed on that node.
	if r := from.getRMW(); r != nil && r != to {
		g.insert(r, to)
	}
}

// insert classifies then performs a single edge insertion.
//
// The reachability check runs against the pre-insertion graph: if to
// can already reach from, this edge closes a cycle. Once the flag is
// set the check is skipped - the flag is sticky and further checking
// is wasted work.
func (g *Graph) insert(from, to *Node) {
	if !g.hasCycles {
		g.hasCycles = g.scratch.reachable(to, from)
	}
	if from.addEdge(to) {
		g.edgeLog = append(g.edgeLog, from)
	}
}

// AddEdge records the constraint that from happens before to.
// Re-adding an existing edge is a no-op and is not logged.
func (g *Graph) AddEdge(from, to *ir.Action) {
	g.link(g.node(from), g.node(to))
}

// AddPromiseEdge records that from happens before the promised write p.
func (g *Graph) AddPromiseEdge(from *ir.Action, p ir.Promise) {
	g.link(g.node(from), g.promiseNode(p))
}

// AddEdgeFromPromise records that the promised write p happens before to.
func (g *Graph) AddEdgeFromPromise(p ir.Promise, to *ir.Action) {
	g.link(g.promiseNode(p), g.node(to))
}

// AddRMWEdge records that rmw reads from from.
//
// Two read-modify-writes may not read from the same write: a second
// reader sets the cycle flag. Either way the link is (re)set and logged
// with its prior holder so rollback restores it exactly.
//
// The edge-transfer step assumes the usual precondition - rmw has no
// outgoing edges of its own yet, or from has no incoming edges - and
// does not re-verify it; under that precondition the transfer cannot
// itself close a cycle, so it skips the reachability pre-check.
func (g *Graph) AddRMWEdge(from, rmw *ir.Action) {
	fromNode := g.node(from)
	rmwNode := g.node(rmw)

	prev := fromNode.getRMW()
	if fromNode.setRMW(rmwNode) {
		g.hasCycles = true
	}
	g.rmwLog = append(g.rmwLog, rmwUndo{node: fromNode, prev: prev})

	// Transfer every existing outgoing constraint of from onto the
	// reader, skipping the reader itself to avoid a trivial self-loop.
	for _, to := range fromNode.edges {
		if to == rmwNode {
			continue
		}
		if rmwNode.addEdge(to) {
			g.edgeLog = append(g.edgeLog, rmwNode)
		}
	}

	g.link(fromNode, rmwNode)
}

// ReachableFromAction reports whether b is ordered after a. Actions the
// graph has never seen cannot be related; they resolve to false, never
// an error.
func (g *Graph) ReachableFromAction(a, b *ir.Action) bool {
	na := g.actions[a]
	nb := g.actions[b]
	if na == nil || nb == nil {
		return false
	}
	return g.scratch.reachable(na, nb)
}

// CanEliminate reports whether the promise p is infeasible along the
// ordering rooted at from: true iff some action reachable from from
// (including from itself) belongs to a thread the promise excludes.
// Promise nodes encountered on the walk are traversed but not tested;
// they carry no thread.
func (g *Graph) CanEliminate(from *ir.Action, p ir.Promise) bool {
	n := g.actions[from]
	if n == nil {
		return false
	}
	return g.scratch.find(n, func(nd *Node) bool {
		return nd.action != nil && p.ExcludesThread(nd.action.Thread)
	})
}

// HasCycles reports whether any mutation since the last rollback-target
// commit introduced an inconsistency.
func (g *Graph) HasCycles() bool {
	return g.hasCycles
}
