package graph

import "github.com/kestrel-mc/kestrel/internal/ir"

// Node is a graph vertex wrapping either a recorded action or a promise.
//
// edges and backEdges are exact mutual inverses across the whole graph:
// t is in n.edges iff n is in t.backEdges. Both lists keep insertion
// order because rollback pops the most recently added entry first.
type Node struct {
	action  *ir.Action // exactly one of action / promise is set
	promise ir.Promise

	edges     []*Node
	backEdges []*Node

	// rmw is the unique read-modify-write that reads from this node,
	// or nil. A second reader is a consistency violation.
	rmw *Node
}

// Action returns the recorded action this node wraps, or nil for a
// promise node.
func (n *Node) Action() *ir.Action {
	return n.action
}

// Promise returns the promise this node wraps, or nil for an action node.
func (n *Node) Promise() ir.Promise {
	return n.promise
}

// addEdge appends an edge n -> to and the inverse back edge.
// Returns false without mutating anything if the edge already exists:
// insertion is idempotent and duplicates are never logged.
func (n *Node) addEdge(to *Node) bool {
	for _, e := range n.edges {
		if e == to {
			return false
		}
	}
	n.edges = append(n.edges, to)
	to.backEdges = append(to.backEdges, n)
	return true
}

// removeLastEdge pops the most recently added outgoing edge and repairs
// the inverse list on the other endpoint. Returns nil if there is none.
// Used only by rollback.
func (n *Node) removeLastEdge() *Node {
	if len(n.edges) == 0 {
		return nil
	}
	to := n.edges[len(n.edges)-1]
	n.edges = n.edges[:len(n.edges)-1]
	to.removeLastBackEdge()
	return to
}

// removeLastBackEdge pops the most recently added incoming edge.
// Returns nil if there is none. Used only by rollback, via
// removeLastEdge on the other endpoint.
func (n *Node) removeLastBackEdge() *Node {
	if len(n.backEdges) == 0 {
		return nil
	}
	from := n.backEdges[len(n.backEdges)-1]
	n.backEdges = n.backEdges[:len(n.backEdges)-1]
	return from
}

// getRMW returns the unique RMW reader of this node, or nil.
func (n *Node) getRMW() *Node {
	return n.rmw
}

// setRMW sets the RMW link unconditionally and reports whether a link
// already existed. The caller uses the report to detect the uniqueness
// violation; overwriting is deliberate.
func (n *Node) setRMW(r *Node) bool {
	had := n.rmw != nil
	n.rmw = r
	return had
}

// restoreRMW resets the link to a prior holder (possibly nil).
// Used only by rollback.
func (n *Node) restoreRMW(prev *Node) {
	n.rmw = prev
}
