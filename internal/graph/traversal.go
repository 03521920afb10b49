package graph

// traversal is the reusable reachability engine over Node edges.
// Discovery order is unspecified (only membership matters); the walk is
// a worklist sweep with a visited set.
//
// The queue and visited set are scratch buffers reset (cleared, not
// reallocated) at the start of every call, which keeps repeated queries
// allocation-free once the buffers have grown to working size. The
// visited-set dedup is load-bearing: without it dense graphs would
// revisit nodes and cyclic graphs would never terminate.
//
// Not safe for concurrent callers. The graph's single-actor discipline
// covers this; a traversal in progress owns both buffers.
type traversal struct {
	queue []*Node
	seen  map[*Node]struct{}
}

func newTraversal() *traversal {
	return &traversal{
		seen: make(map[*Node]struct{}),
	}
}

func (t *traversal) reset(start *Node) {
	t.queue = t.queue[:0]
	clear(t.seen)
	t.queue = append(t.queue, start)
	t.seen[start] = struct{}{}
}

// reachable reports whether to is discoverable from from over outgoing
// edges. from == to is trivially true.
func (t *traversal) reachable(from, to *Node) bool {
	return t.find(from, func(n *Node) bool { return n == to })
}

// find walks the graph from start, evaluating pred at every
// discovered node including start itself, and returns true on the first
// node for which pred holds, short-circuiting the walk.
func (t *traversal) find(start *Node, pred func(*Node) bool) bool {
	t.reset(start)
	for len(t.queue) > 0 {
		n := t.queue[len(t.queue)-1]
		t.queue = t.queue[:len(t.queue)-1]
		if pred(n) {
			return true
		}
		for _, next := range n.edges {
			if _, ok := t.seen[next]; ok {
				continue
			}
			t.seen[next] = struct{}{}
			t.queue = append(t.queue, next)
		}
	}
	return false
}
