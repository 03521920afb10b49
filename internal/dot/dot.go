// Package dot renders a graph snapshot in Graphviz DOT form.
//
// This is a best-effort diagnostic surface: nothing in the checker
// depends on it. Output is byte-deterministic for a given snapshot -
// nodes in creation order, edges in insertion order - so it golden-tests
// cleanly.
package dot

import (
	"fmt"
	"strings"

	"github.com/kestrel-mc/kestrel/internal/graph"
)

// Render returns the DOT text for a snapshot.
//
// Action nodes are boxes labeled with ID, kind, and thread. Promise
// nodes are dashed. The unique RMW reader link is drawn dotted on top
// of whatever ordering edges exist.
func Render(snap graph.Snapshot) string {
	var b strings.Builder
	b.WriteString("digraph ordering {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")
	if snap.HasCycles {
		b.WriteString("  label=\"INCONSISTENT: cycle detected\";\n")
	}

	for _, n := range snap.Nodes {
		if n.Kind == "promise" {
			fmt.Fprintf(&b, "  %q [label=%q, style=dashed];\n", n.Label, n.Label)
			continue
		}
		fmt.Fprintf(&b, "  %q [label=%q];\n", n.Label,
			fmt.Sprintf("%s\n%s t%d", n.Label, n.Kind, n.Thread))
	}

	for _, n := range snap.Nodes {
		for _, to := range n.Out {
			fmt.Fprintf(&b, "  %q -> %q;\n", n.Label, to)
		}
	}

	for _, n := range snap.Nodes {
		if n.RMW != "" {
			fmt.Fprintf(&b, "  %q -> %q [style=dotted, label=\"rmw\"];\n", n.Label, n.RMW)
		}
	}

	b.WriteString("}\n")
	return b.String()
}
