package graph

import (
	"fmt"

	"github.com/kestrel-mc/kestrel/internal/ir"
)

// SnapshotNode is the diagnostic view of one vertex.
type SnapshotNode struct {
	Label  string   `json:"label"`            // action ID (suffixed if shared), or promise#N
	Kind   string   `json:"kind"`             // action kind, or "promise"
	Thread ir.TID   `json:"thread,omitempty"` // zero for promise nodes
	Out    []string `json:"out,omitempty"`    // targets in insertion order
	RMW    string   `json:"rmw,omitempty"`    // unique reader, if any
}

// Snapshot is a read-only view of the graph for export and diagnostics.
// Node order is creation order, which is deterministic for a given
// operation sequence; edge order is insertion order.
type Snapshot struct {
	Nodes     []SnapshotNode `json:"nodes"`
	HasCycles bool           `json:"has_cycles"`
}

// Snapshot captures the current graph state. It performs no mutation
// and may be taken mid-transaction.
func (g *Graph) Snapshot() Snapshot {
	// The graph dedups nodes by pointer, not by ID, so two distinct
	// actions may share an ID. Labels must stay unique or the export
	// silently merges them; later holders of a taken label get a
	// numeric suffix.
	labels := make(map[*Node]string, len(g.order))
	used := make(map[string]int, len(g.order))
	npromises := 0
	for _, n := range g.order {
		var label string
		if n.action != nil {
			label = string(n.action.ID)
		} else {
			label = fmt.Sprintf("promise#%d", npromises)
			npromises++
		}
		if seen := used[label]; seen > 0 {
			used[label] = seen + 1
			label = fmt.Sprintf("%s#%d", label, seen+1)
		}
		used[label]++
		labels[n] = label
	}

	snap := Snapshot{
		Nodes:     make([]SnapshotNode, 0, len(g.order)),
		HasCycles: g.hasCycles,
	}
	for _, n := range g.order {
		sn := SnapshotNode{Label: labels[n]}
		if n.action != nil {
			sn.Kind = string(n.action.Kind)
			sn.Thread = n.action.Thread
		} else {
			sn.Kind = "promise"
		}
		for _, to := range n.edges {
			sn.Out = append(sn.Out, labels[to])
		}
		if n.rmw != nil {
			sn.RMW = labels[n.rmw]
		}
		snap.Nodes = append(snap.Nodes, sn)
	}
	return snap
}
