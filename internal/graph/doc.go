// Package graph implements the kestrel ordering-constraint graph.
//
// The graph records happens-before / reads-from constraints between
// recorded memory actions and incrementally detects whether the
// constraint set is still acyclic, i.e. whether the candidate execution
// order under exploration is consistent.
//
// ARCHITECTURE:
//
// Single-Actor Mutation:
// The graph is mutated by exactly one logical actor - the search driver.
// No operation blocks, suspends, or is re-entrant, and the breadth-first
// scratch buffers are reused across queries. None of this is safe for
// concurrent callers; the determinism of the surrounding search depends
// on strictly sequential use.
//
// Mutation Flow:
//  1. Driver calls StartTransaction (precondition: graph is clean)
//  2. Driver proposes edges via AddEdge / AddRMWEdge
//  3. Each insertion is classified cycle-introducing or not BEFORE the
//     mutation, against the pre-insertion graph
//  4. Every mutation is appended to the transaction logs
//  5. Driver inspects HasCycles and either Commit()s or Rollback()s
//
// Structural violations (an edge that closes a cycle, a second RMW
// reading from the same write) are not errors. They are the signal this
// component exists to produce, reported only through the sticky cycle
// flag. Precondition violations by the single trusted caller panic.
//
// CRITICAL PATTERNS:
//
// Sticky Cycle Flag:
// HasCycles only goes false->true during mutation. Only Rollback may
// reset it, and only to its value at the last Commit.
//
// Exact Rollback:
// Rollback undoes the discarded transaction's mutations in reverse
// insertion order. Cost is proportional to the mutations being
// discarded, never to the size of the whole graph.
package graph
