package ir

// TID identifies the thread that performed an action.
type TID int

// ActionID is the stable identity of a recorded action.
//
// IDs are assigned by the recorder (typically via trace declarations) and
// are unique within a run. The graph relies on pointer identity for node
// deduplication; ActionID exists so traces, run logs, and diagnostics can
// name actions in serialized form.
type ActionID string

// ActionKind categorizes a recorded memory operation.
type ActionKind string

const (
	// KindRead is a plain atomic read.
	KindRead ActionKind = "read"

	// KindWrite is a plain atomic write.
	KindWrite ActionKind = "write"

	// KindRMW is a read-modify-write: it atomically reads a prior value
	// and writes a new one. At most one RMW may read from a given write.
	KindRMW ActionKind = "rmw"

	// KindFence is a memory fence; it orders but neither reads nor writes.
	KindFence ActionKind = "fence"
)

// ValidKinds defines the allowed action kinds.
var ValidKinds = map[ActionKind]bool{
	KindRead:  true,
	KindWrite: true,
	KindRMW:   true,
	KindFence: true,
}

// Action is a recorded memory operation.
//
// Actions are immutable once created. The graph never copies them; it
// holds pointers and treats pointer identity as action identity.
type Action struct {
	ID     ActionID   `json:"id"`
	Thread TID        `json:"thread"`
	Seq    int64      `json:"seq"`  // Logical position from Clock (never wall-clock)
	Kind   ActionKind `json:"kind"`
	Loc    string     `json:"loc"` // Memory location name
}

// Promise is a deferred value commitment owned by the checker.
//
// ExcludesThread reports whether the given thread cannot satisfy the
// promise. It must be a pure predicate: no side effects visible to the
// graph, and a stable answer for the duration of a query.
type Promise interface {
	ExcludesThread(t TID) bool
}
