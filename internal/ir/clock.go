package ir

import "sync/atomic"

// Clock is a monotonic logical clock for stamping recorded actions.
//
// Every action is stamped with a strictly increasing seq number from this
// clock, never a wall-clock timestamp. This keeps recorded orderings
// deterministic and makes replayed runs produce identical positions.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
// In practice the recorder is single-threaded, matching the graph's
// single-actor discipline.
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
// Each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
