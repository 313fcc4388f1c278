// session.go tracks per-session delivery counts.

package unisen

import "sync/atomic"

// SessionCounters accumulates the number of handled and unhandled reports
// delivered during one session. The two counts are guarded independently so
// handled and unhandled increments never contend with each other; a snapshot
// of the pair is therefore not a single atomic observation, which is fine
// for reporting purposes.
type SessionCounters struct {
	handled   atomic.Uint64
	unhandled atomic.Uint64
}

// NewSessionCounters returns counters seeded with explicit starting values,
// typically zero for a fresh session or the persisted counts when resuming
// one.
func NewSessionCounters(handled, unhandled uint64) *SessionCounters {
	c := &SessionCounters{}
	c.handled.Store(handled)
	c.unhandled.Store(unhandled)
	return c
}

// IncrementHandled adds one to the handled count.
func (c *SessionCounters) IncrementHandled() {
	c.handled.Add(1)
}

// IncrementUnhandled adds one to the unhandled count.
func (c *SessionCounters) IncrementUnhandled() {
	c.unhandled.Add(1)
}

// Counts returns the current handled and unhandled totals.
func (c *SessionCounters) Counts() (handled, unhandled uint64) {
	return c.handled.Load(), c.unhandled.Load()
}
