// tracker.go manages the lifecycle of reporting sessions.

package unisen

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is one reporting session: a stable identity plus delivery counters.
type Session struct {
	// ID is the unique session identifier (UUID).
	ID string

	// StartedAt is when the session began.
	StartedAt time.Time

	// Counters accumulates handled and unhandled delivery counts.
	Counters *SessionCounters
}

// Snapshot returns a point-in-time view of the session.
func (s *Session) Snapshot() SessionSnapshot {
	handled, unhandled := s.Counters.Counts()
	return SessionSnapshot{
		ID:        s.ID,
		StartedAt: s.StartedAt,
		Handled:   handled,
		Unhandled: unhandled,
	}
}

// SessionTracker owns the current session. Safe for concurrent use.
type SessionTracker struct {
	mu      sync.RWMutex
	current *Session
	now     func() time.Time
}

// NewSessionTracker creates a tracker with no active session.
func NewSessionTracker() *SessionTracker {
	return &SessionTracker{now: time.Now}
}

// StartSession begins a fresh session with zeroed counters and makes it
// current. The previous session, if any, stops receiving counts.
func (t *SessionTracker) StartSession() *Session {
	return t.install(uuid.NewString(), t.now(), 0, 0)
}

// ResumeSession reinstates a previously persisted session, keeping its
// identity and delivery counts. Missing identity fields are filled in.
func (t *SessionTracker) ResumeSession(snapshot SessionSnapshot) *Session {
	id := snapshot.ID
	if id == "" {
		id = uuid.NewString()
	}
	startedAt := snapshot.StartedAt
	if startedAt.IsZero() {
		startedAt = t.now()
	}
	return t.install(id, startedAt, snapshot.Handled, snapshot.Unhandled)
}

func (t *SessionTracker) install(id string, startedAt time.Time, handled, unhandled uint64) *Session {
	sess := &Session{
		ID:        id,
		StartedAt: startedAt,
		Counters:  NewSessionCounters(handled, unhandled),
	}

	t.mu.Lock()
	t.current = sess
	t.mu.Unlock()
	return sess
}

// Current returns the active session, or nil when none has been started.
func (t *SessionTracker) Current() *Session {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// RecordDelivery counts one report against the current session and returns
// the updated snapshot. Returns false when no session is active.
func (t *SessionTracker) RecordDelivery(state HandledState) (SessionSnapshot, bool) {
	sess := t.Current()
	if sess == nil {
		return SessionSnapshot{}, false
	}

	if state.Unhandled {
		sess.Counters.IncrementUnhandled()
	} else {
		sess.Counters.IncrementHandled()
	}
	return sess.Snapshot(), true
}
