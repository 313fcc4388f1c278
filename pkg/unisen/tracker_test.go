package unisen

import (
	"testing"
	"time"
)

func TestSessionTracker_StartSession(t *testing.T) {
	tracker := NewSessionTracker()

	if tracker.Current() != nil {
		t.Fatal("A fresh tracker should have no current session")
	}

	sess := tracker.StartSession()
	if sess.ID == "" {
		t.Error("StartSession should assign an ID")
	}
	if sess.StartedAt.IsZero() {
		t.Error("StartSession should stamp a start time")
	}
	if tracker.Current() != sess {
		t.Error("Current() should return the started session")
	}

	handled, unhandled := sess.Counters.Counts()
	if handled != 0 || unhandled != 0 {
		t.Errorf("Fresh session counts = (%d, %d), want (0, 0)", handled, unhandled)
	}
}

func TestSessionTracker_StartSessionReplacesCurrent(t *testing.T) {
	tracker := NewSessionTracker()

	first := tracker.StartSession()
	second := tracker.StartSession()

	if first.ID == second.ID {
		t.Error("Each session should have its own ID")
	}
	if tracker.Current() != second {
		t.Error("Current() should return the latest session")
	}
}

func TestSessionTracker_ResumeSession(t *testing.T) {
	tracker := NewSessionTracker()

	startedAt := time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC)
	sess := tracker.ResumeSession(SessionSnapshot{
		ID:        "persisted-1",
		StartedAt: startedAt,
		Handled:   4,
		Unhandled: 2,
	})

	if sess.ID != "persisted-1" {
		t.Errorf("ID = %q, want persisted-1", sess.ID)
	}
	if !sess.StartedAt.Equal(startedAt) {
		t.Errorf("StartedAt = %v, want %v", sess.StartedAt, startedAt)
	}

	handled, unhandled := sess.Counters.Counts()
	if handled != 4 || unhandled != 2 {
		t.Errorf("Resumed counts = (%d, %d), want (4, 2)", handled, unhandled)
	}
}

func TestSessionTracker_ResumeSessionFillsMissingIdentity(t *testing.T) {
	tracker := NewSessionTracker()

	sess := tracker.ResumeSession(SessionSnapshot{Handled: 1})
	if sess.ID == "" {
		t.Error("ResumeSession should assign an ID when the snapshot has none")
	}
	if sess.StartedAt.IsZero() {
		t.Error("ResumeSession should stamp a start time when the snapshot has none")
	}
}

func TestSessionTracker_RecordDelivery(t *testing.T) {
	tracker := NewSessionTracker()
	tracker.StartSession()

	snap, ok := tracker.RecordDelivery(UnhandledCrash())
	if !ok {
		t.Fatal("RecordDelivery should succeed with an active session")
	}
	if snap.Unhandled != 1 || snap.Handled != 0 {
		t.Errorf("snapshot counts = (%d, %d), want (0, 1)", snap.Handled, snap.Unhandled)
	}

	snap, _ = tracker.RecordDelivery(HandledReport(""))
	if snap.Handled != 1 || snap.Unhandled != 1 {
		t.Errorf("snapshot counts = (%d, %d), want (1, 1)", snap.Handled, snap.Unhandled)
	}
}

func TestSessionTracker_RecordDelivery_NoSession(t *testing.T) {
	tracker := NewSessionTracker()

	_, ok := tracker.RecordDelivery(UnhandledCrash())
	if ok {
		t.Error("RecordDelivery without a session should report false")
	}
}

func TestSession_Snapshot(t *testing.T) {
	sess := &Session{
		ID:        "snap-1",
		StartedAt: time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC),
		Counters:  NewSessionCounters(7, 3),
	}

	snap := sess.Snapshot()
	if snap.ID != "snap-1" || snap.Handled != 7 || snap.Unhandled != 3 {
		t.Errorf("Snapshot() = %+v", snap)
	}

	// Later increments must not retroactively change an issued snapshot.
	sess.Counters.IncrementHandled()
	if snap.Handled != 7 {
		t.Errorf("issued snapshot mutated: Handled = %d", snap.Handled)
	}
}
