// event.go defines the canonical crash report data structure for unisen.

package unisen

import (
	"errors"
	"time"
)

// Validation failures returned by Event.Validate.
var (
	// ErrNoRecords indicates an event carrying no exception records.
	ErrNoRecords = errors.New("unisen: event carries no exception records")

	// ErrEmptyErrorClass indicates an exception record without a class name.
	ErrEmptyErrorClass = errors.New("unisen: exception record has empty error class")
)

// HostState captures machine and process details at the time of a report.
type HostState struct {
	// HostName is the hostname of the machine where the report originated.
	HostName string

	// OSName is the operating system name (runtime.GOOS).
	OSName string

	// Architecture is the CPU architecture (runtime.GOARCH).
	Architecture string

	// MemoryBytes is the current memory allocation in bytes.
	MemoryBytes int64

	// GoroutineCount is the number of active goroutines.
	GoroutineCount int

	// UptimeMs is the process uptime in milliseconds.
	UptimeMs int64
}

// SessionSnapshot is a point-in-time view of the session a report belongs to.
type SessionSnapshot struct {
	// ID is the unique session identifier (UUID).
	ID string

	// StartedAt is when the session began.
	StartedAt time.Time

	// Handled is the number of handled reports delivered so far.
	Handled uint64

	// Unhandled is the number of unhandled reports delivered so far.
	Unhandled uint64
}

// Event is the canonical crash report representation.
// All fields are populated by the collector before passing to sinks.
type Event struct {
	// Identity fields

	// EventID is a unique identifier for this report (UUID).
	EventID string

	// Timestamp is when the report was captured.
	Timestamp time.Time

	// GroupingHash is a hash for grouping similar reports.
	GroupingHash string

	// Error details

	// Exceptions is the flattened exception chain, root first.
	Exceptions []ExceptionRecord

	// Handling records the severity and the handled/unhandled decision.
	Handling HandledState

	// Application context

	// Context names what was in progress when the report was captured
	// (e.g. the active scene).
	Context string

	// ReleaseStage is the deployment stage (development, production).
	ReleaseStage string

	// AppVersion is the reporting application's version string.
	AppVersion string

	// Session state

	// Session is a snapshot of the session this report belongs to.
	// Uses pointer to distinguish "no session" from "zero value".
	Session *SessionSnapshot

	// Host state

	// Host captures machine and process details at report time.
	Host *HostState

	// History

	// Breadcrumbs is the recent activity trail, oldest first.
	Breadcrumbs []Breadcrumb

	// Arbitrary metadata

	// Metadata contains scrubbed key-value sections for additional context.
	Metadata map[string]any
}

// TopException returns the root exception record, or a zero record when the
// event carries none.
func (e Event) TopException() ExceptionRecord {
	if len(e.Exceptions) == 0 {
		return ExceptionRecord{}
	}
	return e.Exceptions[0]
}

// Validate reports whether the event is complete enough to hand to sinks.
func (e Event) Validate() error {
	if len(e.Exceptions) == 0 {
		return ErrNoRecords
	}
	for _, ex := range e.Exceptions {
		if ex.ErrorClass == "" {
			return ErrEmptyErrorClass
		}
	}
	return nil
}
