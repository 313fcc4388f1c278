// builders.go provides helpers to assemble crash reports from classified
// records and plain Go errors.

package unitylog

import (
	"github.com/playvane/unity-crash-observe/pkg/unisen"
)

// buildLogReport creates a report event from one classified log record.
func buildLogReport(record unisen.ExceptionRecord, state unisen.HandledState, metadata map[string]any) unisen.Event {
	return unisen.Event{
		Exceptions: []unisen.ExceptionRecord{record},
		Handling:   state,
		Metadata:   metadata,
	}
}

// buildErrorReport creates a report event from a Go error, flattening its
// cause chain. Records without their own frames inherit the fallback.
func buildErrorReport(err error, fallback []unisen.StackFrame, state unisen.HandledState, metadata map[string]any) unisen.Event {
	return unisen.Event{
		Exceptions: unisen.Flatten(unisen.FromError(err), fallback),
		Handling:   state,
		Metadata:   metadata,
	}
}
