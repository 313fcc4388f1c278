// sink.go defines the Sink interface for crash report destinations.

package unisen

import "context"

// Sink is the destination for crash reports.
// Implementations must be safe for concurrent use.
type Sink interface {
	// Write persists a report. Called after scrubbing/enrichment.
	// Implementations should be idempotent when possible.
	Write(ctx context.Context, event Event) error

	// Flush ensures any buffered reports are persisted.
	// For synchronous sinks, this may be a no-op.
	Flush(ctx context.Context) error

	// Close releases resources held by the sink.
	// After Close is called, Write and Flush should return errors.
	Close() error
}
