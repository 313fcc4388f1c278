// context.go provides utilities for propagating session and report context
// through Go context.Context.

package unisen

import "context"

// Context key types (unexported to avoid collisions)
type sessionKey struct{}
type reportContextKey struct{}

// WithSession returns a context with a session snapshot attached.
// Reports recorded with that context are stamped with the snapshot when the
// collector has no tracker of its own.
func WithSession(ctx context.Context, snapshot SessionSnapshot) context.Context {
	return context.WithValue(ctx, sessionKey{}, snapshot)
}

// SessionFromContext extracts the session snapshot from context.
// Returns a zero snapshot and false if not set.
func SessionFromContext(ctx context.Context) (SessionSnapshot, bool) {
	v := ctx.Value(sessionKey{})
	snapshot, ok := v.(SessionSnapshot)
	return snapshot, ok
}

// WithReportContext returns a context with the report context string
// attached, e.g. the name of the active scene or the operation in progress.
func WithReportContext(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, reportContextKey{}, name)
}

// ReportContextFromContext extracts the report context string from context.
// Returns empty string and false if not set or if the name is empty.
func ReportContextFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(reportContextKey{})
	name, ok := v.(string)
	return name, ok && name != ""
}
