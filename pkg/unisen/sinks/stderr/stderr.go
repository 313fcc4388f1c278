// Package stderr provides a sink that logs crash reports to stderr in human-readable format.
// Useful for development and debugging.
package stderr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/playvane/unity-crash-observe/pkg/unisen"
)

// StderrSinkOption configures the stderr sink.
type StderrSinkOption func(*stderrSinkConfig)

type stderrSinkConfig struct {
	verbose bool
}

// WithVerbose enables full report details including stack traces.
func WithVerbose() StderrSinkOption {
	return func(c *stderrSinkConfig) {
		c.verbose = true
	}
}

// stderrSink writes crash reports to stderr in human-readable format.
type stderrSink struct {
	verbose bool
}

// NewStderrSink creates a sink that writes to stderr.
func NewStderrSink(opts ...StderrSinkOption) unisen.Sink {
	cfg := &stderrSinkConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &stderrSink{
		verbose: cfg.verbose,
	}
}

// Write formats and outputs the crash report to stderr.
func (s *stderrSink) Write(ctx context.Context, event unisen.Event) error {
	top := event.TopException()

	// Format severity as uppercase
	severity := strings.ToUpper(string(event.Handling.Severity))

	// Build the main line
	// Format: [UNISEN] <timestamp> <SEVERITY> <error_class> in <context> (release: <stage>)
	timestamp := event.Timestamp.Format("2006-01-02T15:04:05Z07:00")

	var parts []string
	parts = append(parts, fmt.Sprintf("[UNISEN] %s %s %s", timestamp, severity, top.ErrorClass))

	if event.Handling.Unhandled {
		parts = append(parts, "unhandled")
	}
	if event.Context != "" {
		parts = append(parts, fmt.Sprintf("in %s", event.Context))
	}
	if event.ReleaseStage != "" {
		parts = append(parts, fmt.Sprintf("(release: %s)", event.ReleaseStage))
	}

	fmt.Fprintln(os.Stderr, strings.Join(parts, " "))

	// Message line
	if top.Message != "" {
		fmt.Fprintf(os.Stderr, "        Message: %s\n", top.Message)
	}

	// Grouping line
	if event.GroupingHash != "" {
		fmt.Fprintf(os.Stderr, "        Grouping: %s\n", event.GroupingHash)
	}

	// Session line (if available)
	if event.Session != nil {
		fmt.Fprintf(os.Stderr, "        Session: %s (%d handled / %d unhandled)\n",
			event.Session.ID, event.Session.Handled, event.Session.Unhandled)
	}

	// Cause chain and stack traces (only in verbose mode)
	if s.verbose {
		for i, record := range event.Exceptions {
			if i > 0 {
				fmt.Fprintf(os.Stderr, "        Caused by: %s: %s\n", record.ErrorClass, record.Message)
			}
			for _, frame := range record.StackTrace {
				if frame.File != "" {
					fmt.Fprintf(os.Stderr, "          at %s (%s:%d)\n", frame.Method, frame.File, frame.LineNumber)
				} else {
					fmt.Fprintf(os.Stderr, "          at %s\n", frame.Method)
				}
			}
		}
	}

	return nil
}

// Flush is a no-op for stderr sink.
func (s *stderrSink) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op for stderr sink.
func (s *stderrSink) Close() error {
	return nil
}
