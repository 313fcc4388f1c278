// Package multi provides a sink that fans out to multiple sinks.
// All sinks receive all events; errors are aggregated.
package multi

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/playvane/unity-crash-observe/pkg/unisen"
)

// multiSink fans out to multiple sinks.
type multiSink struct {
	sinks []unisen.Sink
}

// NewMultiSink creates a sink that writes to multiple sinks.
// All sinks receive all events. Errors are aggregated via errors.Join.
func NewMultiSink(sinks ...unisen.Sink) unisen.Sink {
	return &multiSink{
		sinks: sinks,
	}
}

// Write sends the event to all sinks, collecting any errors.
// All sinks are called even if some return errors.
func (s *multiSink) Write(ctx context.Context, event unisen.Event) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Write(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Flush flushes all sinks in parallel and returns the first error.
// Flushes can block on network delivery, so they run concurrently.
func (s *multiSink) Flush(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, sink := range s.sinks {
		g.Go(func() error {
			return sink.Flush(gctx)
		})
	}
	return g.Wait()
}

// Close calls Close on all sinks, collecting any errors.
func (s *multiSink) Close() error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
