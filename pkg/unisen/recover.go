// recover.go provides the Recover helper for standalone panic recovery.
// Use this in goroutines, handlers, or other code that must not crash.

package unisen

import (
	"context"
	"fmt"
)

// Recover captures a panic, records it to the collector, and returns the
// recovered value. Recover does NOT re-panic after recording. It must be
// deferred directly, or the runtime will not hand it the panic.
//
// Use in defer:
//
//	func handler(ctx context.Context) {
//	    defer unisen.Recover(ctx, collector)
//	    // code that might panic
//	}
func Recover(ctx context.Context, collector Collector) any {
	r := recover()
	if r == nil {
		return nil
	}

	recordPanic(ctx, collector, r, CaptureCallSite(1))
	return r
}

// RecordPanic records an already-recovered panic value. Use it when the
// recover call has to live in your own deferred function, e.g. to convert
// the panic into an error return:
//
//	func handler(ctx context.Context) (err error) {
//	    defer func() {
//	        if r := recover(); r != nil {
//	            unisen.RecordPanic(ctx, collector, r)
//	            err = fmt.Errorf("panic: %v", r)
//	        }
//	    }()
//	    // code that might panic
//	}
func RecordPanic(ctx context.Context, collector Collector, recovered any) {
	if recovered == nil {
		return
	}
	recordPanic(ctx, collector, recovered, CaptureCallSite(1))
}

func recordPanic(ctx context.Context, collector Collector, recovered any, frames []StackFrame) {
	var source ExceptionSource
	if err, ok := recovered.(error); ok {
		source = FromError(err)
	} else {
		source = &Exception{Class: "panic", Msg: formatRecovered(recovered)}
	}

	event := Event{
		Exceptions: Flatten(source, frames),
		Handling:   UnhandledCrash(),
	}

	// Record the event (ignore errors - we don't want to affect caller)
	_ = collector.Record(ctx, event)
}

// formatRecovered formats a recovered panic value as a string.
func formatRecovered(recovered any) string {
	if recovered == nil {
		return "<nil>"
	}
	if err, ok := recovered.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", recovered)
}
