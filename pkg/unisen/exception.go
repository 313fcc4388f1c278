// exception.go defines the normalized exception records and the sources they
// are built from.

package unisen

import (
	"errors"
	"reflect"
)

// StackFrame is one resolved stack trace entry.
type StackFrame struct {
	// Method is the fully qualified method or function name.
	Method string

	// File is the source file the frame points at. May be empty when the
	// frame resolved no further than the method name.
	File string

	// LineNumber is the 1-based line within File, 0 when unknown.
	LineNumber int
}

// ExceptionRecord is one normalized exception entry in a report.
// A report carries an ordered sequence of these, outermost first.
type ExceptionRecord struct {
	// ErrorClass is the short type or category name. Never empty.
	ErrorClass string

	// Message is the human-readable description. May be empty.
	Message string

	// StackTrace is the resolved frame sequence. Never nil, may be empty.
	StackTrace []StackFrame
}

// NewExceptionRecord builds a record, guaranteeing a non-nil StackTrace.
func NewExceptionRecord(errorClass, message string, frames []StackFrame) ExceptionRecord {
	if frames == nil {
		frames = []StackFrame{}
	}
	return ExceptionRecord{
		ErrorClass: errorClass,
		Message:    message,
		StackTrace: frames,
	}
}

// ExceptionSource is the capability the flattener consumes. Platform layers
// implement it for their native exception values and inject it; the core
// never inspects platform identity.
type ExceptionSource interface {
	// ErrorClass returns the short type name of the exception.
	ErrorClass() string

	// Message returns the human-readable description, possibly empty.
	Message() string

	// StackFrames returns the resolved frames, possibly empty.
	StackFrames() []StackFrame

	// Cause returns the single inner exception, or nil.
	Cause() ExceptionSource

	// Bundled returns the independent sub-exceptions carried by an
	// aggregate (loader-style) exception. A non-empty bundle takes
	// precedence over Cause during flattening.
	Bundled() []ExceptionSource
}

// Exception is a plain ExceptionSource for adapters and tests.
type Exception struct {
	Class  string
	Msg    string
	Frames []StackFrame
	Inner  ExceptionSource
	Bundle []ExceptionSource
}

func (e *Exception) ErrorClass() string       { return e.Class }
func (e *Exception) Message() string          { return e.Msg }
func (e *Exception) StackFrames() []StackFrame { return e.Frames }
func (e *Exception) Cause() ExceptionSource    { return e.Inner }
func (e *Exception) Bundled() []ExceptionSource { return e.Bundle }

// framer is implemented by error values that carry their own resolved frames.
type framer interface {
	StackFrames() []StackFrame
}

// FromError adapts a Go error value into an ExceptionSource. Wrapped errors
// become the cause chain and joined errors become a bundle, so Flatten sees
// the same shape a native exception tree has. Returns nil for a nil error.
func FromError(err error) ExceptionSource {
	if err == nil {
		return nil
	}
	return &goError{err: err}
}

// goError exposes a Go error through the ExceptionSource capability.
type goError struct {
	err error
}

func (g *goError) ErrorClass() string {
	t := reflect.TypeOf(g.err)
	if t == nil {
		return "error"
	}
	return t.String()
}

func (g *goError) Message() string {
	return g.err.Error()
}

func (g *goError) StackFrames() []StackFrame {
	if f, ok := g.err.(framer); ok {
		return f.StackFrames()
	}
	return nil
}

func (g *goError) Cause() ExceptionSource {
	return FromError(errors.Unwrap(g.err))
}

func (g *goError) Bundled() []ExceptionSource {
	joined, ok := g.err.(interface{ Unwrap() []error })
	if !ok {
		return nil
	}
	var sources []ExceptionSource
	for _, inner := range joined.Unwrap() {
		if inner != nil {
			sources = append(sources, FromError(inner))
		}
	}
	return sources
}
