// logparse.go classifies free-text platform log messages into exception
// records.

package unisen

import (
	"regexp"
	"strings"
)

// AndroidJavaExceptionClass is the error class the platform gives Java
// throwables that surface through the log channel. Conditions carrying it
// smuggle the real "class: message" pair inside the outer message and are
// always crashes.
const AndroidJavaExceptionClass = "AndroidJavaException"

// DefaultAgentMarker is the substring identifying frames emitted by the
// SDK's own Android agent. A trace containing it was already reported
// natively.
const DefaultAgentMarker = "com.playvane.unisen"

// syntheticClassPrefix prefixes the log channel name when a condition has no
// "class: message" shape at all.
const syntheticClassPrefix = "UnityLog"

// conditionPattern splits "ErrorClass: message". Singleline so the message
// half can span lines.
var conditionPattern = regexp.MustCompile(`(?s)^(\S+):\s*(.*)$`)

// LogEvent is one platform log signal: the condition line, the raw trace
// text that accompanied it, and the channel it arrived on.
type LogEvent struct {
	Condition  string
	StackTrace string
	Type       LogType
}

// TraceParser turns raw trace text into resolved frames.
// Implementations return nil when nothing in the text parses.
type TraceParser func(raw string) []StackFrame

// LogClassifier turns log events into exception records. The zero value is
// not usable; construct with NewLogClassifier.
type LogClassifier struct {
	parser       TraceParser
	nativeParser TraceParser
	agentMarker  string
}

// LogClassifierOption configures a LogClassifier.
type LogClassifierOption func(*LogClassifier)

// WithTraceParser overrides the parser for ordinary condition traces.
func WithTraceParser(p TraceParser) LogClassifierOption {
	return func(c *LogClassifier) {
		c.parser = p
	}
}

// WithNativeTraceParser overrides the parser applied once a wrapped native
// exception is detected.
func WithNativeTraceParser(p TraceParser) LogClassifierOption {
	return func(c *LogClassifier) {
		c.nativeParser = p
	}
}

// WithAgentMarker overrides the native-agent marker substring ShouldSend
// looks for.
func WithAgentMarker(marker string) LogClassifierOption {
	return func(c *LogClassifier) {
		c.agentMarker = marker
	}
}

// NewLogClassifier builds a classifier with Unity and Android trace parsing
// and the default agent marker.
func NewLogClassifier(opts ...LogClassifierOption) *LogClassifier {
	c := &LogClassifier{
		parser:       ParseUnityTrace,
		nativeParser: ParseAndroidTrace,
		agentMarker:  DefaultAgentMarker,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify parses a log event into one record plus the handled state for the
// report that will carry it.
//
// Stage one splits the condition on the first "class: message" boundary. A
// condition with no such shape keeps its text verbatim under a synthetic
// "UnityLog<Type>" class. Stage two fires when stage one produced the
// wrapped-native class: the outer message is split again to recover the real
// Java class and message, the trace is re-read in native format, and the
// state is forced unhandled whatever the log severity said. A wrapped
// message with no second split is a bare class name, so it moves into the
// class and the message empties.
//
// Frames come from the event's own trace text; when that yields nothing the
// caller's fallback frames substitute. forceUnhandled overrides the computed
// state for callers that already know the event crashed.
func (c *LogClassifier) Classify(event LogEvent, fallback []StackFrame, forceUnhandled bool) (ExceptionRecord, HandledState) {
	state := LogEventState(event.Type.Severity())
	if forceUnhandled {
		state = UnhandledCrash()
	}

	match := conditionPattern.FindStringSubmatch(event.Condition)
	if match == nil {
		frames := c.resolveFrames(c.parser, event.StackTrace, fallback)
		return NewExceptionRecord(syntheticClassPrefix+string(event.Type), event.Condition, frames), state
	}

	errorClass, message := match[1], match[2]

	if errorClass == AndroidJavaExceptionClass {
		// The real throwable rides inside the message.
		if nested := conditionPattern.FindStringSubmatch(message); nested != nil {
			errorClass = strings.TrimSpace(nested[1])
			message = strings.TrimSpace(nested[2])
		} else {
			errorClass = message
			message = ""
		}
		frames := c.resolveFrames(c.nativeParser, event.StackTrace, fallback)
		return NewExceptionRecord(errorClass, message, frames), UnhandledCrash()
	}

	frames := c.resolveFrames(c.parser, event.StackTrace, fallback)
	return NewExceptionRecord(errorClass, message, frames), state
}

// ShouldSend reports whether a log event is worth forwarding. Callers
// evaluate it as a gate before Classify: a wrapped native exception whose
// trace already carries the agent marker was captured natively and would be
// a duplicate.
func (c *LogClassifier) ShouldSend(event LogEvent) bool {
	match := conditionPattern.FindStringSubmatch(event.Condition)
	if match == nil || match[1] != AndroidJavaExceptionClass {
		return true
	}
	if event.StackTrace == "" {
		return true
	}
	return !strings.Contains(event.StackTrace, c.agentMarker)
}

// resolveFrames parses the raw trace text, falling back to a copy of the
// caller's frames when nothing parses.
func (c *LogClassifier) resolveFrames(parse TraceParser, raw string, fallback []StackFrame) []StackFrame {
	if parse != nil {
		if frames := parse(raw); len(frames) > 0 {
			return frames
		}
	}
	return append([]StackFrame(nil), fallback...)
}
