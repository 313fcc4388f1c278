// handled.go classifies how an event was handled and how severe it is.

package unisen

// Severity indicates the severity level of a report event.
type Severity string

const (
	// SeverityInfo marks informational log reports.
	SeverityInfo Severity = "info"

	// SeverityWarning marks non-fatal issues, the default for handled reports.
	SeverityWarning Severity = "warning"

	// SeverityError marks failures and crashes.
	SeverityError Severity = "error"
)

// SeverityReason is the justification code for a severity/handled
// classification.
type SeverityReason string

const (
	// ReasonHandledException marks an error the caller caught and reported.
	ReasonHandledException SeverityReason = "handledException"

	// ReasonUnhandledException marks a crash nothing caught.
	ReasonUnhandledException SeverityReason = "unhandledException"

	// ReasonLogMessage marks a report derived from a platform log message.
	ReasonLogMessage SeverityReason = "unityLogWithSeverity"
)

// LogType is the platform log channel a message arrived on.
type LogType string

const (
	LogTypeError     LogType = "Error"
	LogTypeAssert    LogType = "Assert"
	LogTypeWarning   LogType = "Warning"
	LogTypeLog       LogType = "Log"
	LogTypeException LogType = "Exception"
)

// Severity maps a log channel to the severity it reports at.
func (t LogType) Severity() Severity {
	switch t {
	case LogTypeError, LogTypeAssert, LogTypeException:
		return SeverityError
	case LogTypeWarning:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// HandledState describes whether an event was handled, how severe it is, and
// why. It applies to a report's whole record sequence, not to individual
// records, and is never mutated once built.
type HandledState struct {
	Unhandled bool
	Severity  Severity
	Reason    SeverityReason
}

// HandledReport classifies an error the caller caught and chose to report.
// An empty severity selects the warning default.
func HandledReport(severity Severity) HandledState {
	if severity == "" {
		severity = SeverityWarning
	}
	return HandledState{
		Unhandled: false,
		Severity:  severity,
		Reason:    ReasonHandledException,
	}
}

// LogEventState classifies a report derived from a platform log message.
// Error-level messages count as unhandled, everything else as handled.
func LogEventState(severity Severity) HandledState {
	return HandledState{
		Unhandled: severity == SeverityError,
		Severity:  severity,
		Reason:    ReasonLogMessage,
	}
}

// UnhandledCrash classifies an event nothing caught. Always error severity.
func UnhandledCrash() HandledState {
	return HandledState{
		Unhandled: true,
		Severity:  SeverityError,
		Reason:    ReasonUnhandledException,
	}
}
