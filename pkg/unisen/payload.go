// payload.go builds the JSON wire representation of crash reports.

package unisen

import "time"

// PayloadVersion is the wire format version stamped on every event.
const PayloadVersion = "4.0"

// NotifierInfo identifies the reporting library inside a payload.
type NotifierInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	URL     string `json:"url"`
}

// DefaultNotifier describes this library.
func DefaultNotifier() NotifierInfo {
	return NotifierInfo{
		Name:    "Unity Crash Observe",
		Version: "1.0.0",
		URL:     "https://github.com/playvane/unity-crash-observe",
	}
}

// ReportPayload is the top-level delivery envelope.
type ReportPayload struct {
	APIKey   string         `json:"apiKey"`
	Notifier NotifierInfo   `json:"notifier"`
	Events   []PayloadEvent `json:"events"`
}

// PayloadEvent is the wire form of a single Event.
type PayloadEvent struct {
	PayloadVersion string             `json:"payloadVersion"`
	Exceptions     []PayloadException `json:"exceptions"`
	Severity       string             `json:"severity"`
	Unhandled      bool               `json:"unhandled"`
	SeverityReason PayloadReason      `json:"severityReason"`
	Context        string             `json:"context,omitempty"`
	GroupingHash   string             `json:"groupingHash,omitempty"`
	Breadcrumbs    []Breadcrumb       `json:"breadcrumbs,omitempty"`
	Session        *PayloadSession    `json:"session,omitempty"`
	App            *PayloadApp        `json:"app,omitempty"`
	Device         *PayloadDevice     `json:"device,omitempty"`
	Metadata       map[string]any     `json:"metaData,omitempty"`
}

// PayloadReason carries the severity reason in wire form.
type PayloadReason struct {
	Type string `json:"type"`
}

// PayloadException is the wire form of one exception record.
type PayloadException struct {
	ErrorClass string         `json:"errorClass"`
	Message    string         `json:"message,omitempty"`
	StackTrace []PayloadFrame `json:"stacktrace"`
}

// PayloadFrame is the wire form of one stack frame.
type PayloadFrame struct {
	Method     string `json:"method"`
	File       string `json:"file,omitempty"`
	LineNumber int    `json:"lineNumber,omitempty"`
}

// PayloadSession is the wire form of a session snapshot.
type PayloadSession struct {
	ID        string               `json:"id"`
	StartedAt time.Time            `json:"startedAt"`
	Events    PayloadSessionEvents `json:"events"`
}

// PayloadSessionEvents carries the per-session delivery counts.
type PayloadSessionEvents struct {
	Handled   uint64 `json:"handled"`
	Unhandled uint64 `json:"unhandled"`
}

// PayloadApp describes the reporting application.
type PayloadApp struct {
	Version      string `json:"version,omitempty"`
	ReleaseStage string `json:"releaseStage,omitempty"`
	DurationMs   int64  `json:"duration,omitempty"`
}

// PayloadDevice describes the machine the report came from.
type PayloadDevice struct {
	Hostname       string    `json:"hostname,omitempty"`
	OSName         string    `json:"osName,omitempty"`
	Architecture   string    `json:"architecture,omitempty"`
	MemoryBytes    int64     `json:"memoryBytes,omitempty"`
	GoroutineCount int       `json:"goroutineCount,omitempty"`
	Time           time.Time `json:"time"`
}

// BuildPayload assembles the delivery envelope for one or more events.
func BuildPayload(apiKey string, notifier NotifierInfo, events ...Event) ReportPayload {
	payload := ReportPayload{
		APIKey:   apiKey,
		Notifier: notifier,
		Events:   make([]PayloadEvent, 0, len(events)),
	}
	for _, event := range events {
		payload.Events = append(payload.Events, buildPayloadEvent(event))
	}
	return payload
}

func buildPayloadEvent(event Event) PayloadEvent {
	out := PayloadEvent{
		PayloadVersion: PayloadVersion,
		Exceptions:     make([]PayloadException, 0, len(event.Exceptions)),
		Severity:       string(event.Handling.Severity),
		Unhandled:      event.Handling.Unhandled,
		SeverityReason: PayloadReason{Type: string(event.Handling.Reason)},
		Context:        event.Context,
		GroupingHash:   event.GroupingHash,
		Breadcrumbs:    event.Breadcrumbs,
		Metadata:       event.Metadata,
	}

	for _, record := range event.Exceptions {
		out.Exceptions = append(out.Exceptions, buildPayloadException(record))
	}

	if event.Session != nil {
		out.Session = &PayloadSession{
			ID:        event.Session.ID,
			StartedAt: event.Session.StartedAt,
			Events: PayloadSessionEvents{
				Handled:   event.Session.Handled,
				Unhandled: event.Session.Unhandled,
			},
		}
	}

	if event.AppVersion != "" || event.ReleaseStage != "" || event.Host != nil {
		app := &PayloadApp{
			Version:      event.AppVersion,
			ReleaseStage: event.ReleaseStage,
		}
		if event.Host != nil {
			app.DurationMs = event.Host.UptimeMs
		}
		out.App = app
	}

	if event.Host != nil {
		out.Device = &PayloadDevice{
			Hostname:       event.Host.HostName,
			OSName:         event.Host.OSName,
			Architecture:   event.Host.Architecture,
			MemoryBytes:    event.Host.MemoryBytes,
			GoroutineCount: event.Host.GoroutineCount,
			Time:           event.Timestamp,
		}
	}

	return out
}

func buildPayloadException(record ExceptionRecord) PayloadException {
	frames := make([]PayloadFrame, 0, len(record.StackTrace))
	for _, frame := range record.StackTrace {
		frames = append(frames, PayloadFrame{
			Method:     frame.Method,
			File:       frame.File,
			LineNumber: frame.LineNumber,
		})
	}
	return PayloadException{
		ErrorClass: record.ErrorClass,
		Message:    record.Message,
		StackTrace: frames,
	}
}
