// processor.go implements LogProcessor for turning engine log events into
// crash reports. This is the PRIMARY capture mechanism for engine-side
// errors; the Notifier covers handled errors in host code.

package unitylog

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/playvane/unity-crash-observe/pkg/unisen"
	"github.com/playvane/unity-crash-observe/pkg/unisen/sessions"
)

// LogProcessor consumes engine log events. Lines below the notify threshold
// become breadcrumbs; lines at or above it become crash reports.
type LogProcessor struct {
	collector  unisen.Collector
	classifier *unisen.LogClassifier
	trail      *unisen.BreadcrumbTrail
	devices    DeviceStore
	tracker    *unisen.SessionTracker
	store      *sessions.Store
	threshold  unisen.Severity
	logger     *logrus.Logger
}

// ProcessorOption configures a LogProcessor.
type ProcessorOption func(*LogProcessor)

// WithNotifyLevel sets the minimum log severity forwarded as a report
// (default: error).
func WithNotifyLevel(severity unisen.Severity) ProcessorOption {
	return func(p *LogProcessor) {
		p.threshold = severity
	}
}

// WithClassifier overrides the log classifier.
func WithClassifier(classifier *unisen.LogClassifier) ProcessorOption {
	return func(p *LogProcessor) {
		if classifier != nil {
			p.classifier = classifier
		}
	}
}

// WithBreadcrumbTrail sets the trail that log lines are recorded on.
// Share the same trail with the collector so reports carry recent log lines.
func WithBreadcrumbTrail(trail *unisen.BreadcrumbTrail) ProcessorOption {
	return func(p *LogProcessor) {
		p.trail = trail
	}
}

// WithDeviceStore sets the metadata store stamped onto reports.
func WithDeviceStore(store DeviceStore) ProcessorOption {
	return func(p *LogProcessor) {
		if store != nil {
			p.devices = store
		}
	}
}

// WithSessionTracker sets the tracker whose session reports count against.
// Share the same tracker with the collector.
func WithSessionTracker(tracker *unisen.SessionTracker) ProcessorOption {
	return func(p *LogProcessor) {
		p.tracker = tracker
	}
}

// WithSessionStore sets the store session state is persisted to.
func WithSessionStore(store *sessions.Store) ProcessorOption {
	return func(p *LogProcessor) {
		p.store = store
	}
}

// WithLogger sets the logger used when recording fails.
// The processor never propagates record errors to the engine loop.
func WithLogger(logger *logrus.Logger) ProcessorOption {
	return func(p *LogProcessor) {
		p.logger = logger
	}
}

// NewLogProcessor creates a processor that records reports through the
// given collector.
func NewLogProcessor(collector unisen.Collector, opts ...ProcessorOption) *LogProcessor {
	p := &LogProcessor{
		collector:  collector,
		classifier: unisen.NewLogClassifier(),
		devices:    NewDeviceStore(),
		threshold:  unisen.SeverityError,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Devices returns the metadata store stamped onto reports.
func (p *LogProcessor) Devices() DeviceStore {
	return p.devices
}

// HandleLog processes one engine log event. It never returns an error and
// never panics into the engine loop.
func (p *LogProcessor) HandleLog(ctx context.Context, event unisen.LogEvent) {
	if !p.atOrAboveThreshold(event.Type) {
		p.leaveLogBreadcrumb(event)
		return
	}

	// Wrapped native exceptions already reported by the Android agent
	// would be duplicates.
	if !p.classifier.ShouldSend(event) {
		p.leaveLogBreadcrumb(event)
		return
	}

	record, state := p.classifier.Classify(event, nil, false)
	report := buildLogReport(record, state, p.metadata())

	p.safeRecord(ctx, report)
	p.leaveErrorBreadcrumb(record)
}

// StartSession begins a fresh session and persists it when a store is
// configured.
func (p *LogProcessor) StartSession(ctx context.Context) {
	if p.tracker == nil {
		return
	}
	p.persistSession(ctx, p.tracker.StartSession())
}

// ResumeLastSession reinstates the most recently stored session, falling
// back to a fresh one when nothing is stored.
func (p *LogProcessor) ResumeLastSession(ctx context.Context) {
	if p.tracker == nil {
		return
	}
	if p.store != nil {
		if snapshot, err := p.store.Latest(ctx); err == nil {
			p.persistSession(ctx, p.tracker.ResumeSession(snapshot))
			return
		}
	}
	p.persistSession(ctx, p.tracker.StartSession())
}

func (p *LogProcessor) atOrAboveThreshold(logType unisen.LogType) bool {
	return severityRank(logType.Severity()) >= severityRank(p.threshold)
}

func (p *LogProcessor) metadata() map[string]any {
	if p.devices == nil {
		return nil
	}
	return p.devices.Snapshot()
}

// safeRecord records an event, logging failures rather than propagating them.
func (p *LogProcessor) safeRecord(ctx context.Context, event unisen.Event) {
	if err := p.collector.Record(ctx, event); err != nil {
		if p.logger != nil {
			p.logger.WithError(err).Warn("unisen: failed to record crash report")
		}
		return
	}

	if p.tracker != nil {
		p.persistSession(ctx, p.tracker.Current())
	}
}

func (p *LogProcessor) persistSession(ctx context.Context, sess *unisen.Session) {
	if p.store == nil || sess == nil {
		return
	}
	if err := p.store.Save(ctx, sess.Snapshot()); err != nil && p.logger != nil {
		p.logger.WithError(err).Warn("unisen: failed to persist session")
	}
}

func (p *LogProcessor) leaveLogBreadcrumb(event unisen.LogEvent) {
	if p.trail == nil {
		return
	}
	p.trail.Leave(unisen.Breadcrumb{
		Name: firstLine(event.Condition),
		Type: unisen.BreadcrumbLog,
		Metadata: map[string]string{
			"logType": string(event.Type),
		},
	})
}

func (p *LogProcessor) leaveErrorBreadcrumb(record unisen.ExceptionRecord) {
	if p.trail == nil {
		return
	}
	p.trail.Leave(unisen.Breadcrumb{
		Name: record.ErrorClass,
		Type: unisen.BreadcrumbError,
		Metadata: map[string]string{
			"message": firstLine(record.Message),
		},
	})
}

func severityRank(severity unisen.Severity) int {
	switch severity {
	case unisen.SeverityError:
		return 2
	case unisen.SeverityWarning:
		return 1
	default:
		return 0
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
