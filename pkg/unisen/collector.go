// collector.go provides the central Collector interface and default implementation.

package unisen

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Collector records crash reports to configured sinks.
type Collector interface {
	// Record captures a report. Blocks until persisted (synchronous).
	// Applies enrichment, scrubbing and grouping before delegating to sinks.
	Record(ctx context.Context, event Event) error

	// Flush ensures any buffered reports are persisted.
	// For synchronous collectors, this may be a no-op.
	Flush(ctx context.Context) error

	// Close releases resources held by the collector.
	Close() error
}

// CollectorOption configures a Collector.
type CollectorOption func(*collectorConfig)

type collectorConfig struct {
	sink         Sink
	scrubber     *Scrubber
	breadcrumbs  *BreadcrumbTrail
	tracker      *SessionTracker
	captureHost  bool
	startTime    time.Time
	releaseStage string
	appVersion   string
}

// WithSink sets the sink for the collector.
func WithSink(sink Sink) CollectorOption {
	return func(c *collectorConfig) {
		c.sink = sink
	}
}

// WithScrubber configures the collector with a custom scrubber configuration.
func WithScrubber(cfg ScrubberConfig) CollectorOption {
	return func(c *collectorConfig) {
		c.scrubber = NewScrubber(cfg)
	}
}

// WithDefaultScrubbing enables scrubbing with production-safe defaults.
func WithDefaultScrubbing() CollectorOption {
	return func(c *collectorConfig) {
		c.scrubber = NewScrubber(DefaultScrubberConfig())
	}
}

// WithBreadcrumbTrail attaches a trail whose contents are copied onto every
// report that does not carry its own breadcrumbs.
func WithBreadcrumbTrail(trail *BreadcrumbTrail) CollectorOption {
	return func(c *collectorConfig) {
		c.breadcrumbs = trail
	}
}

// WithSessionTracker attaches a tracker; each recorded report is counted
// against the current session and stamped with the resulting snapshot.
func WithSessionTracker(tracker *SessionTracker) CollectorOption {
	return func(c *collectorConfig) {
		c.tracker = tracker
	}
}

// WithHostState enables host state capture on every report. The startTime
// parameter is used to calculate process uptime.
func WithHostState(startTime time.Time) CollectorOption {
	return func(c *collectorConfig) {
		c.captureHost = true
		c.startTime = startTime
	}
}

// WithReleaseStage sets the default release stage stamped on reports.
func WithReleaseStage(stage string) CollectorOption {
	return func(c *collectorConfig) {
		c.releaseStage = stage
	}
}

// WithAppVersion sets the default application version stamped on reports.
func WithAppVersion(version string) CollectorOption {
	return func(c *collectorConfig) {
		c.appVersion = version
	}
}

// defaultCollector is the standard Collector implementation.
type defaultCollector struct {
	sink         Sink
	scrubber     *Scrubber
	breadcrumbs  *BreadcrumbTrail
	tracker      *SessionTracker
	captureHost  bool
	startTime    time.Time
	releaseStage string
	appVersion   string
}

// NewCollector creates a new Collector with the given options.
func NewCollector(opts ...CollectorOption) Collector {
	cfg := &collectorConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	// Default to a noop sink if none provided
	if cfg.sink == nil {
		cfg.sink = &noopSinkInternal{}
	}

	return &defaultCollector{
		sink:         cfg.sink,
		scrubber:     cfg.scrubber,
		breadcrumbs:  cfg.breadcrumbs,
		tracker:      cfg.tracker,
		captureHost:  cfg.captureHost,
		startTime:    cfg.startTime,
		releaseStage: cfg.releaseStage,
		appVersion:   cfg.appVersion,
	}
}

// Record captures a report with enrichment, scrubbing and grouping.
func (c *defaultCollector) Record(ctx context.Context, event Event) error {
	// Generate EventID if not set
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}

	// Set timestamp if not set
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Reject reports a sink could not represent
	if err := event.Validate(); err != nil {
		return err
	}

	// Fill report context from ctx when the caller left it empty
	if event.Context == "" {
		if name, ok := ReportContextFromContext(ctx); ok {
			event.Context = name
		}
	}

	if event.ReleaseStage == "" {
		event.ReleaseStage = c.releaseStage
	}
	if event.AppVersion == "" {
		event.AppVersion = c.appVersion
	}

	// Count this report against the current session and stamp the
	// resulting snapshot; a context-carried snapshot is the fallback.
	if event.Session == nil && c.tracker != nil {
		if snap, ok := c.tracker.RecordDelivery(event.Handling); ok {
			event.Session = &snap
		}
	}
	if event.Session == nil {
		if snap, ok := SessionFromContext(ctx); ok {
			event.Session = &snap
		}
	}

	// Attach the recent activity trail
	if event.Breadcrumbs == nil && c.breadcrumbs != nil {
		event.Breadcrumbs = c.breadcrumbs.List()
	}

	// Capture host state
	if event.Host == nil && c.captureHost {
		event.Host = CaptureHostState(c.startTime)
	}

	// Apply scrubbing if configured
	if c.scrubber != nil {
		event = c.scrubber.ScrubEvent(event)
	}

	// Generate grouping hash unless the caller pinned one
	if event.GroupingHash == "" {
		event.GroupingHash = GroupingHash(event)
	}

	// Write to sink
	return c.sink.Write(ctx, event)
}

// Flush delegates to the sink.
func (c *defaultCollector) Flush(ctx context.Context) error {
	return c.sink.Flush(ctx)
}

// Close delegates to the sink.
func (c *defaultCollector) Close() error {
	return c.sink.Close()
}

// noopSinkInternal is an internal noop sink to avoid import cycles.
type noopSinkInternal struct{}

func (s *noopSinkInternal) Write(ctx context.Context, event Event) error {
	return nil
}

func (s *noopSinkInternal) Flush(ctx context.Context) error {
	return nil
}

func (s *noopSinkInternal) Close() error {
	return nil
}
