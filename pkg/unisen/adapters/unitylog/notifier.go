// notifier.go provides the user-facing API for reporting handled errors
// from host code.

package unitylog

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/playvane/unity-crash-observe/pkg/unisen"
)

// Notifier reports handled errors. Reports never interrupt the caller:
// record failures are logged and swallowed.
type Notifier struct {
	collector unisen.Collector
	devices   DeviceStore
	logger    *logrus.Logger
}

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithNotifierDeviceStore sets the metadata store stamped onto reports.
// Share the same store with the log processor.
func WithNotifierDeviceStore(store DeviceStore) NotifierOption {
	return func(n *Notifier) {
		if store != nil {
			n.devices = store
		}
	}
}

// WithNotifierLogger sets the logger used when recording fails.
func WithNotifierLogger(logger *logrus.Logger) NotifierOption {
	return func(n *Notifier) {
		n.logger = logger
	}
}

// NewNotifier creates a notifier that records reports through the given
// collector.
func NewNotifier(collector unisen.Collector, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		collector: collector,
		devices:   NewDeviceStore(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Notify reports a handled error with the default warning severity.
// The error's cause chain is flattened into the report.
func (n *Notifier) Notify(ctx context.Context, err error) {
	if err == nil {
		return
	}
	n.report(ctx, err, unisen.HandledReport(""), unisen.CaptureCallSite(1))
}

// NotifyWithSeverity reports a handled error at the given severity.
func (n *Notifier) NotifyWithSeverity(ctx context.Context, err error, severity unisen.Severity) {
	if err == nil {
		return
	}
	n.report(ctx, err, unisen.HandledReport(severity), unisen.CaptureCallSite(1))
}

func (n *Notifier) report(ctx context.Context, err error, state unisen.HandledState, frames []unisen.StackFrame) {
	event := buildErrorReport(err, frames, state, n.metadata())
	if recordErr := n.collector.Record(ctx, event); recordErr != nil && n.logger != nil {
		n.logger.WithError(recordErr).Warn("unisen: failed to record handled error")
	}
}

func (n *Notifier) metadata() map[string]any {
	if n.devices == nil {
		return nil
	}
	return n.devices.Snapshot()
}
