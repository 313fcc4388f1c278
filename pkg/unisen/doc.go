// Package unisen provides lightweight, pluggable crash and error collection
// for Unity game backends and log pipelines.
//
// unisen normalizes Unity console output and caught Go errors into flat
// exception records, classifies how each report was handled, and delivers the
// result through configurable sinks. Session counters travel with every
// report so the backend can compute stability rates per release.
//
// # Core Components
//
// The library is organized around these concepts:
//
//   - Event: The canonical crash report with exceptions, handling and session state
//   - ExceptionSource / Flatten: Turns cause chains and bundles into root-first records
//   - LogClassifier: Splits raw console lines into error class, message and trace
//   - Collector: Central abstraction that applies scrubbing and grouping before persistence
//   - Sink: Destination for reports (delivery, stderr, async, multi, noop)
//   - SessionTracker: Owns the current session and its handled/unhandled counters
//
// # Quick Start
//
// For Unity log feed integration:
//
//	collector := unisen.NewCollector(
//	    unisen.WithSink(delivery.NewDeliverySink(cfg.APIKey, delivery.WithEndpoint(cfg.Endpoint))),
//	    unisen.WithDefaultScrubbing(),
//	)
//	processor := unitylog.NewLogProcessor(collector)
//	processor.HandleLog(ctx, unisen.LogEvent{Condition: line, Type: unisen.LogTypeException})
//
// For standalone usage:
//
//	collector := unisen.NewCollector(unisen.WithSink(stderr.NewStderrSink()))
//	defer unisen.Recover(ctx, collector)
//
// # Design Principles
//
//   - Adapters never abort the host application: all collector errors are swallowed and logged
//   - Fail-closed scrubbing: on any error, fields are fully redacted (never persist raw data)
//   - Zero-dependency core pipeline: network, storage and metrics live in sink/adapter packages
package unisen
