package sqlengine

import "github.com/AntonStoeckl/sqldialect-go/dialect"

// Option defines a functional option for configuring an Adapter.
type Option func(*Adapter) error

// WithLogger sets the logger for the Adapter.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: probe SQL with execution timing (development use)
// Info level: bind results and schema switches (production-safe)
// Warn level: non-critical issues like cleanup failures
// Error level: failures that are returned to the caller.
func WithLogger(logger dialect.Logger) Option {
	return func(a *Adapter) error {
		a.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Adapter.
// It receives the same messages with the operation's context, enabling trace correlation.
func WithContextualLogger(logger dialect.ContextualLogger) Option {
	return func(a *Adapter) error {
		a.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Adapter.
// It receives bind, probe and schema-change durations plus operation and error counters.
func WithMetrics(collector dialect.MetricsCollector) Option {
	return func(a *Adapter) error {
		a.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Adapter.
// Spans are created for bind, probes, schema changes and the queries of Schema handles.
func WithTracing(collector dialect.TracingCollector) Option {
	return func(a *Adapter) error {
		a.tracingCollector = collector
		return nil
	}
}
