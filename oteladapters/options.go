package oteladapters

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/sqldialect-go/dialect/sqlengine"
)

// AdapterOptions wires logging, tracing and metrics for sqlengine adapters in one go.
// The logger uses the global LoggerProvider under name. A nil tracer or meter skips that signal.
func AdapterOptions(name string, tracer trace.Tracer, meter metric.Meter) []sqlengine.Option {
	options := []sqlengine.Option{
		sqlengine.WithContextualLogger(NewSlogBridgeLogger(name)),
	}

	if tracer != nil {
		options = append(options, sqlengine.WithTracing(NewTracingCollector(tracer)))
	}
	if meter != nil {
		options = append(options, sqlengine.WithMetrics(NewMetricsCollector(meter)))
	}

	return options
}
