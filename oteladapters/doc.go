// Package oteladapters provides OpenTelemetry implementations of the dialect observability
// interfaces, so adapters can report to an existing OpenTelemetry setup without glue code.
//
//	options := oteladapters.AdapterOptions("migrations",
//		otel.Tracer("migrations"),
//		otel.Meter("migrations"),
//	)
//	adapter, err := sqlengine.DefaultRegistry().Bind(ctx, session, options...)
package oteladapters
