// Package oteladapters provides OpenTelemetry implementations of the librarytx observability interfaces.
//
// Plug them into the engine with the postgresengine.WithMetrics, postgresengine.WithTracing and
// postgresengine.WithContextualLogger options:
//
//	meter := otel.Meter("library")
//	tracer := otel.Tracer("library")
//
//	engine, err := postgresengine.NewEngineFromPGXPool(pool,
//		postgresengine.WithMetrics(oteladapters.NewMetricsCollector(meter)),
//		postgresengine.WithTracing(oteladapters.NewTracingCollector(tracer)),
//		postgresengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("library", nil)),
//	)
//
// Durations become histograms in seconds, counters become Int64 counters, and values become gauges.
package oteladapters
