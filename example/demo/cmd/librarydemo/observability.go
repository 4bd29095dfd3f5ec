package main

import (
	"context"
	"log/slog"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
	"github.com/AntonStoeckl/library-transactions-go/librarytx/oteladapters"
)

const instrumentationName = "github.com/AntonStoeckl/library-transactions-go/example/demo"

// observability keeps metrics and spans in memory and logs a summary of them on shutdown.
// All fields are nil when observability is disabled.
type observability struct {
	metricsCollector librarytx.MetricsCollector
	tracingCollector librarytx.TracingCollector
	contextualLogger librarytx.ContextualLogger

	metricReader   *sdkmetric.ManualReader
	meterProvider  *sdkmetric.MeterProvider
	spanExporter   *tracetest.InMemoryExporter
	tracerProvider *sdktrace.TracerProvider
}

func newObservability(enabled bool) *observability {
	if !enabled {
		return &observability{}
	}

	metricReader := sdkmetric.NewManualReader()
	meterProvider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(metricReader))

	spanExporter := tracetest.NewInMemoryExporter()
	tracerProvider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spanExporter))

	return &observability{
		metricsCollector: oteladapters.NewMetricsCollector(meterProvider.Meter(instrumentationName)),
		tracingCollector: oteladapters.NewTracingCollector(tracerProvider.Tracer(instrumentationName)),
		contextualLogger: oteladapters.NewSlogBridgeLogger(instrumentationName, nil),
		metricReader:     metricReader,
		meterProvider:    meterProvider,
		spanExporter:     spanExporter,
		tracerProvider:   tracerProvider,
	}
}

func (o *observability) shutdown(ctx context.Context, logger *slog.Logger) {
	if o.meterProvider == nil {
		return
	}

	var resourceMetrics metricdata.ResourceMetrics
	if err := o.metricReader.Collect(ctx, &resourceMetrics); err != nil {
		logger.Warn("failed to collect metrics", "error", err.Error())
	}

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			logger.Info("metric", "name", m.Name, "data_points", dataPointCount(m.Data))
		}
	}

	for _, span := range o.spanExporter.GetSpans() {
		logger.Info(
			"span",
			"name", span.Name,
			"status", span.Status.Code.String(),
			"duration_ms", span.EndTime.Sub(span.StartTime).Milliseconds(),
		)
	}

	if err := o.tracerProvider.Shutdown(ctx); err != nil {
		logger.Warn("failed to shut down tracer provider", "error", err.Error())
	}

	if err := o.meterProvider.Shutdown(ctx); err != nil {
		logger.Warn("failed to shut down meter provider", "error", err.Error())
	}
}

func dataPointCount(data metricdata.Aggregation) int {
	switch d := data.(type) {
	case metricdata.Histogram[float64]:
		return len(d.DataPoints)
	case metricdata.Sum[int64]:
		return len(d.DataPoints)
	case metricdata.Gauge[float64]:
		return len(d.DataPoints)
	default:
		return 0
	}
}
