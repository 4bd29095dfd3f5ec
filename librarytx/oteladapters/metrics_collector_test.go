package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/library-transactions-go/librarytx/oteladapters"
)

func givenMetricsCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func findMetric(t *testing.T, resourceMetrics metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()

	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m
			}
		}
	}

	require.Failf(t, "metric not found", "metric %s was not collected", name)

	return metricdata.Metrics{}
}

func Test_MetricsCollector_RecordDuration_RecordsSecondsInHistogram(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()

	// act
	collector.RecordDuration(
		"librarytx_transaction_duration_seconds",
		250*time.Millisecond,
		map[string]string{"operation": "execute_loan", "status": "success"},
	)

	// assert
	m := findMetric(t, collect(t, reader), "librarytx_transaction_duration_seconds")
	assert.Equal(t, "s", m.Unit)

	histogram, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok, "duration should be recorded as a float64 histogram")
	require.Len(t, histogram.DataPoints, 1)

	dataPoint := histogram.DataPoints[0]
	assert.Equal(t, uint64(1), dataPoint.Count)
	assert.InDelta(t, 0.25, dataPoint.Sum, 0.0001)

	expectedAttrs := attribute.NewSet(
		attribute.String("operation", "execute_loan"),
		attribute.String("status", "success"),
	)
	assert.True(t, dataPoint.Attributes.Equals(&expectedAttrs))
}

func Test_MetricsCollector_IncrementCounter_SumsPerLabelSet(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	loaned := map[string]string{"operation": "execute_loan", "outcome": "loaned"}
	unavailable := map[string]string{"operation": "execute_loan", "outcome": "book_unavailable"}

	// act
	collector.IncrementCounter("librarytx_transaction_outcomes_total", loaned)
	collector.IncrementCounter("librarytx_transaction_outcomes_total", loaned)
	collector.IncrementCounterContext(context.Background(), "librarytx_transaction_outcomes_total", unavailable)

	// assert
	sum, ok := findMetric(t, collect(t, reader), "librarytx_transaction_outcomes_total").Data.(metricdata.Sum[int64])
	require.True(t, ok, "counter should be recorded as an int64 sum")
	assert.True(t, sum.IsMonotonic)
	require.Len(t, sum.DataPoints, 2)

	values := make(map[string]int64)
	for _, dataPoint := range sum.DataPoints {
		outcome, _ := dataPoint.Attributes.Value("outcome")
		values[outcome.AsString()] = dataPoint.Value
	}

	assert.Equal(t, int64(2), values["loaned"])
	assert.Equal(t, int64(1), values["book_unavailable"])
}

func Test_MetricsCollector_RecordValue_KeepsLastValueInGauge(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	labels := map[string]string{"title": "1984"}

	// act
	collector.RecordValue("librarytx_book_copies_available", 3, labels)
	collector.RecordValueContext(context.Background(), "librarytx_book_copies_available", 2, labels)

	// assert
	gauge, ok := findMetric(t, collect(t, reader), "librarytx_book_copies_available").Data.(metricdata.Gauge[float64])
	require.True(t, ok, "value should be recorded as a float64 gauge")
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 2.0, gauge.DataPoints[0].Value, 0.0001)
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	workers := 20

	// act
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounter("librarytx_database_errors_total", map[string]string{"error_type": "statement"})
			collector.RecordDuration("librarytx_transaction_duration_seconds", time.Millisecond, nil)
		}()
	}
	wg.Wait()

	// assert
	sum, ok := findMetric(t, collect(t, reader), "librarytx_database_errors_total").Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(workers), sum.DataPoints[0].Value)
}
