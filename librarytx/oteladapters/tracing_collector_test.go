package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/library-transactions-go/librarytx/oteladapters"
)

func givenTracingCollector() (*oteladapters.TracingCollector, *tracetest.InMemoryExporter) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	return oteladapters.NewTracingCollector(provider.Tracer("test")), exporter
}

func spanAttribute(span tracetest.SpanStub, key string) (string, bool) {
	for _, attr := range span.Attributes {
		if attr.Key == attribute.Key(key) {
			return attr.Value.AsString(), true
		}
	}

	return "", false
}

func Test_TracingCollector_RecordsStartAndFinishAttributes(t *testing.T) {
	// arrange
	collector, exporter := givenTracingCollector()

	// act
	_, span := collector.StartSpan(context.Background(), "librarytx.execute_loan", map[string]string{
		"operation":       "execute_loan",
		"isolation_level": "read committed",
	})
	span.AddAttribute("duration_ms", "1.50")
	collector.FinishSpan(span, "success", map[string]string{"outcome": "loaned"})

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "librarytx.execute_loan", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)

	for key, want := range map[string]string{
		"operation":       "execute_loan",
		"isolation_level": "read committed",
		"duration_ms":     "1.50",
		"outcome":         "loaned",
	} {
		got, ok := spanAttribute(spans[0], key)
		assert.True(t, ok, "span should carry attribute %s", key)
		assert.Equal(t, want, got)
	}
}

func Test_TracingCollector_MapsStatuses(t *testing.T) {
	testCases := []struct {
		status          string
		wantCode        codes.Code
		wantDescription string
		wantStatusAttr  bool
	}{
		{status: "success", wantCode: codes.Ok},
		{status: "rejected", wantCode: codes.Ok, wantStatusAttr: true},
		{status: "error", wantCode: codes.Error, wantDescription: "transaction failed"},
		{status: "conflict", wantCode: codes.Error, wantDescription: "serialization conflict"},
		{status: "canceled", wantCode: codes.Error, wantDescription: "transaction canceled"},
		{status: "timeout", wantCode: codes.Error, wantDescription: "transaction timed out"},
		{status: "something_else", wantCode: codes.Unset, wantStatusAttr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			collector, exporter := givenTracingCollector()
			_, span := collector.StartSpan(context.Background(), "librarytx.execute_reader_update", nil)

			// act
			collector.FinishSpan(span, tc.status, nil)

			// assert
			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.wantCode, spans[0].Status.Code)
			assert.Equal(t, tc.wantDescription, spans[0].Status.Description)

			status, ok := spanAttribute(spans[0], "status")
			assert.Equal(t, tc.wantStatusAttr, ok)
			if tc.wantStatusAttr {
				assert.Equal(t, tc.status, status)
			}
		})
	}
}

func Test_TracingCollector_StartsChildSpanOfSpanInContext(t *testing.T) {
	// arrange
	collector, exporter := givenTracingCollector()
	parentCtx, parent := collector.StartSpan(context.Background(), "demo.run", nil)

	// act
	_, child := collector.StartSpan(parentCtx, "librarytx.execute_loan", nil)
	collector.FinishSpan(child, "success", nil)
	collector.FinishSpan(parent, "success", nil)

	// assert
	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "librarytx.execute_loan", spans[0].Name)
	assert.Equal(t, spans[1].SpanContext.TraceID(), spans[0].SpanContext.TraceID())
	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID())
}

type foreignSpanContext struct{}

func (foreignSpanContext) SetStatus(string)            {}
func (foreignSpanContext) AddAttribute(string, string) {}

func Test_TracingCollector_IgnoresForeignSpanContexts(t *testing.T) {
	// arrange
	collector, exporter := givenTracingCollector()

	// act
	collector.FinishSpan(foreignSpanContext{}, "success", nil)

	// assert
	assert.Empty(t, exporter.GetSpans())
}
