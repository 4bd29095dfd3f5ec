package helper

import (
	"sync"
	"time"
)

// MetricKind tells which MetricsCollector method produced a SpyMetricRecord.
type MetricKind string

const (
	MetricKindDuration MetricKind = "duration"
	MetricKindCounter  MetricKind = "counter"
	MetricKindValue    MetricKind = "value"
)

// SpyMetricRecord is one captured MetricsCollector call.
type SpyMetricRecord struct {
	Kind     MetricKind
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// MetricsCollectorSpy captures MetricsCollector calls.
// It has no context-aware methods, so the engine and the retry helper use the plain ones.
type MetricsCollectorSpy struct {
	mu          sync.Mutex
	records     []SpyMetricRecord
	recordCalls bool
}

// NewMetricsCollectorSpy creates a spy. With recordCalls=false it accepts and drops every call.
func NewMetricsCollectorSpy(recordCalls bool) *MetricsCollectorSpy {
	return &MetricsCollectorSpy{recordCalls: recordCalls}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.capture(SpyMetricRecord{Kind: MetricKindDuration, Metric: metric, Duration: duration, Labels: labels})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.capture(SpyMetricRecord{Kind: MetricKindCounter, Metric: metric, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.capture(SpyMetricRecord{Kind: MetricKindValue, Metric: metric, Value: value, Labels: labels})
}

func (s *MetricsCollectorSpy) capture(record SpyMetricRecord) {
	if !s.recordCalls {
		return
	}

	record.Labels = copyLabels(record.Labels)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
}

// recordsFor returns the captured records of one kind and metric in call order.
func (s *MetricsCollectorSpy) recordsFor(kind MetricKind, metric string) []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matching []SpyMetricRecord
	for _, record := range s.records {
		if record.Kind == kind && record.Metric == metric {
			matching = append(matching, record)
		}
	}

	return matching
}

func (s *MetricsCollectorSpy) CountDurationRecordsForMetric(metric string) int {
	return len(s.recordsFor(MetricKindDuration, metric))
}

func (s *MetricsCollectorSpy) CountCounterRecordsForMetric(metric string) int {
	return len(s.recordsFor(MetricKindCounter, metric))
}

// HasDurationRecordForMetric starts a matcher over the duration records of the metric.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{candidates: s.recordsFor(MetricKindDuration, metric)}
}

// HasCounterRecordForMetric starts a matcher over the counter records of the metric.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{candidates: s.recordsFor(MetricKindCounter, metric)}
}

// HasValueRecordForMetric starts a matcher over the value records of the metric.
func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{candidates: s.recordsFor(MetricKindValue, metric)}
}

// MetricRecordMatcher narrows a set of records, each With* call drops the records that do not match.
// Assert is true if at least one record is left.
type MetricRecordMatcher struct {
	candidates []SpyMetricRecord
}

func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

func (m *MetricRecordMatcher) WithErrorType(errorType string) *MetricRecordMatcher {
	return m.WithLabel("error_type", errorType)
}

func (m *MetricRecordMatcher) WithOutcome(outcome string) *MetricRecordMatcher {
	return m.WithLabel("outcome", outcome)
}

func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	return m.keep(func(record SpyMetricRecord) bool {
		labelValue, ok := record.Labels[key]
		return ok && labelValue == value
	})
}

// WithValue keeps the value records that recorded exactly this value.
func (m *MetricRecordMatcher) WithValue(value float64) *MetricRecordMatcher {
	return m.keep(func(record SpyMetricRecord) bool {
		return record.Value == value
	})
}

// WithPositiveDuration keeps the duration records that measured more than zero.
func (m *MetricRecordMatcher) WithPositiveDuration() *MetricRecordMatcher {
	return m.keep(func(record SpyMetricRecord) bool {
		return record.Duration > 0
	})
}

func (m *MetricRecordMatcher) keep(matches func(SpyMetricRecord) bool) *MetricRecordMatcher {
	remaining := m.candidates[:0:0]
	for _, record := range m.candidates {
		if matches(record) {
			remaining = append(remaining, record)
		}
	}

	m.candidates = remaining

	return m
}

func (m *MetricRecordMatcher) Assert() bool {
	return len(m.candidates) > 0
}

func copyLabels(labels map[string]string) map[string]string {
	labelsCopy := make(map[string]string, len(labels))
	for k, v := range labels {
		labelsCopy[k] = v
	}

	return labelsCopy
}
