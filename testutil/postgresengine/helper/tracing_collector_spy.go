package helper

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
)

// SpySpanContext is the librarytx.SpanContext handed out by TracingCollectorSpy.
type SpySpanContext struct {
	mu         sync.Mutex
	status     string
	attributes map[string]string
}

func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attributes[key] = value
}

func (c *SpySpanContext) attribute(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.attributes[key]

	return value, ok
}

func (c *SpySpanContext) currentStatus() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.status
}

// SpySpanRecord is one span, from StartSpan to FinishSpan.
type SpySpanRecord struct {
	Name            string
	StartAttributes map[string]string
	EndAttributes   map[string]string
	SpanContext     *SpySpanContext
}

// TracingCollectorSpy captures the spans started and finished through librarytx.TracingCollector.
type TracingCollectorSpy struct {
	mu          sync.Mutex
	spans       []*SpySpanRecord
	recordCalls bool
}

// NewTracingCollectorSpy creates a spy. With recordCalls=false StartSpan returns a nil span context.
func NewTracingCollectorSpy(recordCalls bool) *TracingCollectorSpy {
	return &TracingCollectorSpy{recordCalls: recordCalls}
}

func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, librarytx.SpanContext) {

	if !s.recordCalls {
		return ctx, nil
	}

	spanCtx := &SpySpanContext{attributes: make(map[string]string)}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.spans = append(s.spans, &SpySpanRecord{
		Name:            name,
		StartAttributes: copyLabels(attrs),
		SpanContext:     spanCtx,
	})

	return ctx, spanCtx
}

// FinishSpan stores the final status on the span context and the attributes on its record.
func (s *TracingCollectorSpy) FinishSpan(spanCtx librarytx.SpanContext, status string, attrs map[string]string) {
	spySpanCtx, ok := spanCtx.(*SpySpanContext)
	if !s.recordCalls || !ok {
		return
	}

	spySpanCtx.SetStatus(status)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, span := range s.spans {
		if span.SpanContext == spySpanCtx {
			span.EndAttributes = copyLabels(attrs)
			return
		}
	}
}

func (s *TracingCollectorSpy) GetSpanRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.spans)
}

// HasSpanRecordForName starts a matcher over the first span with this name.
func (s *TracingCollectorSpy) HasSpanRecordForName(name string) *SpanRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, span := range s.spans {
		if span.Name == name {
			return &SpanRecordMatcher{span: span}
		}
	}

	return &SpanRecordMatcher{}
}

// SpanRecordMatcher checks one span. A failed With* call makes Assert false.
type SpanRecordMatcher struct {
	span     *SpySpanRecord
	mismatch bool
}

func (m *SpanRecordMatcher) check(ok func(span *SpySpanRecord) bool) *SpanRecordMatcher {
	if m.span == nil || m.mismatch {
		return m
	}

	m.mismatch = !ok(m.span)

	return m
}

func (m *SpanRecordMatcher) WithStatus(status string) *SpanRecordMatcher {
	return m.check(func(span *SpySpanRecord) bool {
		return span.SpanContext.currentStatus() == status
	})
}

func (m *SpanRecordMatcher) WithStartAttribute(key, value string) *SpanRecordMatcher {
	return m.check(func(span *SpySpanRecord) bool {
		attrValue, ok := span.StartAttributes[key]
		return ok && attrValue == value
	})
}

func (m *SpanRecordMatcher) WithEndAttribute(key, value string) *SpanRecordMatcher {
	return m.check(func(span *SpySpanRecord) bool {
		attrValue, ok := span.EndAttributes[key]
		return ok && attrValue == value
	})
}

// WithSpanAttribute checks an attribute added with AddAttribute while the span was open.
func (m *SpanRecordMatcher) WithSpanAttribute(key, value string) *SpanRecordMatcher {
	return m.check(func(span *SpySpanRecord) bool {
		attrValue, ok := span.SpanContext.attribute(key)
		return ok && attrValue == value
	})
}

// WithSpanAttributeKey checks that an attribute was added with AddAttribute, whatever its value.
func (m *SpanRecordMatcher) WithSpanAttributeKey(key string) *SpanRecordMatcher {
	return m.check(func(span *SpySpanRecord) bool {
		_, ok := span.SpanContext.attribute(key)
		return ok
	})
}

func (m *SpanRecordMatcher) Assert() bool {
	return m.span != nil && !m.mismatch
}
