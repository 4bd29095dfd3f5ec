package helper

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// LogHandlerSpy is a slog.Handler that keeps every record it handles.
type LogHandlerSpy struct {
	mu          sync.Mutex
	records     []slog.Record
	logToStdout bool
}

// NewLogHandlerSpy creates a spy. With logToStdOut=true it also prints each record as JSON, handy when debugging a test.
func NewLogHandlerSpy(logToStdOut bool) *LogHandlerSpy {
	return &LogHandlerSpy{logToStdout: logToStdOut}
}

func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	s.records = append(s.records, record.Clone())
	s.mu.Unlock()

	if s.logToStdout {
		_ = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}).Handle(ctx, record)
	}

	return nil
}

func (s *LogHandlerSpy) Enabled(context.Context, slog.Level) bool { return true }

func (s *LogHandlerSpy) WithAttrs([]slog.Attr) slog.Handler { return s }

func (s *LogHandlerSpy) WithGroup(string) slog.Handler { return s }

func (s *LogHandlerSpy) GetRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

func (s *LogHandlerSpy) CountLogsWithLevel(level slog.Level) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.records {
		if record.Level == level {
			count++
		}
	}

	return count
}

func (s *LogHandlerSpy) HasDebugLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.lastRecord(slog.LevelDebug, message)
}

func (s *LogHandlerSpy) HasInfoLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.lastRecord(slog.LevelInfo, message)
}

func (s *LogHandlerSpy) HasErrorLogWithMessage(message string) *SpyLogRecordMatcher {
	return s.lastRecord(slog.LevelError, message)
}

func (s *LogHandlerSpy) lastRecord(level slog.Level, message string) *SpyLogRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.records) - 1; i >= 0; i-- {
		if s.records[i].Level == level && s.records[i].Message == message {
			record := s.records[i]
			return &SpyLogRecordMatcher{record: &record}
		}
	}

	return &SpyLogRecordMatcher{}
}

// SpyLogRecordMatcher checks the attributes of one log record. A failed With* call makes Assert false.
type SpyLogRecordMatcher struct {
	record   *slog.Record
	mismatch bool
}

func (m *SpyLogRecordMatcher) check(key string, ok func(slog.Value) bool) *SpyLogRecordMatcher {
	if m.record == nil || m.mismatch {
		return m
	}

	value, found := attrValue(m.record, key)
	m.mismatch = !found || !ok(value)

	return m
}

// WithDurationMS checks for a non-negative numeric duration_ms attribute.
func (m *SpyLogRecordMatcher) WithDurationMS() *SpyLogRecordMatcher {
	return m.check("duration_ms", func(value slog.Value) bool {
		switch value.Kind() {
		case slog.KindFloat64:
			return value.Float64() >= 0
		case slog.KindInt64:
			return value.Int64() >= 0
		default:
			return false
		}
	})
}

// WithAttribute compares the attribute's value rendered with fmt.Sprint.
func (m *SpyLogRecordMatcher) WithAttribute(key, value string) *SpyLogRecordMatcher {
	return m.check(key, func(attr slog.Value) bool {
		return fmt.Sprint(attr.Any()) == value
	})
}

func (m *SpyLogRecordMatcher) WithAttributeKey(key string) *SpyLogRecordMatcher {
	return m.check(key, func(slog.Value) bool { return true })
}

func (m *SpyLogRecordMatcher) Assert() bool {
	return m.record != nil && !m.mismatch
}

func attrValue(record *slog.Record, key string) (slog.Value, bool) {
	var value slog.Value
	found := false

	record.Attrs(func(attr slog.Attr) bool {
		if attr.Key == key {
			value, found = attr.Value, true
			return false
		}

		return true
	})

	return value, found
}
