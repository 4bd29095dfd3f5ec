package postgresengine

import (
	"time"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
)

type (
	// Logger is the plain logger the Engine reports to, *slog.Logger satisfies it.
	Logger = librarytx.Logger
	// ContextualLogger is the context-aware logger the Engine reports to.
	ContextualLogger = librarytx.ContextualLogger
	// MetricsCollector receives durations, outcomes, and error counters.
	MetricsCollector = librarytx.MetricsCollector
	// TracingCollector receives one span per transaction.
	TracingCollector = librarytx.TracingCollector
)

// Option defines a functional option for configuring Engine.
type Option func(*Engine) error

// WithReaderTableName sets the name of the reader table.
func WithReaderTableName(tableName string) Option {
	return func(e *Engine) error {
		if tableName == "" {
			return librarytx.ErrEmptyTableName
		}

		e.readerTableName = tableName

		return nil
	}
}

// WithBookTableName sets the name of the book table.
func WithBookTableName(tableName string) Option {
	return func(e *Engine) error {
		if tableName == "" {
			return librarytx.ErrEmptyTableName
		}

		e.bookTableName = tableName

		return nil
	}
}

// WithLoanTableName sets the name of the loan table.
func WithLoanTableName(tableName string) Option {
	return func(e *Engine) error {
		if tableName == "" {
			return librarytx.ErrEmptyTableName
		}

		e.loanTableName = tableName

		return nil
	}
}

// WithLoanItemTableName sets the name of the loan item table.
func WithLoanItemTableName(tableName string) Option {
	return func(e *Engine) error {
		if tableName == "" {
			return librarytx.ErrEmptyTableName
		}

		e.loanItemTableName = tableName

		return nil
	}
}

// WithLoanIsolationLevel sets the isolation level of the loan transaction.
// The default is READ COMMITTED. The reader update always runs SERIALIZABLE.
func WithLoanIsolationLevel(isolationLevel librarytx.IsolationLevel) Option {
	return func(e *Engine) error {
		e.loanIsolationLevel = isolationLevel
		return nil
	}
}

// WithBookLocking makes the availability check lock the matching book rows until the loan commits or rolls back,
// and counts a book as available only while it has more copies than loan items.
// Concurrent loans of the same title then run one after the other, and the last copy is lent only once.
func WithBookLocking() Option {
	return func(e *Engine) error {
		e.availability = availabilityCountLockedRows
		return nil
	}
}

// WithAvailabilityCounter switches the availability check to decrement-and-reserve on the given book column.
// A book is available if the column was positive and has been decremented in the same unit of work.
// A check constraint violation on the column is reported as book unavailable as well.
func WithAvailabilityCounter(column string) Option {
	return func(e *Engine) error {
		if column == "" {
			return librarytx.ErrEmptyColumnName
		}

		e.availability = availabilityDecrementCounter
		e.availabilityColumn = column

		return nil
	}
}

// WithLoanKeyStrategy sets how LoanName and LoanInfo are derived.
func WithLoanKeyStrategy(strategy librarytx.LoanKeyStrategy) Option {
	return func(e *Engine) error {
		if strategy == nil {
			return librarytx.ErrNilLoanKeyStrategy
		}

		e.loanKeys = strategy

		return nil
	}
}

// WithClock sets the clock the loan dates are calculated from.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) error {
		if clock == nil {
			return librarytx.ErrNilClock
		}

		e.clock = clock

		return nil
	}
}

// WithLogger sets the logger for the Engine.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Transaction outcomes and durations (production-safe)
// Warn level: Non-critical issues like rows close failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Engine.
// It receives the same messages as the plain logger, with the context for trace correlation.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(e *Engine) error {
		e.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
// It receives transaction durations, outcome counters, database error counters, and serialization conflicts.
func WithMetrics(collector MetricsCollector) Option {
	return func(e *Engine) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Engine.
// One span is created per transaction.
func WithTracing(collector TracingCollector) Option {
	return func(e *Engine) error {
		e.tracingCollector = collector
		return nil
	}
}
