package shell

import (
	"context"
	"errors"
	"strconv"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
)

const (
	// RetriesMetric tracks retry attempts of transactions.
	RetriesMetric = "librarytx_retries_total"
	// RetryDelayMetric tracks the backoff delay before each retry.
	RetryDelayMetric = "librarytx_retry_delay_seconds"
	// MaxRetriesReachedMetric tracks when max retries are exhausted.
	MaxRetriesReachedMetric = "librarytx_max_retries_reached_total"

	// LogAttrCommandType identifies the command type in logs and metric labels.
	LogAttrCommandType = "command_type"
	// LogAttrAttemptNumber is the number of the retry attempt.
	LogAttrAttemptNumber = "attempt_number"
	// LogAttrErrorType classifies the error that caused a retry.
	LogAttrErrorType = "error_type"
	// LogAttrFinalErrorType classifies the error after the last attempt.
	LogAttrFinalErrorType = "final_error_type"

	errorTypeNone                  = "none"
	errorTypeSerializationConflict = "serialization_conflict"
	errorTypeContextCanceled       = "context_canceled"
	errorTypeDeadlineExceeded      = "context_deadline_exceeded"
	errorTypeOther                 = "other"
)

// MetricsCollector interface for collecting retry metrics.
type MetricsCollector = librarytx.MetricsCollector

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector = librarytx.ContextualMetricsCollector

// BuildRetryLabels creates standard metric labels for retry attempts.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType:   commandType,
		LogAttrAttemptNumber: strconv.Itoa(attemptNumber),
		LogAttrErrorType:     errorType,
	}
}

// IsCancellationError checks if an error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsSerializationConflictError checks if PostgreSQL aborted the transaction to keep it serializable.
func IsSerializationConflictError(err error) bool {
	return errors.Is(err, librarytx.ErrSerializationConflict)
}

// getErrorType extracts a string representation of the error type for metrics labeling.
func getErrorType(err error) string {
	switch {
	case err == nil:
		return errorTypeNone
	case IsSerializationConflictError(err):
		return errorTypeSerializationConflict
	case IsCancellationError(err):
		return errorTypeContextCanceled
	case IsTimeoutError(err):
		return errorTypeDeadlineExceeded
	default:
		return errorTypeOther
	}
}
