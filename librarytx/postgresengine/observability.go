package postgresengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
)

const (
	logMsgBeginFailed          = "failed to begin transaction"
	logMsgStatementFailed      = "statement failed, rolling back"
	logMsgRollbackFailed       = "failed to roll back transaction"
	logMsgCommitFailed         = "failed to commit transaction"
	logMsgCloseRowsFailed      = "failed to close database rows"
	logMsgTransactionFailed    = "transaction failed"
	logMsgSQLExecuted          = "executed sql for: "
	logMsgOperation            = "librarytx operation: "
	logAttrError               = "error"
	logAttrErrorType           = "error_type"
	logAttrQuery               = "query"
	logAttrOperation           = "operation"
	logAttrOutcome             = "outcome"
	logAttrIsolationLevel      = "isolation_level"
	logAttrDurationMS          = "duration_ms"
	logActionCountBooks        = "count_books"
	logActionCountLoanedCopies = "count_loaned_copies"
	logActionReserveBook       = "reserve_book"
	logActionInsertLoan        = "insert_loan"
	logActionInsertLoanItem    = "insert_loan_item"
	logActionSelectReader      = "select_reader_for_update"
	logActionUpdateReader      = "update_reader"
	operationLoan              = "execute_loan"
	operationReaderUpdate      = "execute_reader_update"
	spanNameLoan               = "librarytx.execute_loan"
	spanNameReaderUpdate       = "librarytx.execute_reader_update"
	metricTransactionDuration  = "librarytx_transaction_duration_seconds"
	metricTransactionOutcomes  = "librarytx_transaction_outcomes_total"
	metricDatabaseErrors       = "librarytx_database_errors_total"
	metricSerializationConfl   = "librarytx_serialization_conflicts_total"
	metricBookCopiesAvailable  = "librarytx_book_copies_available"
	statusSuccess              = "success"
	statusRejected             = "rejected"
	statusError                = "error"
	statusConflict             = "conflict"
	labelStatus                = "status"
)

// transactionObserver records logs, metrics, and the tracing span of one transaction.
type transactionObserver struct {
	e              *Engine
	ctx            context.Context
	operation      string
	isolationLevel librarytx.IsolationLevel
	span           librarytx.SpanContext
	start          time.Time
}

// startObserving starts the tracing span and the duration measurement of a transaction.
func (e *Engine) startObserving(
	ctx context.Context,
	operation string,
	spanName string,
	isolationLevel librarytx.IsolationLevel,
) (*transactionObserver, context.Context) {

	observer := &transactionObserver{
		e:              e,
		operation:      operation,
		isolationLevel: isolationLevel,
		start:          time.Now(),
	}

	if e.tracingCollector != nil {
		ctx, observer.span = e.tracingCollector.StartSpan(ctx, spanName, map[string]string{
			logAttrOperation:      operation,
			logAttrIsolationLevel: isolationLevel.String(),
		})
	}

	observer.ctx = ctx

	return observer, ctx
}

// finishOutcome completes a transaction that ended with a committed result or a business rejection.
func (o *transactionObserver) finishOutcome(outcome librarytx.Outcome) {
	duration := time.Since(o.start)

	status := statusSuccess
	if outcome.IsBusinessRejection() {
		status = statusRejected
	}

	o.e.logOperation(
		o.ctx,
		o.operation,
		logAttrOutcome, outcome.String(),
		logAttrIsolationLevel, o.isolationLevel.String(),
		logAttrDurationMS, toMilliseconds(duration),
	)

	o.e.recordDuration(o.ctx, duration, o.operation, status)
	o.e.incrementCounter(o.ctx, metricTransactionOutcomes, map[string]string{
		logAttrOperation: o.operation,
		logAttrOutcome:   outcome.String(),
	})

	if o.span != nil {
		o.span.AddAttribute(logAttrOutcome, outcome.String())
		o.span.AddAttribute(logAttrDurationMS, formatMilliseconds(duration))
	}

	o.e.finishSpan(o.span, status, map[string]string{logAttrOutcome: outcome.String()})
}

// finishError completes a failed transaction.
func (o *transactionObserver) finishError(err error) {
	duration := time.Since(o.start)
	errType := errorType(err)

	status := statusError
	if errType == errorTypeSerializationConflict {
		status = statusConflict
	}

	o.e.logError(o.ctx, logMsgTransactionFailed, err,
		logAttrOperation, o.operation,
		logAttrErrorType, errType,
		logAttrDurationMS, toMilliseconds(duration),
	)

	o.e.recordDuration(o.ctx, duration, o.operation, statusError)
	o.e.incrementCounter(o.ctx, metricTransactionOutcomes, map[string]string{
		logAttrOperation: o.operation,
		logAttrOutcome:   librarytx.OutcomeFailed.String(),
	})
	o.e.incrementCounter(o.ctx, metricDatabaseErrors, map[string]string{
		logAttrOperation: o.operation,
		logAttrErrorType: errType,
	})

	if status == statusConflict {
		o.e.incrementCounter(o.ctx, metricSerializationConfl, map[string]string{
			logAttrOperation:      o.operation,
			logAttrIsolationLevel: o.isolationLevel.String(),
		})
	}

	if o.span != nil {
		o.span.AddAttribute(logAttrErrorType, errType)
		o.span.AddAttribute(logAttrDurationMS, formatMilliseconds(duration))
	}

	o.e.finishSpan(o.span, status, map[string]string{logAttrErrorType: errType})
}

// finishSpan finishes a tracing span if the tracing collector is configured.
func (e *Engine) finishSpan(span librarytx.SpanContext, status string, attrs map[string]string) {
	if e.tracingCollector != nil && span != nil {
		e.tracingCollector.FinishSpan(span, status, attrs)
	}
}

// recordDuration records the transaction duration if the metrics collector is configured.
func (e *Engine) recordDuration(ctx context.Context, duration time.Duration, operation, status string) {
	if e.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		logAttrOperation: operation,
		labelStatus:      status,
	}

	if contextualCollector, ok := e.metricsCollector.(librarytx.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricTransactionDuration, duration, labels)
	} else {
		e.metricsCollector.RecordDuration(metricTransactionDuration, duration, labels)
	}
}

// incrementCounter increments a counter if the metrics collector is configured.
func (e *Engine) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if e.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := e.metricsCollector.(librarytx.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
	} else {
		e.metricsCollector.IncrementCounter(metric, labels)
	}
}

// recordValue records a value if the metrics collector is configured.
func (e *Engine) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if e.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := e.metricsCollector.(librarytx.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
	} else {
		e.metricsCollector.RecordValue(metric, value, labels)
	}
}

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (e *Engine) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, toMilliseconds(duration), logAttrQuery, sqlQuery}

	if e.logger != nil {
		e.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level.
func (e *Engine) logOperation(ctx context.Context, operation string, args ...any) {
	if e.logger != nil {
		e.logger.Info(logMsgOperation+operation, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, logMsgOperation+operation, args...)
	}
}

// logWarn logs non-critical issues at warn level.
func (e *Engine) logWarn(ctx context.Context, message string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(message, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.WarnContext(ctx, message, args...)
	}
}

// logError logs error information at the error level.
func (e *Engine) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if e.logger != nil {
		e.logger.Error(message, allArgs...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return fmt.Sprintf("%.2f", float64(d.Nanoseconds())/1e6)
}
