package postgresengine_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
	"github.com/AntonStoeckl/library-transactions-go/librarytx/postgresengine"
	. "github.com/AntonStoeckl/library-transactions-go/testutil/postgresengine/helper"                 //nolint:revive
	. "github.com/AntonStoeckl/library-transactions-go/testutil/postgresengine/helper/postgreswrapper" //nolint:revive
)

func Test_Observability_WithLogger_LogsStatementsAndOutcome(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)
	logger := slog.New(testHandler)

	wrapper := CreateWrapperWithTestConfig(t, postgresengine.WithLogger(logger))
	defer wrapper.Close()
	engine := wrapper.GetEngine()

	// arrange
	CleanUp(t, wrapper)
	email := GivenUniqueEmail(t)
	title := GivenUniqueTitle(t)
	GivenReader(t, wrapper, email, "Barry", "Benson", "", "")
	GivenBookCopies(t, wrapper, title, 1)

	// act
	_, err := engine.ExecuteLoan(ctxWithTimeout, librarytx.BuildLoanCommand(email, "Barry", "Benson", title))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 4, testHandler.GetRecordCount(), "three statements and one outcome should be logged")
	assert.True(t, testHandler.HasDebugLogWithMessage("executed sql for: count_books").WithDurationMS().Assert())
	assert.True(t, testHandler.HasDebugLogWithMessage("executed sql for: insert_loan").WithAttributeKey("query").Assert())
	assert.True(t, testHandler.HasDebugLogWithMessage("executed sql for: insert_loan_item").Assert())
	assert.True(t,
		testHandler.HasInfoLogWithMessage("librarytx operation: execute_loan").
			WithAttribute("outcome", "loaned").
			WithAttribute("isolation_level", "read committed").
			WithDurationMS().
			Assert(),
	)
}

func Test_Observability_WithLogger_LogsRejectionsAtInfoLevel(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)

	wrapper := CreateWrapperWithTestConfig(t, postgresengine.WithLogger(slog.New(testHandler)))
	defer wrapper.Close()
	engine := wrapper.GetEngine()

	// arrange
	CleanUp(t, wrapper)

	// act
	_, err := engine.ExecuteReaderUpdate(ctxWithTimeout, librarytx.BuildReaderUpdateCommand("nobody@example.org", "1", "2"))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 0, testHandler.CountLogsWithLevel(slog.LevelError))
	assert.True(t,
		testHandler.HasInfoLogWithMessage("librarytx operation: execute_reader_update").
			WithAttribute("outcome", "reader_not_found").
			WithAttribute("isolation_level", "serializable").
			Assert(),
	)
}

func Test_Observability_WithContextualLogger_LogsFailures(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	testHandler := NewLogHandlerSpy(false)

	wrapper := CreateWrapperWithTestConfig(
		t,
		postgresengine.WithContextualLogger(slog.New(testHandler)),
		postgresengine.WithLoanItemTableName(RejectingLoanItemTableName),
	)
	defer wrapper.Close()
	engine := wrapper.GetEngine()

	// arrange
	CleanUp(t, wrapper)
	email := GivenUniqueEmail(t)
	title := GivenUniqueTitle(t)
	GivenReader(t, wrapper, email, "Barry", "Benson", "", "")
	GivenBookCopies(t, wrapper, title, 1)

	// act
	_, err := engine.ExecuteLoan(ctxWithTimeout, librarytx.BuildLoanCommand(email, "Barry", "Benson", title))

	// assert
	require.Error(t, err)
	assert.True(t, testHandler.HasErrorLogWithMessage("statement failed, rolling back").WithAttributeKey("error").Assert())
	assert.True(t,
		testHandler.HasErrorLogWithMessage("transaction failed").
			WithAttribute("operation", "execute_loan").
			WithAttribute("error_type", "statement").
			Assert(),
	)
}

func Test_Observability_WithMetrics_RecordsDurationsAndOutcomes(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricsSpy := NewMetricsCollectorSpy(true)

	wrapper := CreateWrapperWithTestConfig(t, postgresengine.WithMetrics(metricsSpy))
	defer wrapper.Close()
	engine := wrapper.GetEngine()

	// arrange
	CleanUp(t, wrapper)
	email := GivenUniqueEmail(t)
	title := GivenUniqueTitle(t)
	GivenReader(t, wrapper, email, "Barry", "Benson", "", "")
	GivenBookCopies(t, wrapper, title, 2)

	// act
	_, loanErr := engine.ExecuteLoan(ctxWithTimeout, librarytx.BuildLoanCommand(email, "Barry", "Benson", title))
	_, unavailableErr := engine.ExecuteLoan(ctxWithTimeout, librarytx.BuildLoanCommand(email, "Barry", "Benson", "no such book"))
	_, updateErr := engine.ExecuteReaderUpdate(ctxWithTimeout, librarytx.BuildReaderUpdateCommand(email, "1", "2"))

	// assert
	require.NoError(t, loanErr)
	require.NoError(t, unavailableErr)
	require.NoError(t, updateErr)

	assert.Equal(t, 3, metricsSpy.CountDurationRecordsForMetric("librarytx_transaction_duration_seconds"))
	assert.True(t, metricsSpy.HasDurationRecordForMetric("librarytx_transaction_duration_seconds").
		WithOperation("execute_loan").
		WithStatus("success").
		WithPositiveDuration().
		Assert())
	assert.True(t, metricsSpy.HasDurationRecordForMetric("librarytx_transaction_duration_seconds").
		WithOperation("execute_loan").
		WithStatus("rejected").
		WithPositiveDuration().
		Assert())
	assert.True(t, metricsSpy.HasDurationRecordForMetric("librarytx_transaction_duration_seconds").
		WithOperation("execute_reader_update").
		WithStatus("success").
		WithPositiveDuration().
		Assert())
	assert.True(t, metricsSpy.HasCounterRecordForMetric("librarytx_transaction_outcomes_total").
		WithOperation("execute_loan").
		WithOutcome("book_unavailable").
		Assert())
	assert.True(t, metricsSpy.HasCounterRecordForMetric("librarytx_transaction_outcomes_total").
		WithOperation("execute_reader_update").
		WithOutcome("reader_updated").
		Assert())
	assert.True(t, metricsSpy.HasValueRecordForMetric("librarytx_book_copies_available").
		WithLabel("title", title).
		WithValue(2).
		Assert(), "both copies were on the shelf when the first loan counted them")
	assert.True(t, metricsSpy.HasValueRecordForMetric("librarytx_book_copies_available").
		WithLabel("title", "no such book").
		WithValue(0).
		Assert())
	assert.Equal(t, 0, metricsSpy.CountCounterRecordsForMetric("librarytx_database_errors_total"))
}

func Test_Observability_WithMetrics_RecordsErrors(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metricsSpy := NewMetricsCollectorSpy(true)

	wrapper := CreateWrapperWithTestConfig(
		t,
		postgresengine.WithMetrics(metricsSpy),
		postgresengine.WithLoanItemTableName(RejectingLoanItemTableName),
	)
	defer wrapper.Close()
	engine := wrapper.GetEngine()

	// arrange
	CleanUp(t, wrapper)
	email := GivenUniqueEmail(t)
	title := GivenUniqueTitle(t)
	GivenReader(t, wrapper, email, "Barry", "Benson", "", "")
	GivenBookCopies(t, wrapper, title, 1)

	// act
	_, err := engine.ExecuteLoan(ctxWithTimeout, librarytx.BuildLoanCommand(email, "Barry", "Benson", title))

	// assert
	require.Error(t, err)
	assert.True(t, metricsSpy.HasCounterRecordForMetric("librarytx_database_errors_total").
		WithOperation("execute_loan").
		WithErrorType("statement").
		Assert())
	assert.True(t, metricsSpy.HasCounterRecordForMetric("librarytx_transaction_outcomes_total").
		WithOutcome("failed").
		Assert())
	assert.True(t, metricsSpy.HasDurationRecordForMetric("librarytx_transaction_duration_seconds").
		WithStatus("error").
		Assert())
}

func Test_Observability_WithTracing_RecordsOneSpanPerTransaction(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tracingSpy := NewTracingCollectorSpy(true)

	wrapper := CreateWrapperWithTestConfig(t, postgresengine.WithTracing(tracingSpy))
	defer wrapper.Close()
	engine := wrapper.GetEngine()

	// arrange
	CleanUp(t, wrapper)
	email := GivenUniqueEmail(t)
	title := GivenUniqueTitle(t)
	GivenReader(t, wrapper, email, "Barry", "Benson", "", "")
	GivenBookCopies(t, wrapper, title, 1)

	// act
	_, loanErr := engine.ExecuteLoan(ctxWithTimeout, librarytx.BuildLoanCommand(email, "Barry", "Benson", title))
	_, updateErr := engine.ExecuteReaderUpdate(ctxWithTimeout, librarytx.BuildReaderUpdateCommand(email, "1", "2"))

	// assert
	require.NoError(t, loanErr)
	require.NoError(t, updateErr)
	assert.Equal(t, 2, tracingSpy.GetSpanRecordCount())
	assert.True(t, tracingSpy.HasSpanRecordForName("librarytx.execute_loan").
		WithStartAttribute("isolation_level", "read committed").
		WithStatus("success").
		WithEndAttribute("outcome", "loaned").
		WithSpanAttribute("outcome", "loaned").
		WithSpanAttributeKey("duration_ms").
		Assert())
	assert.True(t, tracingSpy.HasSpanRecordForName("librarytx.execute_reader_update").
		WithStartAttribute("operation", "execute_reader_update").
		WithStartAttribute("isolation_level", "serializable").
		WithStatus("success").
		WithSpanAttribute("outcome", "reader_updated").
		Assert())
}

func Test_Observability_WithTracing_MarksRejectionsAndFailures(t *testing.T) {
	// setup
	ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tracingSpy := NewTracingCollectorSpy(true)

	wrapper := CreateWrapperWithTestConfig(
		t,
		postgresengine.WithTracing(tracingSpy),
		postgresengine.WithLoanItemTableName(RejectingLoanItemTableName),
	)
	defer wrapper.Close()
	engine := wrapper.GetEngine()

	// arrange
	CleanUp(t, wrapper)
	email := GivenUniqueEmail(t)
	title := GivenUniqueTitle(t)
	GivenReader(t, wrapper, email, "Barry", "Benson", "", "")
	GivenBookCopies(t, wrapper, title, 1)

	// act
	_, updateErr := engine.ExecuteReaderUpdate(ctxWithTimeout, librarytx.BuildReaderUpdateCommand("nobody@example.org", "1", "2"))
	_, loanErr := engine.ExecuteLoan(ctxWithTimeout, librarytx.BuildLoanCommand(email, "Barry", "Benson", title))

	// assert
	require.NoError(t, updateErr)
	require.Error(t, loanErr)
	assert.Equal(t, 2, tracingSpy.GetSpanRecordCount())
	assert.True(t, tracingSpy.HasSpanRecordForName("librarytx.execute_reader_update").
		WithStatus("rejected").
		WithEndAttribute("outcome", "reader_not_found").
		Assert())
	assert.True(t, tracingSpy.HasSpanRecordForName("librarytx.execute_loan").
		WithStatus("error").
		WithEndAttribute("error_type", "statement").
		WithSpanAttribute("error_type", "statement").
		WithSpanAttributeKey("duration_ms").
		Assert())
	assert.False(t, tracingSpy.HasSpanRecordForName("librarytx.execute_loan").WithStatus("success").Assert())
}
