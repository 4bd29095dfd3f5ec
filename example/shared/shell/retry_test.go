package shell

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
	"github.com/AntonStoeckl/library-transactions-go/testutil/postgresengine/helper"
)

func serializationConflict() error {
	return errors.Join(librarytx.ErrCommitFailed, librarytx.ErrSerializationConflict, errors.New("40001"))
}

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn)

	assert.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, "none", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_RetryOnSerializationConflict(t *testing.T) {
	ctx := context.Background()
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return serializationConflict()
		}
		return nil
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Millisecond))

	assert.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_FailsFastOnOtherErrors(t *testing.T) {
	ctx := context.Background()
	callCount := 0
	statementErr := errors.Join(librarytx.ErrStatementFailed, errors.New("violates foreign key constraint"))

	fn := func(_ context.Context) error {
		callCount++
		return statementErr
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn)

	assert.ErrorIs(t, err, librarytx.ErrStatementFailed)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "other", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_ExhaustsRetries(t *testing.T) {
	ctx := context.Background()
	callCount := 0
	metricsSpy := helper.NewMetricsCollectorSpy(true)

	fn := func(_ context.Context) error {
		callCount++
		return serializationConflict()
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn,
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
		WithJitterFactor(0),
		WithMetrics(metricsSpy, librarytx.ReaderUpdateCommand{}.CommandType()),
	)

	assert.ErrorIs(t, err, librarytx.ErrSerializationConflict)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, "serialization_conflict", meta.LastErrorType)
	assert.Equal(t, 2, metricsSpy.CountCounterRecordsForMetric(RetriesMetric))
	assert.Equal(t, 2, metricsSpy.CountDurationRecordsForMetric(RetryDelayMetric))
	assert.True(t, metricsSpy.HasCounterRecordForMetric(MaxRetriesReachedMetric).
		WithLabel(LogAttrFinalErrorType, "serialization_conflict").
		Assert())
}

func Test_RetryWithExponentialBackoff_StopsOnContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0

	fn := func(_ context.Context) error {
		callCount++
		cancel()
		return serializationConflict()
	}

	meta, err := RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(time.Second))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "context_canceled", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	ctx := context.Background()
	fn := func(_ context.Context) error { return nil }

	_, err := RetryWithExponentialBackoff(ctx, fn, WithMaxAttempts(0))
	assert.ErrorIs(t, err, ErrInvalidMaxAttempts)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithBaseDelay(-1*time.Second))
	assert.ErrorIs(t, err, ErrNegativeBaseDelay)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithJitterFactor(1.5))
	assert.ErrorIs(t, err, ErrInvalidJitterFactor)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithMetrics(nil, "ExecuteLoan"))
	assert.ErrorIs(t, err, ErrNilMetricsCollector)

	_, err = RetryWithExponentialBackoff(ctx, fn, WithMetrics(helper.NewMetricsCollectorSpy(false), ""))
	assert.ErrorIs(t, err, ErrEmptyCommandType)
}
