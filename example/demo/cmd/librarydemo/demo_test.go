package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
	. "github.com/AntonStoeckl/library-transactions-go/testutil/postgresengine/helper" //nolint:revive
)

type engineStub struct {
	mu                  sync.Mutex
	loanCalls           int
	updateCalls         int
	conflictsBeforeDone int
}

func (s *engineStub) ExecuteLoan(_ context.Context, command librarytx.LoanCommand) (librarytx.LoanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loanCalls++
	if s.loanCalls > 1 {
		return librarytx.NewBookUnavailableResult(command), nil
	}

	return librarytx.LoanResult{Success: true, Outcome: librarytx.OutcomeLoaned}, nil
}

func (s *engineStub) ExecuteReaderUpdate(
	_ context.Context,
	command librarytx.ReaderUpdateCommand,
) (librarytx.ReaderUpdateResult, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	s.updateCalls++
	if s.updateCalls <= s.conflictsBeforeDone {
		err := errors.Join(librarytx.ErrSerializationConflict, errors.New("could not serialize access"))
		return librarytx.NewReaderUpdateFailedResult(err), err
	}

	return librarytx.NewReaderUpdatedResult(command, "old phone", "old address"), nil
}

func givenDemoConfig(t *testing.T, args ...string) demoConfig {
	t.Helper()

	cfg, err := parseFlags(args)
	require.NoError(t, err)

	return cfg
}

func Test_demo_lendConcurrently_ReturnsOneResultPerTransaction(t *testing.T) {
	// arrange
	stub := &engineStub{}
	d := newDemo(stub, givenDemoConfig(t, "-concurrency", "3"), nil)

	// act
	results, err := d.lendConcurrently(context.Background())

	// assert
	require.NoError(t, err)
	require.Len(t, results, 3)

	loaned := 0
	for _, result := range results {
		if result.Success {
			loaned++
			continue
		}
		assert.Equal(t, librarytx.OutcomeBookUnavailable, result.Outcome)
	}
	assert.Equal(t, 1, loaned)
}

func Test_demo_updateReader_WithoutRetry_ReturnsConflict(t *testing.T) {
	// arrange
	stub := &engineStub{conflictsBeforeDone: 1}
	d := newDemo(stub, givenDemoConfig(t), nil)

	// act
	_, err := d.updateReader(context.Background())

	// assert
	assert.ErrorIs(t, err, librarytx.ErrSerializationConflict)
	assert.Equal(t, 1, stub.updateCalls)
}

func Test_demo_updateReader_WithRetry_RecoversFromConflicts(t *testing.T) {
	// arrange
	stub := &engineStub{conflictsBeforeDone: 2}
	metricsSpy := NewMetricsCollectorSpy(true)
	d := newDemo(stub, givenDemoConfig(t, "-retry"), metricsSpy)

	// act
	result, err := d.updateReader(context.Background())

	// assert
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "old phone", result.OldPhone)
	assert.Equal(t, "+7 (999) 123-45-67", result.NewPhone)
	assert.Equal(t, 3, stub.updateCalls)
	assert.Equal(t, 2, metricsSpy.CountCounterRecordsForMetric("librarytx_retries_total"))
}
