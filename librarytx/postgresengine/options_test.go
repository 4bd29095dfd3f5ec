package postgresengine

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
)

func newTestEngine(t *testing.T, options ...Option) Engine {
	t.Helper()

	e, err := newEngine(nil, options...)
	require.NoError(t, err)

	return e
}

func Test_NewEngine_Defaults(t *testing.T) {
	// act
	e := newTestEngine(t)

	// assert
	assert.Equal(t, defaultReaderTableName, e.readerTableName)
	assert.Equal(t, defaultBookTableName, e.bookTableName)
	assert.Equal(t, defaultLoanTableName, e.loanTableName)
	assert.Equal(t, defaultLoanItemTableName, e.loanItemTableName)
	assert.Equal(t, librarytx.IsolationReadCommitted, e.LoanIsolationLevel())
	assert.Equal(t, availabilityCountRows, e.availability)
	assert.NotNil(t, e.loanKeys)
	assert.NotNil(t, e.clock)
	assert.Nil(t, e.logger)
	assert.Nil(t, e.metricsCollector)
	assert.Nil(t, e.tracingCollector)
}

func Test_NewEngine_NilConnections(t *testing.T) {
	_, err := NewEngineFromPGXPool(nil)
	assert.ErrorIs(t, err, librarytx.ErrNilDatabaseConnection)

	_, err = NewEngineFromSQLDB(nil)
	assert.ErrorIs(t, err, librarytx.ErrNilDatabaseConnection)

	_, err = NewEngineFromSQLX(nil)
	assert.ErrorIs(t, err, librarytx.ErrNilDatabaseConnection)
}

func Test_Options_Apply(t *testing.T) {
	// setup
	fixedNow := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	// act
	e := newTestEngine(
		t,
		WithReaderTableName("readers"),
		WithBookTableName("books"),
		WithLoanTableName("loans"),
		WithLoanItemTableName("loan_items"),
		WithLoanIsolationLevel(librarytx.IsolationSerializable),
		WithAvailabilityCounter("available_copies"),
		WithLoanKeyStrategy(librarytx.UniqueLoanKeys),
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(logger),
		WithContextualLogger(logger),
	)

	// assert
	assert.Equal(t, "readers", e.readerTableName)
	assert.Equal(t, "books", e.bookTableName)
	assert.Equal(t, "loans", e.loanTableName)
	assert.Equal(t, "loan_items", e.loanItemTableName)
	assert.Equal(t, librarytx.IsolationSerializable, e.LoanIsolationLevel())
	assert.Equal(t, availabilityDecrementCounter, e.availability)
	assert.Equal(t, "available_copies", e.availabilityColumn)
	assert.Equal(t, fixedNow, e.clock())
	assert.NotNil(t, e.logger)
	assert.NotNil(t, e.contextualLogger)
}

func Test_Options_LastAvailabilityModeWins(t *testing.T) {
	e := newTestEngine(t, WithAvailabilityCounter("available_copies"), WithBookLocking())

	assert.Equal(t, availabilityCountLockedRows, e.availability)
}

func Test_Options_Errors(t *testing.T) {
	testCases := []struct {
		name        string
		option      Option
		expectedErr error
	}{
		{name: "empty reader table", option: WithReaderTableName(""), expectedErr: librarytx.ErrEmptyTableName},
		{name: "empty book table", option: WithBookTableName(""), expectedErr: librarytx.ErrEmptyTableName},
		{name: "empty loan table", option: WithLoanTableName(""), expectedErr: librarytx.ErrEmptyTableName},
		{name: "empty loan item table", option: WithLoanItemTableName(""), expectedErr: librarytx.ErrEmptyTableName},
		{name: "empty counter column", option: WithAvailabilityCounter(""), expectedErr: librarytx.ErrEmptyColumnName},
		{name: "nil loan key strategy", option: WithLoanKeyStrategy(nil), expectedErr: librarytx.ErrNilLoanKeyStrategy},
		{name: "nil clock", option: WithClock(nil), expectedErr: librarytx.ErrNilClock},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newEngine(nil, tc.option)

			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}
