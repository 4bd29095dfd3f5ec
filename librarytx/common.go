package librarytx

import (
	"errors"
)

var (
	// ErrNilDatabaseConnection is returned when an engine is constructed without a connection pool.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyTableName is returned when an empty table name is supplied to a table name option.
	ErrEmptyTableName = errors.New("empty table name supplied")

	// ErrEmptyColumnName is returned when an empty column name is supplied to a column option.
	ErrEmptyColumnName = errors.New("empty column name supplied")

	// ErrNilLoanKeyStrategy is returned when a nil loan key strategy is supplied.
	ErrNilLoanKeyStrategy = errors.New("loan key strategy must not be nil")

	// ErrNilClock is returned when a nil clock is supplied.
	ErrNilClock = errors.New("clock must not be nil")

	// ErrEmptyBookTitle is returned when a loan command has no book title.
	ErrEmptyBookTitle = errors.New("book title must not be empty")

	// ErrEmptyReaderEmail is returned when a command has no reader email.
	ErrEmptyReaderEmail = errors.New("reader email must not be empty")

	// ErrBuildingQueryFailed is returned when a SQL statement could not be built.
	ErrBuildingQueryFailed = errors.New("building the query failed")

	// ErrConnectivity is returned when no connection could be acquired or no transaction could be started.
	ErrConnectivity = errors.New("database connectivity failed")

	// ErrStatementFailed is returned when a statement fails inside a unit of work. The unit of work was rolled back.
	ErrStatementFailed = errors.New("statement execution failed")

	// ErrCommitFailed is returned when the final commit of a unit of work fails.
	ErrCommitFailed = errors.New("committing the transaction failed")

	// ErrRollbackFailed is joined to the original error when the rollback after a failure also fails.
	ErrRollbackFailed = errors.New("rolling back the transaction failed")

	// ErrSerializationConflict is joined to the error when the database aborted the unit of work
	// because of a serialization failure or a deadlock (SQLSTATE 40001 / 40P01).
	ErrSerializationConflict = errors.New("serialization conflict, the transaction was aborted")

	// ErrUnexpectedRowCount is returned when a statement affected an unexpected number of rows.
	ErrUnexpectedRowCount = errors.New("unexpected number of affected rows")
)
