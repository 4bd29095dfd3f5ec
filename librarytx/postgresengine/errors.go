package postgresengine

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
)

const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateCheckViolation       = "23514"
)

const (
	errorTypeValidation            = "validation"
	errorTypeBuildQuery            = "build_query"
	errorTypeConnectivity          = "connectivity"
	errorTypeSerializationConflict = "serialization_conflict"
	errorTypeStatement             = "statement"
	errorTypeCommit                = "commit"
	errorTypeRollback              = "rollback"
	errorTypeContextCanceled       = "context_canceled"
	errorTypeDeadlineExceeded      = "context_deadline_exceeded"
	errorTypeOther                 = "other"
)

// sqlState extracts the SQLSTATE code from pgx and lib/pq errors, empty if there is none.
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

// isSerializationFailure reports whether the database aborted the transaction to keep it serializable.
func isSerializationFailure(err error) bool {
	switch sqlState(err) {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected:
		return true
	default:
		return false
	}
}

// isCheckViolation reports whether a check constraint rejected the statement.
func isCheckViolation(err error) bool {
	return sqlState(err) == sqlStateCheckViolation
}

// statementError wraps a failed statement into the error taxonomy.
func statementError(err error) error {
	if isSerializationFailure(err) {
		return errors.Join(librarytx.ErrStatementFailed, librarytx.ErrSerializationConflict, err)
	}

	return errors.Join(librarytx.ErrStatementFailed, err)
}

// commitError wraps a failed commit into the error taxonomy.
func commitError(err error) error {
	if isSerializationFailure(err) {
		return errors.Join(librarytx.ErrCommitFailed, librarytx.ErrSerializationConflict, err)
	}

	return errors.Join(librarytx.ErrCommitFailed, err)
}

// errorType extracts a string representation of the error type for metrics labeling.
func errorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, librarytx.ErrSerializationConflict):
		return errorTypeSerializationConflict
	case errors.Is(err, context.Canceled):
		return errorTypeContextCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return errorTypeDeadlineExceeded
	case errors.Is(err, librarytx.ErrEmptyBookTitle), errors.Is(err, librarytx.ErrEmptyReaderEmail):
		return errorTypeValidation
	case errors.Is(err, librarytx.ErrBuildingQueryFailed):
		return errorTypeBuildQuery
	case errors.Is(err, librarytx.ErrConnectivity):
		return errorTypeConnectivity
	case errors.Is(err, librarytx.ErrRollbackFailed):
		return errorTypeRollback
	case errors.Is(err, librarytx.ErrCommitFailed):
		return errorTypeCommit
	case errors.Is(err, librarytx.ErrStatementFailed), errors.Is(err, librarytx.ErrUnexpectedRowCount):
		return errorTypeStatement
	default:
		return errorTypeOther
	}
}
