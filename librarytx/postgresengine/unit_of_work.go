package postgresengine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
	"github.com/AntonStoeckl/library-transactions-go/librarytx/postgresengine/internal/adapters"
)

// work is one unit of work. It returns commit=false for a business rejection,
// in which case the transaction is rolled back without an error.
type work func(ctx context.Context, tx adapters.DBTx) (commit bool, err error)

// inTransaction begins a transaction at the given isolation level, runs fn, and commits or rolls back.
// The transaction always ends before inTransaction returns, which releases the pooled connection.
func (e *Engine) inTransaction(
	ctx context.Context,
	isolationLevel librarytx.IsolationLevel,
	operation string,
	fn work,
) error {

	tx, beginErr := e.db.Begin(ctx, isolationLevel)
	if beginErr != nil {
		e.logError(ctx, logMsgBeginFailed, beginErr, logAttrOperation, operation, logAttrIsolationLevel, isolationLevel.String())
		return errors.Join(librarytx.ErrConnectivity, beginErr)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = e.rollback(ctx, tx)
			panic(p)
		}
	}()

	commit, workErr := fn(ctx, tx)
	if workErr != nil {
		return e.rollbackAfterFailure(ctx, tx, operation, workErr)
	}

	if !commit {
		if rollbackErr := e.rollback(ctx, tx); rollbackErr != nil {
			e.logError(ctx, logMsgRollbackFailed, rollbackErr, logAttrOperation, operation)
			return errors.Join(librarytx.ErrRollbackFailed, rollbackErr)
		}

		return nil
	}

	if commitErr := tx.Commit(ctx); commitErr != nil {
		e.logError(ctx, logMsgCommitFailed, commitErr, logAttrOperation, operation)
		return commitError(commitErr)
	}

	return nil
}

// rollbackAfterFailure rolls back after a failed statement. A rollback failure is joined to the original error.
func (e *Engine) rollbackAfterFailure(ctx context.Context, tx adapters.DBTx, operation string, workErr error) error {
	e.logError(ctx, logMsgStatementFailed, workErr, logAttrOperation, operation)

	if rollbackErr := e.rollback(ctx, tx); rollbackErr != nil {
		e.logError(ctx, logMsgRollbackFailed, rollbackErr, logAttrOperation, operation)
		return errors.Join(workErr, librarytx.ErrRollbackFailed, rollbackErr)
	}

	return workErr
}

// rollback rolls back with a context that is not canceled, so a canceled caller still releases the connection.
func (e *Engine) rollback(ctx context.Context, tx adapters.DBTx) error {
	return tx.Rollback(context.WithoutCancel(ctx))
}

// exec executes a statement and returns the number of affected rows.
func (e *Engine) exec(
	ctx context.Context,
	tx adapters.DBTx,
	action string,
	query sqlQueryString,
	args sqlArgs,
) (int64, error) {

	start := time.Now()
	result, execErr := tx.Exec(ctx, query, args...)
	e.logQueryWithDuration(ctx, query, action, time.Since(start))

	if execErr != nil {
		return 0, statementError(execErr)
	}

	rowsAffected, rowsAffectedErr := result.RowsAffected()
	if rowsAffectedErr != nil {
		return 0, errors.Join(librarytx.ErrStatementFailed, rowsAffectedErr)
	}

	return rowsAffected, nil
}

// execExactlyOne executes a statement that must affect exactly one row.
func (e *Engine) execExactlyOne(
	ctx context.Context,
	tx adapters.DBTx,
	action string,
	query sqlQueryString,
	args sqlArgs,
) error {

	rowsAffected, err := e.exec(ctx, tx, action, query, args)
	if err != nil {
		return err
	}

	if rowsAffected != 1 {
		return fmt.Errorf("%w: %s affected %d rows, expected 1", librarytx.ErrUnexpectedRowCount, action, rowsAffected)
	}

	return nil
}

// queryCount executes a query that returns a single count column.
func (e *Engine) queryCount(
	ctx context.Context,
	tx adapters.DBTx,
	action string,
	query sqlQueryString,
	args sqlArgs,
) (int64, error) {

	var count int64

	found, err := e.queryOne(ctx, tx, action, query, args, &count)
	if err != nil {
		return 0, err
	}

	if !found {
		return 0, nil
	}

	return count, nil
}

// queryOne executes a query, scans the first row into dest, and closes the rows before returning.
// It reports whether a row was found.
func (e *Engine) queryOne(
	ctx context.Context,
	tx adapters.DBTx,
	action string,
	query sqlQueryString,
	args sqlArgs,
	dest ...any,
) (bool, error) {

	start := time.Now()
	rows, queryErr := tx.Query(ctx, query, args...)
	e.logQueryWithDuration(ctx, query, action, time.Since(start))

	if queryErr != nil {
		return false, statementError(queryErr)
	}
	defer e.closeRows(ctx, rows)

	if !rows.Next() {
		if rowsErr := rows.Err(); rowsErr != nil {
			return false, statementError(rowsErr)
		}

		return false, nil
	}

	if scanErr := rows.Scan(dest...); scanErr != nil {
		return false, errors.Join(librarytx.ErrStatementFailed, scanErr)
	}

	return true, nil
}

// closeRows safely closes database rows and logs any errors.
func (e *Engine) closeRows(ctx context.Context, rows adapters.DBRows) {
	if closeErr := rows.Close(); closeErr != nil {
		e.logWarn(ctx, logMsgCloseRowsFailed, logAttrError, closeErr.Error())
	}
}
