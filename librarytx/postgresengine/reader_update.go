package postgresengine

import (
	"context"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
	"github.com/AntonStoeckl/library-transactions-go/librarytx/postgresengine/internal/adapters"
)

// ExecuteReaderUpdate replaces a reader's phone and address under SERIALIZABLE isolation.
//
// The reader row is read with FOR UPDATE, so the old values in the result are exactly the values
// the update replaced. An unknown email is a business rejection with a nil error.
// If PostgreSQL aborts the transaction to keep it serializable, the returned error matches
// librarytx.ErrSerializationConflict and the caller may retry.
func (e Engine) ExecuteReaderUpdate(
	ctx context.Context,
	command librarytx.ReaderUpdateCommand,
) (librarytx.ReaderUpdateResult, error) {

	observer, ctx := e.startObserving(ctx, operationReaderUpdate, spanNameReaderUpdate, librarytx.IsolationSerializable)

	if err := command.Validate(); err != nil {
		observer.finishError(err)
		return librarytx.NewReaderUpdateFailedResult(err), err
	}

	var result librarytx.ReaderUpdateResult

	err := e.inTransaction(ctx, librarytx.IsolationSerializable, operationReaderUpdate, func(ctx context.Context, tx adapters.DBTx) (bool, error) {
		selectQuery, selectArgs, err := e.buildSelectReaderForUpdateQuery(command.ReaderEmail)
		if err != nil {
			return false, err
		}

		var oldPhone, oldAddress *string

		found, err := e.queryOne(ctx, tx, logActionSelectReader, selectQuery, selectArgs, &oldPhone, &oldAddress)
		if err != nil {
			return false, err
		}

		if !found {
			result = librarytx.NewReaderNotFoundResult(command)
			return false, nil
		}

		updateQuery, updateArgs, err := e.buildUpdateReaderQuery(command)
		if err != nil {
			return false, err
		}

		if err = e.execExactlyOne(ctx, tx, logActionUpdateReader, updateQuery, updateArgs); err != nil {
			return false, err
		}

		result = librarytx.NewReaderUpdatedResult(command, valueOrEmpty(oldPhone), valueOrEmpty(oldAddress))

		return true, nil
	})

	if err != nil {
		observer.finishError(err)
		return librarytx.NewReaderUpdateFailedResult(err), err
	}

	observer.finishOutcome(result.Outcome)

	return result, nil
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
