package postgresengine

import (
	"context"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
	"github.com/AntonStoeckl/library-transactions-go/librarytx/postgresengine/internal/adapters"
)

// ExecuteLoan lends a book to a reader as one atomic unit of work.
//
// It checks that the book is available, inserts the Loan row with the reader's name copied from the
// Reader table, and inserts the LoanItem row. Either both rows are committed or none.
//
// An unavailable book or an unknown reader is a business rejection: the result has Success=false and
// the returned error is nil. Any other failure returns a result with OutcomeFailed and an error that
// wraps one of the librarytx sentinel errors.
func (e Engine) ExecuteLoan(ctx context.Context, command librarytx.LoanCommand) (librarytx.LoanResult, error) {
	observer, ctx := e.startObserving(ctx, operationLoan, spanNameLoan, e.loanIsolationLevel)

	if err := command.Validate(); err != nil {
		observer.finishError(err)
		return librarytx.NewLoanFailedResult(err), err
	}

	result := librarytx.NewBookUnavailableResult(command)

	err := e.inTransaction(ctx, e.loanIsolationLevel, operationLoan, func(ctx context.Context, tx adapters.DBTx) (bool, error) {
		available, err := e.reserveBook(ctx, tx, command.BookTitle)
		if err != nil {
			return false, err
		}

		if !available {
			result = librarytx.NewBookUnavailableResult(command)
			return false, nil
		}

		keys, err := e.loanKeys(command.FirstName, command.LastName)
		if err != nil {
			return false, err
		}

		dates := librarytx.CalculateLoanDates(e.clock())

		insertLoanQuery, insertLoanArgs, err := e.buildInsertLoanQuery(command, keys, dates)
		if err != nil {
			return false, err
		}

		insertedLoans, err := e.exec(ctx, tx, logActionInsertLoan, insertLoanQuery, insertLoanArgs)
		if err != nil {
			return false, err
		}

		if insertedLoans == 0 {
			result = librarytx.NewLoanReaderNotFoundResult(command)
			return false, nil
		}

		insertItemQuery, insertItemArgs, err := e.buildInsertLoanItemQuery(keys.LoanName, command.BookTitle, dates)
		if err != nil {
			return false, err
		}

		if err = e.execExactlyOne(ctx, tx, logActionInsertLoanItem, insertItemQuery, insertItemArgs); err != nil {
			return false, err
		}

		result = librarytx.NewLoanedResult(command, keys, dates)

		return true, nil
	})

	if err != nil {
		observer.finishError(err)
		return librarytx.NewLoanFailedResult(err), err
	}

	observer.finishOutcome(result.Outcome)

	return result, nil
}

// reserveBook decides whether the book can be lent, using the configured availability mode.
func (e Engine) reserveBook(ctx context.Context, tx adapters.DBTx, title string) (bool, error) {
	switch e.availability {
	case availabilityDecrementCounter:
		return e.decrementAvailableCopies(ctx, tx, title)

	case availabilityCountLockedRows:
		return e.countUnloanedCopies(ctx, tx, title)

	default:
		query, args, err := e.buildCountBooksQuery(title)
		if err != nil {
			return false, err
		}

		return e.countAvailableCopies(ctx, tx, title, query, args)
	}
}

func (e Engine) countAvailableCopies(
	ctx context.Context,
	tx adapters.DBTx,
	title string,
	query sqlQueryString,
	args sqlArgs,
) (bool, error) {

	count, err := e.queryCount(ctx, tx, logActionCountBooks, query, args)
	if err != nil {
		return false, err
	}

	e.recordValue(ctx, metricBookCopiesAvailable, float64(count), map[string]string{colTitle: title})

	return count > 0, nil
}

// countUnloanedCopies locks the book rows of the title, then subtracts the copies that are lent out.
// The loan items are counted in a statement of their own: under READ COMMITTED it sees every loan committed
// while this transaction waited for the lock.
func (e Engine) countUnloanedCopies(ctx context.Context, tx adapters.DBTx, title string) (bool, error) {
	lockQuery, lockArgs, err := e.buildCountLockedBooksQuery(title)
	if err != nil {
		return false, err
	}

	copies, err := e.queryCount(ctx, tx, logActionCountBooks, lockQuery, lockArgs)
	if err != nil {
		return false, err
	}

	loanedQuery, loanedArgs, err := e.buildCountLoanedCopiesQuery(title)
	if err != nil {
		return false, err
	}

	loaned, err := e.queryCount(ctx, tx, logActionCountLoanedCopies, loanedQuery, loanedArgs)
	if err != nil {
		return false, err
	}

	available := copies - loaned
	e.recordValue(ctx, metricBookCopiesAvailable, float64(available), map[string]string{colTitle: title})

	return available > 0, nil
}

// decrementAvailableCopies reserves one copy by decrementing the counter column if it is positive.
// A check constraint on the counter rejecting the update also means the book is not available.
func (e Engine) decrementAvailableCopies(ctx context.Context, tx adapters.DBTx, title string) (bool, error) {
	query, args, err := e.buildReserveBookQuery(title)
	if err != nil {
		return false, err
	}

	reserved, err := e.exec(ctx, tx, logActionReserveBook, query, args)
	if err != nil {
		if isCheckViolation(err) {
			return false, nil
		}

		return false, err
	}

	return reserved > 0, nil
}
