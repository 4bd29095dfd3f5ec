package postgresengine

import (
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
)

const (
	dialectPostgres = "postgres"
	aliasLocked     = "locked_books"
	castText        = "?::text"
	castDate        = "?::date"
	decrementByOne  = "? - 1"
)

type (
	sqlQueryString = string
	sqlArgs        = []any
)

func (e *Engine) builder() goqu.DialectWrapper {
	return goqu.Dialect(dialectPostgres)
}

// buildCountBooksQuery counts the book rows with exactly the given title.
func (e *Engine) buildCountBooksQuery(title string) (sqlQueryString, sqlArgs, error) {
	selectStmt := e.builder().
		From(e.bookTableName).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C(colTitle).Eq(title)).
		Prepared(true)

	return toSQL(selectStmt.ToSQL())
}

// buildCountLockedBooksQuery counts the book rows with the given title and locks them until the transaction ends.
// PostgreSQL rejects FOR UPDATE together with aggregates, so the lock is taken in a sub-select.
func (e *Engine) buildCountLockedBooksQuery(title string) (sqlQueryString, sqlArgs, error) {
	builder := e.builder()

	lockStmt := builder.
		From(e.bookTableName).
		Select(goqu.L("1")).
		Where(goqu.C(colTitle).Eq(title)).
		ForUpdate(exp.Wait)

	selectStmt := builder.
		From(lockStmt.As(aliasLocked)).
		Select(goqu.COUNT(goqu.Star())).
		Prepared(true)

	return toSQL(selectStmt.ToSQL())
}

// buildCountLoanedCopiesQuery counts the loan items of the given title, which are the copies currently lent out.
func (e *Engine) buildCountLoanedCopiesQuery(title string) (sqlQueryString, sqlArgs, error) {
	selectStmt := e.builder().
		From(e.loanItemTableName).
		Select(goqu.COUNT(goqu.Star())).
		Where(goqu.C(colTitle).Eq(title)).
		Prepared(true)

	return toSQL(selectStmt.ToSQL())
}

// buildReserveBookQuery decrements the availability counter of the book if it is positive.
func (e *Engine) buildReserveBookQuery(title string) (sqlQueryString, sqlArgs, error) {
	updateStmt := e.builder().
		Update(e.bookTableName).
		Set(goqu.Record{e.availabilityColumn: goqu.L(decrementByOne, goqu.I(e.availabilityColumn))}).
		Where(
			goqu.C(colTitle).Eq(title),
			goqu.C(e.availabilityColumn).Gt(0),
		).
		Prepared(true)

	return toSQL(updateStmt.ToSQL())
}

// buildInsertLoanQuery inserts the loan with the reader's name selected by email.
// No row is inserted if no reader has this email.
func (e *Engine) buildInsertLoanQuery(
	command librarytx.LoanCommand,
	keys librarytx.LoanKeys,
	dates librarytx.LoanDates,
) (sqlQueryString, sqlArgs, error) {

	builder := e.builder()

	selectStmt := builder.
		From(e.readerTableName).
		Select(
			goqu.L(castText, keys.LoanInfo),
			goqu.L(castText, keys.LoanName),
			goqu.L(castDate, dates.LoanDate),
			goqu.C(colFirstName),
			goqu.C(colLastName),
			goqu.L(castText, command.ReaderEmail),
			goqu.L(castDate, dates.ReturnDate),
		).
		Where(goqu.C(colEmail).Eq(command.ReaderEmail))

	insertStmt := builder.
		Insert(e.loanTableName).
		Cols(colLoanInfo, colLoanName, colLoanDate, colFirstName, colLastName, colEmail, colReturnDate).
		FromQuery(selectStmt).
		Prepared(true)

	return toSQL(insertStmt.ToSQL())
}

// buildInsertLoanItemQuery inserts the item linking the loan and the book.
func (e *Engine) buildInsertLoanItemQuery(loanName, title string, dates librarytx.LoanDates) (sqlQueryString, sqlArgs, error) {
	insertStmt := e.builder().
		Insert(e.loanItemTableName).
		Cols(colLoanName, colTitle, colDueDate).
		Vals(goqu.Vals{loanName, title, goqu.L(castDate, dates.DueDate)}).
		Prepared(true)

	return toSQL(insertStmt.ToSQL())
}

// buildSelectReaderForUpdateQuery reads the reader's contact data and locks the row until the transaction ends.
func (e *Engine) buildSelectReaderForUpdateQuery(email string) (sqlQueryString, sqlArgs, error) {
	selectStmt := e.builder().
		From(e.readerTableName).
		Select(colPhone, colAddress).
		Where(goqu.C(colEmail).Eq(email)).
		ForUpdate(exp.Wait).
		Prepared(true)

	return toSQL(selectStmt.ToSQL())
}

// buildUpdateReaderQuery replaces the reader's contact data.
func (e *Engine) buildUpdateReaderQuery(command librarytx.ReaderUpdateCommand) (sqlQueryString, sqlArgs, error) {
	updateStmt := e.builder().
		Update(e.readerTableName).
		Set(goqu.Record{
			colPhone:   command.NewPhone,
			colAddress: command.NewAddress,
		}).
		Where(goqu.C(colEmail).Eq(command.ReaderEmail)).
		Prepared(true)

	return toSQL(updateStmt.ToSQL())
}

func toSQL(query string, args []any, err error) (sqlQueryString, sqlArgs, error) {
	if err != nil {
		return "", nil, errors.Join(librarytx.ErrBuildingQueryFailed, err)
	}

	return query, args, nil
}
