package postgreswrapper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// GivenReader inserts a reader with contact data.
func GivenReader(t testing.TB, wrapper Wrapper, email, firstName, lastName, phone, address string) {
	rows := execSQL(
		t,
		wrapper,
		`INSERT INTO reader (email, firstname, lastname, phone, address) VALUES ($1, $2, $3, $4, $5)`,
		email, firstName, lastName, phone, address,
	)
	assert.Equal(t, int64(1), rows, "error in arranging test data")
}

// GivenReaderWithoutContactData inserts a reader whose phone and address are NULL.
func GivenReaderWithoutContactData(t testing.TB, wrapper Wrapper, email, firstName, lastName string) {
	rows := execSQL(
		t,
		wrapper,
		`INSERT INTO reader (email, firstname, lastname) VALUES ($1, $2, $3)`,
		email, firstName, lastName,
	)
	assert.Equal(t, int64(1), rows, "error in arranging test data")
}

// GivenBookCopies inserts one book row per copy of the title.
func GivenBookCopies(t testing.TB, wrapper Wrapper, title string, copies int) {
	for i := 0; i < copies; i++ {
		execSQL(t, wrapper, `INSERT INTO book (title) VALUES ($1)`, title)
	}
}

// GivenBookWithAvailableCopies inserts one book row with the given availability counter.
func GivenBookWithAvailableCopies(t testing.TB, wrapper Wrapper, title string, availableCopies int) {
	execSQL(t, wrapper, `INSERT INTO book (title, available_copies) VALUES ($1, $2)`, title, availableCopies)
}

// CountLoansForReader counts the loan rows of a reader.
func CountLoansForReader(t testing.TB, wrapper Wrapper, email string) int {
	var count int
	queryRow(t, wrapper, `SELECT count(*) FROM loan WHERE email = $1`, []any{email}, &count)

	return count
}

// CountLoanItemsForTitle counts the loan item rows of a book title.
func CountLoanItemsForTitle(t testing.TB, wrapper Wrapper, title string) int {
	var count int
	queryRow(t, wrapper, `SELECT count(*) FROM loanitem WHERE title = $1`, []any{title}, &count)

	return count
}

// CountAllLoanRows counts all loan and loan item rows.
func CountAllLoanRows(t testing.TB, wrapper Wrapper) (loans int, loanItems int) {
	queryRow(t, wrapper, `SELECT (SELECT count(*) FROM loan), (SELECT count(*) FROM loanitem)`, nil, &loans, &loanItems)

	return loans, loanItems
}

// LoanRow is a loan joined with its loan item, as stored.
type LoanRow struct {
	LoanName   string
	LoanInfo   string
	LoanDate   time.Time
	FirstName  string
	LastName   string
	ReturnDate time.Time
	Title      string
	DueDate    time.Time
}

// GetLoanForReader reads the single loan of a reader together with its loan item.
func GetLoanForReader(t testing.TB, wrapper Wrapper, email string) LoanRow {
	var row LoanRow
	queryRow(
		t,
		wrapper,
		`SELECT l.loanname, l.loaninfo, l.loandate, l.firstname, l.lastname, l.returndate, i.title, i.duedate
		FROM loan l JOIN loanitem i ON i.loanname = l.loanname
		WHERE l.email = $1`,
		[]any{email},
		&row.LoanName, &row.LoanInfo, &row.LoanDate, &row.FirstName, &row.LastName, &row.ReturnDate, &row.Title, &row.DueDate,
	)

	return row
}

// GetReaderContactData reads the phone and address of a reader.
func GetReaderContactData(t testing.TB, wrapper Wrapper, email string) (phone string, address string) {
	queryRow(
		t,
		wrapper,
		`SELECT coalesce(phone, ''), coalesce(address, '') FROM reader WHERE email = $1`,
		[]any{email},
		&phone, &address,
	)

	return phone, address
}

// GetAvailableCopies reads the availability counter of a book title.
func GetAvailableCopies(t testing.TB, wrapper Wrapper, title string) int {
	var availableCopies int
	queryRow(t, wrapper, `SELECT available_copies FROM book WHERE title = $1`, []any{title}, &availableCopies)

	return availableCopies
}
