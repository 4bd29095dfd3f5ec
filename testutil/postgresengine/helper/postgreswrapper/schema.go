package postgreswrapper

// RejectingLoanItemTableName is a loan item table whose check constraint rejects every row.
// Tests use it to make the last statement of a loan fail.
const RejectingLoanItemTableName = "loanitem_rejecting"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS reader (
		email     text PRIMARY KEY,
		firstname text NOT NULL,
		lastname  text NOT NULL,
		phone     text,
		address   text
	)`,
	`CREATE TABLE IF NOT EXISTS book (
		id               bigserial PRIMARY KEY,
		title            text NOT NULL,
		available_copies integer NOT NULL DEFAULT 1,
		CONSTRAINT book_available_copies_non_negative CHECK (available_copies >= 0)
	)`,
	`CREATE INDEX IF NOT EXISTS book_title_idx ON book (title)`,
	`CREATE TABLE IF NOT EXISTS loan (
		loanname   text PRIMARY KEY,
		loaninfo   text NOT NULL,
		loandate   date NOT NULL,
		firstname  text NOT NULL,
		lastname   text NOT NULL,
		email      text NOT NULL REFERENCES reader (email),
		returndate date NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loanitem (
		loanname text NOT NULL REFERENCES loan (loanname),
		title    text NOT NULL,
		duedate  date NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS loanitem_rejecting (
		loanname text NOT NULL,
		title    text NOT NULL,
		duedate  date NOT NULL,
		CONSTRAINT loanitem_rejecting_all CHECK (false)
	)`,
}

const truncateStatement = `TRUNCATE TABLE loanitem, loanitem_rejecting, loan, book, reader RESTART IDENTITY`
