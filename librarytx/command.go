package librarytx

import (
	"strings"
)

const (
	commandTypeLoan         = "ExecuteLoan"
	commandTypeReaderUpdate = "ExecuteReaderUpdate"
)

// LoanCommand represents the intent to lend a book to a reader.
type LoanCommand struct {
	ReaderEmail string
	FirstName   string
	LastName    string
	BookTitle   string
}

// BuildLoanCommand creates a new LoanCommand with the provided parameters.
func BuildLoanCommand(readerEmail, firstName, lastName, bookTitle string) LoanCommand {
	return LoanCommand{
		ReaderEmail: readerEmail,
		FirstName:   firstName,
		LastName:    lastName,
		BookTitle:   bookTitle,
	}
}

// CommandType returns the type identifier for this command, used for observability.
func (c LoanCommand) CommandType() string {
	return commandTypeLoan
}

// Validate checks the command before any connection is acquired.
// The book title is matched exactly, so only emptiness is rejected.
func (c LoanCommand) Validate() error {
	if c.BookTitle == "" {
		return ErrEmptyBookTitle
	}

	if strings.TrimSpace(c.ReaderEmail) == "" {
		return ErrEmptyReaderEmail
	}

	return nil
}

// ReaderUpdateCommand represents the intent to replace a reader's phone and address.
type ReaderUpdateCommand struct {
	ReaderEmail string
	NewPhone    string
	NewAddress  string
}

// BuildReaderUpdateCommand creates a new ReaderUpdateCommand with the provided parameters.
func BuildReaderUpdateCommand(readerEmail, newPhone, newAddress string) ReaderUpdateCommand {
	return ReaderUpdateCommand{
		ReaderEmail: readerEmail,
		NewPhone:    newPhone,
		NewAddress:  newAddress,
	}
}

// CommandType returns the type identifier for this command, used for observability.
func (c ReaderUpdateCommand) CommandType() string {
	return commandTypeReaderUpdate
}

// Validate checks the command before any connection is acquired.
func (c ReaderUpdateCommand) Validate() error {
	if strings.TrimSpace(c.ReaderEmail) == "" {
		return ErrEmptyReaderEmail
	}

	return nil
}
