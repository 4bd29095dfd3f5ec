package librarytx

import (
	"fmt"
	"time"
)

// Outcome classifies how a transaction ended.
type Outcome string

const (
	OutcomeLoaned          Outcome = "loaned"
	OutcomeBookUnavailable Outcome = "book_unavailable"
	OutcomeReaderNotFound  Outcome = "reader_not_found"
	OutcomeReaderUpdated   Outcome = "reader_updated"
	OutcomeFailed          Outcome = "failed"
)

// IsBusinessRejection reports whether the outcome is an expected negative result and not a failure.
func (o Outcome) IsBusinessRejection() bool {
	return o == OutcomeBookUnavailable || o == OutcomeReaderNotFound
}

// String implements fmt.Stringer.
func (o Outcome) String() string {
	return string(o)
}

// LoanResult is the structured outcome of ExecuteLoan.
// The loan fields are only populated when Success is true.
type LoanResult struct {
	Success    bool
	Outcome    Outcome
	Message    string
	LoanName   string
	LoanInfo   string
	LoanDate   time.Time
	ReturnDate time.Time
	DueDate    time.Time
}

// NewLoanedResult builds the result of a committed loan.
func NewLoanedResult(command LoanCommand, keys LoanKeys, dates LoanDates) LoanResult {
	return LoanResult{
		Success: true,
		Outcome: OutcomeLoaned,
		Message: fmt.Sprintf(
			"book %s was lent to reader %s %s with email %s",
			command.BookTitle, command.FirstName, command.LastName, command.ReaderEmail,
		),
		LoanName:   keys.LoanName,
		LoanInfo:   keys.LoanInfo,
		LoanDate:   dates.LoanDate,
		ReturnDate: dates.ReturnDate,
		DueDate:    dates.DueDate,
	}
}

// NewBookUnavailableResult builds the business rejection for a book without available copies.
func NewBookUnavailableResult(command LoanCommand) LoanResult {
	return LoanResult{
		Outcome: OutcomeBookUnavailable,
		Message: fmt.Sprintf("book %s is not available for lending", command.BookTitle),
	}
}

// NewLoanReaderNotFoundResult builds the business rejection for a loan to an unknown reader.
func NewLoanReaderNotFoundResult(command LoanCommand) LoanResult {
	return LoanResult{
		Outcome: OutcomeReaderNotFound,
		Message: fmt.Sprintf("reader with email %s was not found", command.ReaderEmail),
	}
}

// NewLoanFailedResult builds the result of a loan that failed with a system error.
func NewLoanFailedResult(err error) LoanResult {
	return LoanResult{
		Outcome: OutcomeFailed,
		Message: "lending the book failed: " + err.Error(),
	}
}

// ReaderUpdateResult is the structured outcome of ExecuteReaderUpdate.
// OldPhone and OldAddress hold the values read under the row lock, empty for NULL.
type ReaderUpdateResult struct {
	Success    bool
	Outcome    Outcome
	Message    string
	OldPhone   string
	OldAddress string
	NewPhone   string
	NewAddress string
}

// NewReaderUpdatedResult builds the result of a committed reader update.
func NewReaderUpdatedResult(command ReaderUpdateCommand, oldPhone, oldAddress string) ReaderUpdateResult {
	return ReaderUpdateResult{
		Success: true,
		Outcome: OutcomeReaderUpdated,
		Message: fmt.Sprintf(
			"reader %s updated: phone %q -> %q, address %q -> %q",
			command.ReaderEmail, oldPhone, command.NewPhone, oldAddress, command.NewAddress,
		),
		OldPhone:   oldPhone,
		OldAddress: oldAddress,
		NewPhone:   command.NewPhone,
		NewAddress: command.NewAddress,
	}
}

// NewReaderNotFoundResult builds the business rejection for an update of an unknown reader.
func NewReaderNotFoundResult(command ReaderUpdateCommand) ReaderUpdateResult {
	return ReaderUpdateResult{
		Outcome: OutcomeReaderNotFound,
		Message: fmt.Sprintf("reader with email %s was not found", command.ReaderEmail),
	}
}

// NewReaderUpdateFailedResult builds the result of a reader update that failed with a system error.
func NewReaderUpdateFailedResult(err error) ReaderUpdateResult {
	return ReaderUpdateResult{
		Outcome: OutcomeFailed,
		Message: "updating the reader failed: " + err.Error(),
	}
}
