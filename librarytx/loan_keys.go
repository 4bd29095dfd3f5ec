package librarytx

import (
	"github.com/google/uuid"
)

const (
	loanNameInfix = "_loaned_books_"
	loanInfoInfix = "_loan_"
	loanSequence  = "2"
)

// LoanKeys holds the derived identifiers of a Loan row.
type LoanKeys struct {
	LoanName string
	LoanInfo string
}

// LoanKeyStrategy derives the LoanName and LoanInfo of a new loan from the reader's name.
type LoanKeyStrategy func(firstName, lastName string) (LoanKeys, error)

// DeterministicLoanKeys derives the keys by name concatenation, e.g. "BarryBenson_loaned_books_2".
// Two readers with the same name get the same LoanName.
func DeterministicLoanKeys(firstName, lastName string) (LoanKeys, error) {
	loaner := firstName + lastName

	return LoanKeys{
		LoanName: loaner + loanNameInfix + loanSequence,
		LoanInfo: loaner + loanInfoInfix + loanSequence,
	}, nil
}

// UniqueLoanKeys derives the keys with a UUIDv7 surrogate suffix, so every loan gets its own identity.
func UniqueLoanKeys(firstName, lastName string) (LoanKeys, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return LoanKeys{}, err
	}

	loaner := firstName + lastName

	return LoanKeys{
		LoanName: loaner + loanNameInfix + id.String(),
		LoanInfo: loaner + loanInfoInfix + id.String(),
	}, nil
}
