// Package librarytx provides the core abstractions for the two library transactions:
// lending a book to a reader and updating a reader's contact data.
//
// This package defines the commands, results, outcomes, and error definitions that are
// shared by the engine implementations, plus the pure parts of the business rules
// (loan key derivation and loan date calculation).
//
// Key types:
//   - LoanCommand / LoanResult: lend one book (availability check, Loan row, LoanItem row)
//   - ReaderUpdateCommand / ReaderUpdateResult: locked read-modify-write of a reader's phone and address
//   - Outcome: loaned, book_unavailable, reader_not_found, reader_updated, failed
//
// Business rejections (book unavailable, reader not found) are reported through the result
// with a nil error. System failures are reported with Outcome "failed" and a non-nil error
// that matches one of the sentinel errors via errors.Is.
//
// Common usage pattern:
//
//	engine, _ := postgresengine.NewEngineFromPGXPool(pool)
//
//	result, err := engine.ExecuteLoan(ctx, librarytx.BuildLoanCommand("a@x.com", "Barry", "Benson", "1984"))
//	if err != nil {
//		// connectivity or statement failure, the unit of work was rolled back
//	}
//	if !result.Success {
//		// business rejection, see result.Outcome
//	}
package librarytx
