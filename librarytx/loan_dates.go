package librarytx

import (
	"time"
)

const (
	loanPeriodMonths = 1
	dueAfterDays     = 14
)

// LoanDates holds the calendar dates of a new loan.
type LoanDates struct {
	LoanDate   time.Time
	ReturnDate time.Time
	DueDate    time.Time
}

// CalculateLoanDates derives the loan dates from the current time.
// The loan date is the calendar date of now in now's location,
// the return date is one month later and the due date two weeks later.
// A loan on a day the next month does not have returns on that month's last day, so Jan 31 returns on Feb 28.
func CalculateLoanDates(now time.Time) LoanDates {
	year, month, day := now.Date()
	loanDate := time.Date(year, month, day, 0, 0, 0, 0, now.Location())

	return LoanDates{
		LoanDate:   loanDate,
		ReturnDate: addMonthsClamped(loanDate, loanPeriodMonths),
		DueDate:    loanDate.AddDate(0, 0, dueAfterDays),
	}
}

// addMonthsClamped adds months to a date without overflowing into the following month.
func addMonthsClamped(date time.Time, months int) time.Time {
	year, month, day := date.Date()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, date.Location())
	lastDayOfTarget := firstOfTarget.AddDate(0, 1, -1).Day()

	if day > lastDayOfTarget {
		day = lastDayOfTarget
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, date.Location())
}
