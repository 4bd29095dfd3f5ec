package helper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// GivenUniqueEmail returns a reader email that no other test uses.
func GivenUniqueEmail(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return "reader-" + id.String() + "@example.org"
}

// GivenUniqueTitle returns a book title that no other test uses.
func GivenUniqueTitle(t testing.TB) string {
	id, err := uuid.NewV7()
	assert.NoError(t, err, "error in arranging test data")

	return "Book " + id.String()
}

// FixedClock returns a clock that always returns the given time.
func FixedClock(now time.Time) func() time.Time {
	return func() time.Time {
		return now
	}
}
