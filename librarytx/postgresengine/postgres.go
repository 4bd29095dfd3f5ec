package postgresengine

import (
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
	"github.com/AntonStoeckl/library-transactions-go/librarytx/postgresengine/internal/adapters"
)

const (
	defaultReaderTableName   = "reader"
	defaultBookTableName     = "book"
	defaultLoanTableName     = "loan"
	defaultLoanItemTableName = "loanitem"
	colEmail                 = "email"
	colFirstName             = "firstname"
	colLastName              = "lastname"
	colPhone                 = "phone"
	colAddress               = "address"
	colTitle                 = "title"
	colLoanInfo              = "loaninfo"
	colLoanName              = "loanname"
	colLoanDate              = "loandate"
	colReturnDate            = "returndate"
	colDueDate               = "duedate"
)

// availabilityMode selects how ExecuteLoan decides whether a book can be lent.
type availabilityMode int

const (
	// availabilityCountRows counts the matching book rows without taking locks.
	availabilityCountRows availabilityMode = iota
	// availabilityCountLockedRows counts the matching book rows while holding FOR UPDATE locks on them.
	availabilityCountLockedRows
	// availabilityDecrementCounter decrements a counter column if it is positive.
	availabilityDecrementCounter
)

// Engine executes the library transactions against PostgreSQL.
// It leverages a database adapter and supports customizable table names, logging, metrics, and tracing.
type Engine struct {
	db                 adapters.DBAdapter
	readerTableName    string
	bookTableName      string
	loanTableName      string
	loanItemTableName  string
	loanIsolationLevel librarytx.IsolationLevel
	availability       availabilityMode
	availabilityColumn string
	loanKeys           librarytx.LoanKeyStrategy
	clock              func() time.Time
	logger             Logger
	contextualLogger   ContextualLogger
	metricsCollector   MetricsCollector
	tracingCollector   TracingCollector
}

// NewEngineFromPGXPool creates a new Engine using a pgx Pool with optional configuration.
func NewEngineFromPGXPool(db *pgxpool.Pool, options ...Option) (Engine, error) {
	if db == nil {
		return Engine{}, librarytx.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewPGXAdapter(db), options...)
}

// NewEngineFromSQLDB creates a new Engine using a sql.DB with optional configuration.
func NewEngineFromSQLDB(db *sql.DB, options ...Option) (Engine, error) {
	if db == nil {
		return Engine{}, librarytx.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLAdapter(db), options...)
}

// NewEngineFromSQLX creates a new Engine using a sqlx.DB with optional configuration.
func NewEngineFromSQLX(db *sqlx.DB, options ...Option) (Engine, error) {
	if db == nil {
		return Engine{}, librarytx.ErrNilDatabaseConnection
	}

	return newEngine(adapters.NewSQLXAdapter(db), options...)
}

func newEngine(db adapters.DBAdapter, options ...Option) (Engine, error) {
	e := Engine{
		db:                 db,
		readerTableName:    defaultReaderTableName,
		bookTableName:      defaultBookTableName,
		loanTableName:      defaultLoanTableName,
		loanItemTableName:  defaultLoanItemTableName,
		loanIsolationLevel: librarytx.IsolationReadCommitted,
		availability:       availabilityCountRows,
		loanKeys:           librarytx.DeterministicLoanKeys,
		clock:              time.Now,
	}

	for _, option := range options {
		if err := option(&e); err != nil {
			return Engine{}, err
		}
	}

	return e, nil
}

// LoanIsolationLevel returns the isolation level ExecuteLoan runs at.
func (e Engine) LoanIsolationLevel() librarytx.IsolationLevel {
	return e.loanIsolationLevel
}
