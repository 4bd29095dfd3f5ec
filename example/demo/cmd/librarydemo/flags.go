package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"
)

const (
	driverPGXPool = "pgx.pool"
	driverSQLDB   = "sql.db"
	driverSQLX    = "sqlx.db"

	defaultEmail      = "beemovie@yahoo.com"
	defaultFirstName  = "Barry"
	defaultLastName   = "Benson"
	defaultTitle      = "1984"
	defaultNewPhone   = "+7 (999) 123-45-67"
	defaultNewAddress = "Новая ул., д. 42"

	availableCopiesColumn = "available_copies"
)

var (
	// ErrUnknownDriver is returned for a -driver value other than pgx.pool, sql.db, or sqlx.db.
	ErrUnknownDriver = errors.New("unknown driver")

	// ErrInvalidConcurrency is returned when -concurrency is smaller than 1.
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")

	// ErrConflictingAvailabilityModes is returned when -book-locking and -availability-counter are both set.
	ErrConflictingAvailabilityModes = errors.New("book locking and availability counter exclude each other")

	// ErrInvalidLogLevel is returned for a -log-level value slog cannot parse.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

type demoConfig struct {
	Email      string
	FirstName  string
	LastName   string
	Title      string
	NewPhone   string
	NewAddress string

	Driver               string
	Concurrency          int
	BookLocking          bool
	AvailabilityCounter  string
	UniqueLoanKeys       bool
	Retry                bool
	ObservabilityEnabled bool
	LogLevel             slog.Level
}

func parseFlags(args []string) (demoConfig, error) {
	var cfg demoConfig
	var logLevel string

	fs := flag.NewFlagSet("librarydemo", flag.ContinueOnError)
	fs.StringVar(&cfg.Email, "email", defaultEmail, "reader email")
	fs.StringVar(&cfg.FirstName, "first-name", defaultFirstName, "reader first name")
	fs.StringVar(&cfg.LastName, "last-name", defaultLastName, "reader last name")
	fs.StringVar(&cfg.Title, "title", defaultTitle, "title of the book to lend")
	fs.StringVar(&cfg.NewPhone, "phone", defaultNewPhone, "new phone of the reader")
	fs.StringVar(&cfg.NewAddress, "address", defaultNewAddress, "new address of the reader")
	fs.StringVar(&cfg.Driver, "driver", driverPGXPool, "database driver: pgx.pool, sql.db, or sqlx.db")
	fs.IntVar(&cfg.Concurrency, "concurrency", 1, "number of concurrent loan transactions for the same title")
	fs.BoolVar(&cfg.BookLocking, "book-locking", false, "lock the book rows and count copies minus loan items")
	fs.StringVar(&cfg.AvailabilityCounter, "availability-counter", "",
		"reserve copies by decrementing this book column, e.g. "+availableCopiesColumn)
	fs.BoolVar(&cfg.UniqueLoanKeys, "unique-loan-keys", false, "derive unique loan names instead of deterministic ones")
	fs.BoolVar(&cfg.Retry, "retry", false, "retry the reader update on serialization conflicts")
	fs.BoolVar(&cfg.ObservabilityEnabled, "observability-enabled", false, "record metrics and traces with OpenTelemetry")
	fs.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, or error")

	if err := fs.Parse(args); err != nil {
		return demoConfig{}, err
	}

	switch cfg.Driver {
	case driverPGXPool, driverSQLDB, driverSQLX:
	default:
		return demoConfig{}, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	if cfg.BookLocking && cfg.AvailabilityCounter != "" {
		return demoConfig{}, ErrConflictingAvailabilityModes
	}

	if cfg.Concurrency < 1 {
		return demoConfig{}, ErrInvalidConcurrency
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(logLevel))); err != nil {
		return demoConfig{}, errors.Join(ErrInvalidLogLevel, err)
	}

	return cfg, nil
}
