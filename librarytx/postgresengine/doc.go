// Package postgresengine provides a PostgreSQL implementation of the library transactions.
//
// The Engine runs two units of work against the library schema (reader, book, loan, loanitem),
// supporting multiple database adapters (pgx, sql.DB, sqlx) with explicit commit and rollback:
//
//   - ExecuteLoan checks book availability, inserts the Loan row selected from the reader, and
//     inserts the LoanItem row, all-or-nothing, at a configurable isolation level.
//   - ExecuteReaderUpdate reads the reader row with FOR UPDATE and replaces phone and address
//     under SERIALIZABLE isolation.
//
// Key features:
//   - Multiple database adapter support (PGX, SQL, SQLX)
//   - Scoped connection use: every exit path commits or rolls back, which releases the connection
//   - Business rejections (book unavailable, reader not found) reported through the result
//   - Serialization conflicts detectable with errors.Is(err, librarytx.ErrSerializationConflict)
//   - Optional book row locking or an atomically decremented availability counter
//   - Configurable table names, loan key strategy, clock, logging, metrics, and tracing
//
// Usage examples:
//
//	// Basic usage
//	pool, _ := pgxpool.New(context.Background(), dsn)
//	engine, _ := postgresengine.NewEngineFromPGXPool(pool)
//
//	// Race-free availability with a counter column and unique loan names
//	engine, _ := postgresengine.NewEngineFromPGXPool(
//		pool,
//		postgresengine.WithAvailabilityCounter("availablecopies"),
//		postgresengine.WithLoanKeyStrategy(librarytx.UniqueLoanKeys),
//		postgresengine.WithLogger(slog.Default()),
//	)
//
//	result, err := engine.ExecuteLoan(ctx, librarytx.BuildLoanCommand(email, "Barry", "Benson", "1984"))
//	update, err := engine.ExecuteReaderUpdate(ctx, librarytx.BuildReaderUpdateCommand(email, phone, address))
package postgresengine
