// Package adapters provide database adapter implementations for the PostgreSQL transaction engine.
//
// This package implements the adapter pattern to support multiple PostgreSQL database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters begin a transaction at a requested isolation level
// and expose it through the common DBTx interface, so the engine runs the same statements
// regardless of the connection type.
//
// Beginning a transaction acquires a pooled connection; committing or rolling back releases it.
package adapters
