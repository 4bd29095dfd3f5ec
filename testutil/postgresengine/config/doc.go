// Package config provides PostgreSQL database configuration for testing the library transactions.
//
// It contains factory functions for the three supported drivers (pgx.Pool, sql.DB, sqlx.DB),
// all pointing at the test database. The LIBRARY_DB_* environment variables override the defaults.
package config
