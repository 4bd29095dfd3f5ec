// Package config provides PostgreSQL connection configuration for the library transactions example.
//
// PostgresConfig is an explicit configuration object. It can be filled from environment variables
// with FromEnv, and it creates connection pools for the three supported drivers
// (pgx.Pool, sql.DB via lib/pq, sqlx.DB via lib/pq).
//
// The engines in librarytx never read credentials themselves, they only receive a pool.
package config
