package config

import (
	"context"
	"database/sql"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	shellconfig "github.com/AntonStoeckl/library-transactions-go/example/shared/shell/config"
)

// PostgresTestConfig returns the configuration of the test database.
func PostgresTestConfig() shellconfig.PostgresConfig {
	cfg, err := shellconfig.FromEnv()
	if err != nil {
		log.Fatal("Failed to read the database config from env, error: ", err)
	}

	cfg.MaxConnections = int32(20)
	cfg.MinConnections = int32(2)

	return cfg
}

// PostgresTestDSN returns the DSN for the test database.
func PostgresTestDSN() string {
	return PostgresTestConfig().DSN()
}

// PostgresPGXPoolTestConfig creates a pgxpool.Config for the test database.
func PostgresPGXPoolTestConfig() *pgxpool.Config {
	dbConfig, err := PostgresTestConfig().PGXPoolConfig()
	if err != nil {
		log.Fatal("Failed to create a config, error: ", err)
	}

	return dbConfig
}

// PostgresSQLDBTestConfig creates a configured *sql.DB for the test database.
func PostgresSQLDBTestConfig() *sql.DB {
	db, err := PostgresTestConfig().OpenSQLDB(context.Background())
	if err != nil {
		log.Fatal("Failed to open database connection, error: ", err)
	}

	return db
}

// PostgresSQLXTestConfig creates a configured *sqlx.DB for the test database.
func PostgresSQLXTestConfig() *sqlx.DB {
	db, err := PostgresTestConfig().OpenSQLX(context.Background())
	if err != nil {
		log.Fatal("Failed to open database connection, error: ", err)
	}

	return db
}
