package config

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

const driverNamePostgres = "postgres"

// PGXPoolConfig creates a pgxpool.Config with the configured pool sizing.
func (c PostgresConfig) PGXPoolConfig() (*pgxpool.Config, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	dbConfig, err := pgxpool.ParseConfig(c.DSN())
	if err != nil {
		return nil, err
	}

	dbConfig.MaxConns = c.MaxConnections
	dbConfig.MinConns = c.MinConnections
	dbConfig.MaxConnLifetime = c.MaxConnLifetime
	dbConfig.MaxConnIdleTime = c.MaxConnIdleTime
	dbConfig.HealthCheckPeriod = c.HealthCheckPeriod
	dbConfig.ConnConfig.ConnectTimeout = c.ConnectTimeout

	return dbConfig, nil
}

// OpenPGXPool creates a pgx pool and pings the database.
func (c PostgresConfig) OpenPGXPool(ctx context.Context) (*pgxpool.Pool, error) {
	dbConfig, err := c.PGXPoolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, err
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()
		return nil, pingErr
	}

	return pool, nil
}

// OpenSQLDB creates a *sql.DB using lib/pq and pings the database.
func (c PostgresConfig) OpenSQLDB(ctx context.Context) (*sql.DB, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	db, err := sql.Open(driverNamePostgres, c.DSN())
	if err != nil {
		return nil, err
	}

	c.configureSQLPool(db)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, errors.Join(pingErr, db.Close())
	}

	return db, nil
}

// OpenSQLX creates a *sqlx.DB using lib/pq and pings the database.
func (c PostgresConfig) OpenSQLX(ctx context.Context) (*sqlx.DB, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driverNamePostgres, c.DSN())
	if err != nil {
		return nil, err
	}

	c.configureSQLPool(db.DB)

	if pingErr := db.PingContext(ctx); pingErr != nil {
		return nil, errors.Join(pingErr, db.Close())
	}

	return db, nil
}

func (c PostgresConfig) configureSQLPool(db *sql.DB) {
	db.SetMaxOpenConns(int(c.MaxConnections))
	db.SetMaxIdleConns(int(c.MinConnections))
	db.SetConnMaxLifetime(c.MaxConnLifetime)
	db.SetConnMaxIdleTime(c.MaxConnIdleTime)
}
