package main

import (
	"context"
	"log/slog"

	"github.com/AntonStoeckl/library-transactions-go/example/shared/shell/config"
	"github.com/AntonStoeckl/library-transactions-go/librarytx"
	"github.com/AntonStoeckl/library-transactions-go/librarytx/postgresengine"
)

func engineOptions(cfg demoConfig, logger *slog.Logger, obs *observability) []postgresengine.Option {
	options := []postgresengine.Option{postgresengine.WithLogger(logger)}

	if cfg.BookLocking {
		options = append(options, postgresengine.WithBookLocking())
	}

	if cfg.AvailabilityCounter != "" {
		options = append(options, postgresengine.WithAvailabilityCounter(cfg.AvailabilityCounter))
	}

	if cfg.UniqueLoanKeys {
		options = append(options, postgresengine.WithLoanKeyStrategy(librarytx.UniqueLoanKeys))
	}

	if obs.metricsCollector != nil {
		options = append(options, postgresengine.WithMetrics(obs.metricsCollector))
	}

	if obs.tracingCollector != nil {
		options = append(options, postgresengine.WithTracing(obs.tracingCollector))
	}

	if obs.contextualLogger != nil {
		options = append(options, postgresengine.WithContextualLogger(obs.contextualLogger))
	}

	return options
}

// openEngine opens the pool for the configured driver. The returned func closes it.
func openEngine(
	ctx context.Context,
	cfg demoConfig,
	dbConfig config.PostgresConfig,
	options ...postgresengine.Option,
) (postgresengine.Engine, func(), error) {

	switch cfg.Driver {
	case driverSQLDB:
		db, err := dbConfig.OpenSQLDB(ctx)
		if err != nil {
			return postgresengine.Engine{}, nil, err
		}

		engine, err := postgresengine.NewEngineFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return postgresengine.Engine{}, nil, err
		}

		return engine, func() { _ = db.Close() }, nil

	case driverSQLX:
		db, err := dbConfig.OpenSQLX(ctx)
		if err != nil {
			return postgresengine.Engine{}, nil, err
		}

		engine, err := postgresengine.NewEngineFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return postgresengine.Engine{}, nil, err
		}

		return engine, func() { _ = db.Close() }, nil

	default:
		pool, err := dbConfig.OpenPGXPool(ctx)
		if err != nil {
			return postgresengine.Engine{}, nil, err
		}

		engine, err := postgresengine.NewEngineFromPGXPool(pool, options...)
		if err != nil {
			pool.Close()
			return postgresengine.Engine{}, nil, err
		}

		return engine, pool.Close, nil
	}
}
