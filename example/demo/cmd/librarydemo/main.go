// Package main runs the library transactions against a PostgreSQL database:
// it lends a book to a reader and then replaces the reader's phone and address.
//
// Connection settings come from the LIBRARY_DB_* environment variables, everything else from flags:
//
//	go run ./example/demo/cmd/librarydemo -title "1984" -driver sqlx.db -retry -observability-enabled
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-transactions-go/example/shared/shell/config"
)

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err = run(ctx, cfg, logger); err != nil {
		logger.Error("library demo failed", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg demoConfig, logger *slog.Logger) error {
	dbConfig, err := config.FromEnv()
	if err != nil {
		return err
	}

	obs := newObservability(cfg.ObservabilityEnabled)
	defer obs.shutdown(context.WithoutCancel(ctx), logger)

	engine, closeDB, err := openEngine(ctx, cfg, dbConfig, engineOptions(cfg, logger, obs)...)
	if err != nil {
		return err
	}
	defer closeDB()

	logger.Info("connected", "driver", cfg.Driver, "host", dbConfig.Host, "database", dbConfig.Database)

	demo := newDemo(engine, cfg, obs.metricsCollector)

	loanResults, err := demo.lendConcurrently(ctx)
	if err != nil {
		return err
	}

	for _, result := range loanResults {
		if printErr := printJSON(result); printErr != nil {
			return printErr
		}
	}

	updateResult, err := demo.updateReader(ctx)
	if err != nil {
		return err
	}

	return printJSON(updateResult)
}

func printJSON(v any) error {
	out, err := jsoniter.ConfigFastest.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(os.Stdout, string(out))

	return err
}
