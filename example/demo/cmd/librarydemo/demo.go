package main

import (
	"context"
	"errors"
	"sync"

	"github.com/AntonStoeckl/library-transactions-go/example/shared/shell"
	"github.com/AntonStoeckl/library-transactions-go/librarytx"
)

// transactionEngine is the part of postgresengine.Engine the demo needs.
type transactionEngine interface {
	ExecuteLoan(ctx context.Context, command librarytx.LoanCommand) (librarytx.LoanResult, error)
	ExecuteReaderUpdate(ctx context.Context, command librarytx.ReaderUpdateCommand) (librarytx.ReaderUpdateResult, error)
}

type demo struct {
	engine           transactionEngine
	cfg              demoConfig
	metricsCollector librarytx.MetricsCollector
}

func newDemo(engine transactionEngine, cfg demoConfig, metricsCollector librarytx.MetricsCollector) demo {
	return demo{engine: engine, cfg: cfg, metricsCollector: metricsCollector}
}

// lendConcurrently runs cfg.Concurrency loan transactions for the same title at once.
// Business rejections are results, failures are joined into the returned error.
func (d demo) lendConcurrently(ctx context.Context) ([]librarytx.LoanResult, error) {
	command := librarytx.BuildLoanCommand(d.cfg.Email, d.cfg.FirstName, d.cfg.LastName, d.cfg.Title)

	results := make([]librarytx.LoanResult, d.cfg.Concurrency)
	errs := make([]error, d.cfg.Concurrency)

	var wg sync.WaitGroup
	for i := 0; i < d.cfg.Concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = d.engine.ExecuteLoan(ctx, command)
		}(i)
	}
	wg.Wait()

	return results, errors.Join(errs...)
}

// updateReader replaces the reader's contact data, optionally retrying serialization conflicts.
func (d demo) updateReader(ctx context.Context) (librarytx.ReaderUpdateResult, error) {
	command := librarytx.BuildReaderUpdateCommand(d.cfg.Email, d.cfg.NewPhone, d.cfg.NewAddress)

	if !d.cfg.Retry {
		return d.engine.ExecuteReaderUpdate(ctx, command)
	}

	var options []shell.RetryOption
	if d.metricsCollector != nil {
		options = append(options, shell.WithMetrics(d.metricsCollector, command.CommandType()))
	}

	var result librarytx.ReaderUpdateResult
	_, err := shell.RetryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			var execErr error
			result, execErr = d.engine.ExecuteReaderUpdate(ctx, command)

			return execErr
		},
		options...,
	)

	return result, err
}
