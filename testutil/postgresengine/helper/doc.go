// Package helper provides testing utilities for the library transactions.
//
// It contains spies for the observability interfaces (a slog.Handler capturing log records,
// a metrics collector, and a tracing collector), plus helpers for unique test data.
package helper
