// Package shell provides the caller-side infrastructure for the library transactions example.
//
// The librarytx engines never retry. A transaction that PostgreSQL aborted to keep it serializable
// returns an error matching librarytx.ErrSerializationConflict, and the caller decides what to do.
// This package offers RetryWithExponentialBackoff for callers that want to retry such conflicts.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'infrastructure' layer.
package shell
