package adapters

import (
	"context"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
)

// DBAdapter defines the interface for starting units of work on a connection pool.
type DBAdapter interface {
	Begin(ctx context.Context, isolationLevel librarytx.IsolationLevel) (DBTx, error)
}

// DBTx defines the interface for statement execution inside one transaction.
// After Commit or Rollback the transaction must not be used anymore.
type DBTx interface {
	Query(ctx context.Context, query string, args ...any) (DBRows, error)
	Exec(ctx context.Context, query string, args ...any) (DBResult, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// DBRows defines the interface for query result rows.
type DBRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// DBResult defines the interface for execution results.
type DBResult interface {
	RowsAffected() (int64, error)
}
