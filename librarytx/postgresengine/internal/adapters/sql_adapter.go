package adapters

import (
	"context"
	"database/sql"

	"github.com/AntonStoeckl/library-transactions-go/librarytx"
)

// SQLAdapter implements DBAdapter for sql.DB
type SQLAdapter struct {
	db *sql.DB
}

// NewSQLAdapter creates a new SQL adapter
func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (s *SQLAdapter) Begin(ctx context.Context, isolationLevel librarytx.IsolationLevel) (DBTx, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sqlIsolationLevel(isolationLevel)})
	if err != nil {
		return nil, err
	}

	return &stdTx{tx: tx}, nil
}
