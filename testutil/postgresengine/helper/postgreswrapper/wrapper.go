package postgreswrapper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-transactions-go/librarytx/postgresengine"
	"github.com/AntonStoeckl/library-transactions-go/testutil/postgresengine/config"
)

// Engine type constants
const (
	typePGXPool = "pgx.pool"
	typeSQLDB   = "sql.db"
	typeSQLXDB  = "sqlx.db"
)

// Wrapper interface to abstract over different engine types
type Wrapper interface {
	GetEngine() postgresengine.Engine
	Close()
}

// PGXPoolWrapper wraps pgxpool-based testing
type PGXPoolWrapper struct {
	pool   *pgxpool.Pool
	engine postgresengine.Engine
}

func (w *PGXPoolWrapper) GetEngine() postgresengine.Engine {
	return w.engine
}

func (w *PGXPoolWrapper) Close() {
	w.pool.Close()
}

// SQLDBWrapper wraps sql.DB-based testing
type SQLDBWrapper struct {
	db     *sql.DB
	engine postgresengine.Engine
}

func (w *SQLDBWrapper) GetEngine() postgresengine.Engine {
	return w.engine
}

func (w *SQLDBWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// SQLXWrapper wraps sqlx.DB-based testing
type SQLXWrapper struct {
	db     *sqlx.DB
	engine postgresengine.Engine
}

func (w *SQLXWrapper) GetEngine() postgresengine.Engine {
	return w.engine
}

func (w *SQLXWrapper) Close() {
	_ = w.db.Close() // ignore error
}

// CreateWrapperWithTestConfig creates the appropriate wrapper based on the environment variable.
// It also makes sure the schema exists.
func CreateWrapperWithTestConfig(t testing.TB, options ...postgresengine.Option) Wrapper {
	engineTypeFromEnv := strings.ToLower(os.Getenv("ADAPTER_TYPE"))

	var wrapper Wrapper

	switch engineTypeFromEnv {
	case typePGXPool, "":
		connPool, err := pgxpool.NewWithConfig(context.Background(), config.PostgresPGXPoolTestConfig())
		require.NoError(t, err, "error connecting to DB pool in test setup")

		engine, err := postgresengine.NewEngineFromPGXPool(connPool, options...)
		require.NoError(t, err, "error creating engine")

		wrapper = &PGXPoolWrapper{pool: connPool, engine: engine}

	case typeSQLDB:
		db := config.PostgresSQLDBTestConfig()

		engine, err := postgresengine.NewEngineFromSQLDB(db, options...)
		require.NoError(t, err, "error creating engine")

		wrapper = &SQLDBWrapper{db: db, engine: engine}

	case typeSQLXDB:
		db := config.PostgresSQLXTestConfig()

		engine, err := postgresengine.NewEngineFromSQLX(db, options...)
		require.NoError(t, err, "error creating engine")

		wrapper = &SQLXWrapper{db: db, engine: engine}

	default: // neither one of the known types nor empty
		panic(fmt.Sprintf("unsupported wrapper type from env: %s", engineTypeFromEnv))
	}

	CreateSchema(t, wrapper)

	return wrapper
}

// TryCreateEngineWithOptions tries to create an engine with the given options and returns the error (for testing error cases)
func TryCreateEngineWithOptions(t testing.TB, options ...postgresengine.Option) error {
	wrapper := CreateWrapperWithTestConfig(t)
	defer wrapper.Close()

	var err error

	switch w := wrapper.(type) {
	case *PGXPoolWrapper:
		_, err = postgresengine.NewEngineFromPGXPool(w.pool, options...)

	case *SQLDBWrapper:
		_, err = postgresengine.NewEngineFromSQLDB(w.db, options...)

	case *SQLXWrapper:
		_, err = postgresengine.NewEngineFromSQLX(w.db, options...)

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", w))
	}

	return err
}

// CreateSchema creates the library tables if they do not exist yet.
func CreateSchema(t testing.TB, wrapper Wrapper) {
	for _, statement := range schemaStatements {
		execSQL(t, wrapper, statement)
	}
}

// CleanUp removes all rows from the library tables for the given wrapper
func CleanUp(t testing.TB, wrapper Wrapper) {
	execSQL(t, wrapper, truncateStatement)
}

// execSQL executes a statement for the given wrapper and returns the number of affected rows.
func execSQL(t testing.TB, wrapper Wrapper, query string, args ...any) int64 {
	var rowsAffected int64
	var err error

	switch w := wrapper.(type) {
	case *PGXPoolWrapper:
		cmdTag, execErr := w.pool.Exec(context.Background(), query, args...)
		err = execErr
		rowsAffected = cmdTag.RowsAffected()

	case *SQLDBWrapper:
		result, execErr := w.db.Exec(query, args...)
		err = execErr
		if execErr == nil {
			rowsAffected, err = result.RowsAffected()
		}

	case *SQLXWrapper:
		result, execErr := w.db.Exec(query, args...)
		err = execErr
		if execErr == nil {
			rowsAffected, err = result.RowsAffected()
		}

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", w))
	}

	assert.NoError(t, err, "error executing test SQL: "+query)

	return rowsAffected
}

// queryRow executes a query that returns exactly one row for the given wrapper and scans it into dest.
func queryRow(t testing.TB, wrapper Wrapper, query string, args []any, dest ...any) {
	var err error

	switch w := wrapper.(type) {
	case *PGXPoolWrapper:
		err = w.pool.QueryRow(context.Background(), query, args...).Scan(dest...)

	case *SQLDBWrapper:
		err = w.db.QueryRow(query, args...).Scan(dest...)

	case *SQLXWrapper:
		err = w.db.QueryRow(query, args...).Scan(dest...)

	default:
		panic(fmt.Sprintf("unsupported wrapper type: %T", w))
	}

	assert.NoError(t, err, "error querying test data: "+query)
}
