package dialect

import (
	"context"
	"database/sql/driver"
)

// Dialect names for supported backends.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier wraps the two database operations used by generated code.
// The args and v parameters are dialect specific; for SQL backends args is
// []any and v is *sql.Result (Exec) or *sql.Rows (Query).
type ExecQuerier interface {
	// Exec executes a statement that does not return rows.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement that returns rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all necessary operations for a database connection.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(ctx context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in a transaction.
type Tx interface {
	ExecQuerier
	driver.Tx
}

// nopTx wraps an ExecQuerier that is already part of a transaction.
type nopTx struct {
	ExecQuerier
}

// Commit is a no-op; the enclosing transaction owns the commit.
func (nopTx) Commit() error { return nil }

// Rollback is a no-op; the enclosing transaction owns the rollback.
func (nopTx) Rollback() error { return nil }

// NopTx returns a Tx whose Commit and Rollback do nothing. It is used to run a
// multi-statement operation inside a transaction the caller already opened.
func NopTx(eq ExecQuerier) Tx {
	return nopTx{eq}
}
