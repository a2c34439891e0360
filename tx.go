package tablegen

import (
	"context"
	"fmt"

	"github.com/syssam/tablegen/dialect"
)

type txStarter interface {
	Tx(ctx context.Context) (dialect.Tx, error)
}

// WithTx runs fn inside a transaction. When db is already a transaction fn
// joins it. When db can start one, fn runs in a fresh transaction that is
// committed on success and rolled back on error. Any other ExecQuerier is
// handed to fn as is.
func WithTx(ctx context.Context, db dialect.ExecQuerier, fn func(dialect.ExecQuerier) error) error {
	switch db := db.(type) {
	case dialect.Tx:
		return fn(db)
	case txStarter:
		tx, err := db.Tx(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if v := recover(); v != nil {
				_ = tx.Rollback()
				panic(v)
			}
		}()
		if err := fn(tx); err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				err = fmt.Errorf("%w: %w", err, &RollbackError{Err: rerr})
			}
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("tablegen: committing transaction: %w", err)
		}
		return nil
	default:
		return fn(db)
	}
}
