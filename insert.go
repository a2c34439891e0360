package tablegen

import (
	"context"
	"database/sql"
	"errors"

	"github.com/syssam/tablegen/dialect"
	sqldriver "github.com/syssam/tablegen/dialect/sql"
)

// InsertReturning runs an INSERT ... RETURNING statement and scans the
// returned row into dest, identifier first.
func InsertReturning(ctx context.Context, db dialect.ExecQuerier, label, stmt string, args []any, dest ...any) error {
	if args == nil {
		args = []any{}
	}
	rows := &sqldriver.Rows{}
	if err := db.Query(ctx, stmt, args, rows); err != nil {
		return NewMutationError(label, OpInsert, err)
	}
	if err := sqldriver.ScanOne(rows, dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewMutationError(label, OpInsert, errors.New("insert returned no row"))
		}
		return NewDecodeError(label, err)
	}
	return nil
}

// LastIDInsert describes an insert on a backend without RETURNING: the
// INSERT itself, the statement reading the generated identifier and the
// optional statement reading database defaults back by that identifier.
type LastIDInsert struct {
	Insert      string
	Args        []any
	LastID      string
	ID          any   // Pointer receiving the identifier.
	Defaults    string // Empty when the table has no default columns.
	DefaultDest []any
}

// InsertLastID runs the statements of in inside one transaction so that the
// identifier read back belongs to the row just inserted.
func InsertLastID(ctx context.Context, db dialect.ExecQuerier, label string, in LastIDInsert) error {
	return WithTx(ctx, db, func(tx dialect.ExecQuerier) error {
		args := in.Args
		if args == nil {
			args = []any{}
		}
		if err := tx.Exec(ctx, in.Insert, args, nil); err != nil {
			return NewMutationError(label, OpInsert, err)
		}
		if err := scanRow(ctx, tx, label, in.LastID, nil, in.ID); err != nil {
			return err
		}
		if in.Defaults == "" {
			return nil
		}
		return scanRow(ctx, tx, label, in.Defaults, []any{in.ID}, in.DefaultDest...)
	})
}

func scanRow(ctx context.Context, db dialect.ExecQuerier, label, stmt string, args []any, dest ...any) error {
	if args == nil {
		args = []any{}
	}
	rows := &sqldriver.Rows{}
	if err := db.Query(ctx, stmt, args, rows); err != nil {
		return NewMutationError(label, OpInsert, err)
	}
	if err := sqldriver.ScanOne(rows, dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return NewNotFoundError(label)
		}
		return NewDecodeError(label, err)
	}
	return nil
}
