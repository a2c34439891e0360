package tablegen

import (
	"context"
	"database/sql"
	"errors"
	"iter"

	"github.com/syssam/tablegen/dialect"
	sqldriver "github.com/syssam/tablegen/dialect/sql"
)

// ScanFunc materializes one row into a new entity value. Generated code
// emits one per table, scanning columns in projection order.
type ScanFunc[T any] func(sqldriver.ColumnScanner) (*T, error)

// Op names used in wrapped errors.
const (
	OpGet      = "get"
	OpAll      = "all"
	OpStream   = "stream"
	OpPaginate = "paginate"
	OpReload   = "reload"
	OpInsert   = "insert"
	OpUpdate   = "update"
	OpPatch    = "patch"
	OpDelete   = "delete"
	OpQuery    = "query"
)

func query(ctx context.Context, db dialect.ExecQuerier, label, op, stmt string, args []any) (*sqldriver.Rows, error) {
	if args == nil {
		args = []any{}
	}
	rows := &sqldriver.Rows{}
	if err := db.Query(ctx, stmt, args, rows); err != nil {
		return nil, NewQueryError(label, op, err)
	}
	return rows, nil
}

// QueryOne runs stmt and returns the single row it yields. Zero rows is a
// NotFoundError, more than one a NotSingularError.
func QueryOne[T any](ctx context.Context, db dialect.ExecQuerier, label, op, stmt string, args []any, scan ScanFunc[T]) (*T, error) {
	v, err := QueryOptional(ctx, db, label, op, stmt, args, scan)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, NewNotFoundError(label)
	}
	return v, nil
}

// QueryOptional runs stmt and returns the row it yields, or nil when there
// is none. More than one row is a NotSingularError.
func QueryOptional[T any](ctx context.Context, db dialect.ExecQuerier, label, op, stmt string, args []any, scan ScanFunc[T]) (_ *T, err error) {
	rows, err := query(ctx, db, label, op, stmt, args)
	if err != nil {
		return nil, err
	}
	defer func() { err = errors.Join(err, rows.Close()) }()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, NewQueryError(label, op, err)
		}
		return nil, nil
	}
	v, err := scan(rows)
	if err != nil {
		return nil, NewDecodeError(label, err)
	}
	if rows.Next() {
		return nil, NewNotSingularError(label)
	}
	if err := rows.Err(); err != nil {
		return nil, NewQueryError(label, op, err)
	}
	return v, nil
}

// QueryMany runs stmt and collects every row.
func QueryMany[T any](ctx context.Context, db dialect.ExecQuerier, label, op, stmt string, args []any, scan ScanFunc[T]) ([]*T, error) {
	return Collect(Stream(ctx, db, label, op, stmt, args, scan))
}

// Stream returns a lazy sequence over the rows of stmt. Each range opens a
// new cursor and closes it when iteration stops, early or not. A failure is
// yielded once as the final element.
func Stream[T any](ctx context.Context, db dialect.ExecQuerier, label, op, stmt string, args []any, scan ScanFunc[T]) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		rows, err := query(ctx, db, label, op, stmt, args)
		if err != nil {
			yield(nil, err)
			return
		}
		defer rows.Close()
		for rows.Next() {
			v, err := scan(rows)
			if err != nil {
				yield(nil, NewDecodeError(label, err))
				return
			}
			if !yield(v, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, NewQueryError(label, op, err))
		}
	}
}

// Collect drains seq into a slice, stopping at the first error.
func Collect[T any](seq iter.Seq2[*T, error]) ([]*T, error) {
	var out []*T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Exec runs a statement that returns no rows and reports the number of
// rows it affected.
func Exec(ctx context.Context, db dialect.ExecQuerier, label, op, stmt string, args []any) (int64, error) {
	if args == nil {
		args = []any{}
	}
	var res sql.Result
	if err := db.Exec(ctx, stmt, args, &res); err != nil {
		return 0, NewMutationError(label, op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, NewMutationError(label, op, err)
	}
	return n, nil
}

// ExecOne is Exec for statements keyed by identifier. Zero affected rows is
// a NotFoundError carrying id.
func ExecOne(ctx context.Context, db dialect.ExecQuerier, label, op, stmt string, args []any, id any) error {
	n, err := Exec(ctx, db, label, op, stmt, args)
	if err != nil {
		return err
	}
	if n == 0 {
		return NewNotFoundErrorWithID(label, id)
	}
	return nil
}
