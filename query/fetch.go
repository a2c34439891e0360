package query

import (
	"context"
	"iter"

	"github.com/syssam/tablegen"
	"github.com/syssam/tablegen/dialect"
)

// Fetch returns a lazy sequence over the rows of the branch selected for
// params. The branch is selected when Fetch is called; every range over the
// sequence opens a new cursor.
func Fetch[P, T any](ctx context.Context, db dialect.ExecQuerier, p *Plan[P], params P, scan tablegen.ScanFunc[T]) iter.Seq2[*T, error] {
	stmt, args := p.Bind(params)
	return tablegen.Stream(ctx, db, p.Name, tablegen.OpQuery, stmt, args, scan)
}

// FetchAll runs the branch selected for params and collects every row.
func FetchAll[P, T any](ctx context.Context, db dialect.ExecQuerier, p *Plan[P], params P, scan tablegen.ScanFunc[T]) ([]*T, error) {
	stmt, args := p.Bind(params)
	return tablegen.QueryMany(ctx, db, p.Name, tablegen.OpQuery, stmt, args, scan)
}

// FetchOne runs the branch selected for params and returns its only row.
func FetchOne[P, T any](ctx context.Context, db dialect.ExecQuerier, p *Plan[P], params P, scan tablegen.ScanFunc[T]) (*T, error) {
	stmt, args := p.Bind(params)
	return tablegen.QueryOne(ctx, db, p.Name, tablegen.OpQuery, stmt, args, scan)
}

// FetchOptional is like FetchOne but returns nil when no row matches.
func FetchOptional[P, T any](ctx context.Context, db dialect.ExecQuerier, p *Plan[P], params P, scan tablegen.ScanFunc[T]) (*T, error) {
	stmt, args := p.Bind(params)
	return tablegen.QueryOptional(ctx, db, p.Name, tablegen.OpQuery, stmt, args, scan)
}

// Exec runs the branch selected for params as a statement that returns no
// rows and reports the number of affected rows.
func Exec[P any](ctx context.Context, db dialect.ExecQuerier, p *Plan[P], params P) (int64, error) {
	stmt, args := p.Bind(params)
	return tablegen.Exec(ctx, db, p.Name, tablegen.OpQuery, stmt, args)
}
