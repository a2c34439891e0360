package sql

import (
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

// SQLDialect implements gen.Dialect for the SQL backends.
type SQLDialect struct {
	helper gen.GeneratorHelper
}

// NewDialect creates a SQL dialect rendering through helper.
func NewDialect(helper gen.GeneratorHelper) *SQLDialect {
	return &SQLDialect{helper: helper}
}

// Name returns the dialect name.
func (d *SQLDialect) Name() string { return "sql" }

// GenTable generates {entity}_tablegen.go.
func (d *SQLDialect) GenTable(t *gen.TableSchema) *jen.File { return genTable(d.helper, t) }

// GenPatch generates {patch}_tablegen.go.
func (d *SQLDialect) GenPatch(p *gen.PatchSchema) *jen.File { return genPatch(d.helper, p) }

var _ gen.Dialect = (*SQLDialect)(nil)

// Generate is a convenience function generating the SQL access layer of
// the graph into its target directory. It returns the files written.
//
// Example:
//
//	import "github.com/syssam/tablegen/compiler/gen/sql"
//	written, err := sql.Generate(ctx, graph)
func Generate(ctx context.Context, g *gen.Graph, cache ...*gen.Cache) ([]string, error) {
	if g.Config == nil || g.Target == "" {
		return nil, gen.NewConfigError("Target", nil, "missing target directory in config")
	}
	generator := gen.NewJenniferGenerator(g)
	generator.WithDialect(NewDialect(generator))
	if len(cache) > 0 {
		generator.WithCache(cache[0])
	}
	return generator.Generate(ctx)
}
