package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

// pqPkg provides the array parameter wrapper of get_by_any lookups.
const pqPkg = "github.com/lib/pq"

// genLookups generates the declared getters of a table.
func genLookups(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema) {
	for _, l := range t.Lookups() {
		genLookup(h, f, t, l)
	}
}

func genLookup(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema, l *gen.Lookup) {
	name := l.GoName(t.Entity)
	col := l.Field.Column
	var (
		result = jen.Op("*").Id(t.Entity)
		helper = "QueryOne"
		by     = jen.Id("by")
	)
	switch l.Kind {
	case gen.LookupOne:
		f.Commentf("%s returns the %s whose %s equals by. It fails unless exactly one row matches.", name, t.Entity, col)
	case gen.LookupOptional:
		helper = "QueryOptional"
		f.Commentf("%s returns the %s whose %s equals by, or nil when no row matches.", name, t.Entity, col)
	case gen.LookupMany:
		helper, result = "QueryMany", jen.Index().Op("*").Id(t.Entity)
		f.Commentf("%s returns every %s whose %s equals by.", name, t.Entity, col)
	case gen.LookupAny:
		helper, result = "QueryMany", jen.Index().Op("*").Id(t.Entity)
		by = jen.Qual(pqPkg, "Array").Call(jen.Id("by"))
		f.Commentf("%s returns every %s whose %s is one of by.", name, t.Entity, col)
	}
	f.Func().Id(name).Params(ctxParam(), dbParam(h), jen.Id("by").Add(h.GoType(l.ArgType, t.Imports))).
		Params(result, jen.Error()).Block(
		jen.Return(rt(h, helper).Call(
			jen.Id("ctx"), jen.Id("db"), jen.Lit(t.Entity), rt(h, "OpGet"),
			jen.Id(lookupStmtName(t, l)), args(by), jen.Id(scanName(t)),
		)),
	)
}
