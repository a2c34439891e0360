package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

// genInsert generates the insert value of a table and its Insert method.
// Returning-capable backends read the identifier and defaults back in the
// same statement; the others run the insert, the last-id query and the
// defaults query in one transaction.
func genInsert(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema) {
	name := t.Insertable.Name
	fields := t.InsertableFields()
	f.Commentf("%s holds the columns of a new %s. The identifier and database defaults are read back on insert.", name, t.Entity)
	f.Type().Id(name).StructFunc(func(g *jen.Group) {
		for _, fd := range fields {
			g.Id(fd.GoName).Add(fieldType(h, t, fd))
		}
	})

	r := gen.Receiver(name)
	bound := make([]jen.Code, len(fields))
	for i, fd := range fields {
		bound[i] = bind(r, fd)
	}
	readBack := append([]*gen.FieldDescriptor{t.ID}, t.DefaultFields()...)

	var body []jen.Code
	body = append(body, jen.Id("row").Op(":=").Op("&").Id(t.Entity).ValuesFunc(func(g *jen.Group) {
		for _, fd := range fields {
			g.Id(fd.GoName).Op(":").Id(r).Dot(fd.GoName)
		}
	}))
	if h.Backend().Returning {
		body = append(body, errCheck(rt(h, "InsertReturning").Call(
			append([]jen.Code{
				jen.Id("ctx"), jen.Id("db"), jen.Lit(t.Entity), jen.Id(stmtName(t.Entity, "Insert")), args(bound...),
			}, dests("row", readBack)...)...,
		), jen.Nil()))
	} else {
		in := jen.Dict{
			jen.Id("Insert"): jen.Id(stmtName(t.Entity, "Insert")),
			jen.Id("LastID"): jen.Id(stmtName(t.Entity, "LastID")),
			jen.Id("ID"):     jen.Op("&").Id("row").Dot(t.ID.GoName),
		}
		if len(bound) > 0 {
			in[jen.Id("Args")] = args(bound...)
		}
		if defaults := t.DefaultFields(); len(defaults) > 0 {
			in[jen.Id("Defaults")] = jen.Id(stmtName(t.Entity, "Defaults"))
			in[jen.Id("DefaultDest")] = jen.Index().Any().Values(dests("row", defaults)...)
		}
		body = append(body, errCheck(rt(h, "InsertLastID").Call(
			jen.Id("ctx"), jen.Id("db"), jen.Lit(t.Entity), rt(h, "LastIDInsert").Values(in),
		), jen.Nil()))
	}
	body = append(body, jen.Return(jen.Id("row"), jen.Nil()))

	f.Commentf("Insert inserts the row and returns the stored %s.", t.Entity)
	f.Func().Params(jen.Id(r).Op("*").Id(name)).Id("Insert").Params(ctxParam(), dbParam(h)).
		Params(jen.Op("*").Id(t.Entity), jen.Error()).Block(body...)
}
