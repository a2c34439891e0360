package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

// genSetters generates one single-column update method per declared
// setter. The field is assigned only after the write succeeded.
func genSetters(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema) {
	r := t.Receiver()
	for _, s := range t.Setters() {
		fd := s.Field
		f.Commentf("%s updates the %s column and assigns value to %s.%s on success.", s.GoName(), fd.Column, r, fd.GoName)
		method(f, t).Id(s.GoName()).Params(ctxParam(), dbParam(h), jen.Id("value").Add(fieldType(h, t, fd))).Error().Block(
			ifErr(jen.List(jen.Id("_"), jen.Err()).Op(":=").Add(rt(h, "Exec").Call(
				jen.Id("ctx"), jen.Id("db"), jen.Lit(t.Entity), rt(h, "OpUpdate"), jen.Id(stmtName(t.Entity, s.GoName())),
				args(jen.Id("value"), jen.Id(r).Dot(t.ID.GoName)),
			))),
			jen.Id(r).Dot(fd.GoName).Op("=").Id("value"),
			jen.Return(jen.Nil()),
		)
	}
}
