package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

// genTable generates the access layer of a table ({entity}_tablegen.go).
func genTable(h gen.GeneratorHelper, t *gen.TableSchema) *jen.File {
	f := h.NewFile(h.Pkg())

	if t.EmitStruct {
		genEntity(h, f, t)
	}
	genStatements(f, TableStatements(h.Backend(), t))
	genScan(h, f, t)

	genGet(h, f, t)
	genAll(h, f, t)
	genStream(h, f, t)
	genPaginate(h, f, t)
	genReload(h, f, t)
	if len(t.FieldsExceptID()) > 0 {
		genUpdate(h, f, t)
	}
	if t.Deletable {
		genDelete(h, f, t)
	}
	genSetters(h, f, t)
	if t.Insertable != nil {
		genInsert(h, f, t)
	}
	genLookups(h, f, t)
	return f
}

// genEntity generates the entity struct of a table declared outside Go
// source.
func genEntity(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema) {
	f.Commentf("%s is a row of the %s table.", t.Entity, t.Table)
	f.Type().Id(t.Entity).StructFunc(func(g *jen.Group) {
		for _, fd := range t.Fields {
			g.Id(fd.GoName).Add(fieldType(h, t, fd))
		}
	})
}

func genStatements(f *jen.File, stmts []Statement) {
	f.Const().DefsFunc(func(g *jen.Group) {
		for _, s := range stmts {
			g.Id(s.Const).Op("=").Lit(s.SQL)
		}
	})
}

// genScan generates the function materializing one row of the table
// projection.
func genScan(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema) {
	f.Commentf("%s scans one row of the %s projection, in column order.", scanName(t), t.Table)
	f.Func().Id(scanName(t)).Params(
		jen.Id("rows").Qual(h.SQLPkg(), "ColumnScanner"),
	).Params(jen.Op("*").Id(t.Entity), jen.Error()).Block(
		jen.Id("row").Op(":=").Op("&").Id(t.Entity).Values(),
		errCheck(jen.Id("rows").Dot("Scan").Call(dests("row", t.Fields)...), jen.Nil()),
		jen.Return(jen.Id("row"), jen.Nil()),
	)
}

func queryOne(h gen.GeneratorHelper, t *gen.TableSchema, op, stmt string, bound ...jen.Code) *jen.Statement {
	return rt(h, "QueryOne").Call(
		jen.Id("ctx"), jen.Id("db"), jen.Lit(t.Entity), rt(h, op), jen.Id(stmt), args(bound...), jen.Id(scanName(t)),
	)
}

func genGet(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema) {
	name := "Get" + t.Entity
	f.Commentf("%s returns the %s identified by id.", name, t.Entity)
	f.Func().Id(name).Params(ctxParam(), dbParam(h), jen.Id("id").Add(idType(h, t))).
		Params(jen.Op("*").Id(t.Entity), jen.Error()).Block(
		jen.Return(queryOne(h, t, "OpGet", stmtName(t.Entity, "Get"), jen.Id("id"))),
	)
}

func genAll(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema) {
	name := "All" + t.Plural()
	f.Commentf("%s returns every row of the %s table.", name, t.Table)
	f.Func().Id(name).Params(ctxParam(), dbParam(h)).
		Params(jen.Index().Op("*").Id(t.Entity), jen.Error()).Block(
		jen.Return(rt(h, "Collect").Call(jen.Id("StreamAll"+t.Plural()).Call(jen.Id("ctx"), jen.Id("db")))),
	)
}

func seqType(t *gen.TableSchema) jen.Code {
	return jen.Qual("iter", "Seq2").Types(jen.Op("*").Id(t.Entity), jen.Error())
}

func genStream(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema) {
	name := "StreamAll" + t.Plural()
	f.Commentf("%s streams every row of the %s table. Each range runs the query again.", name, t.Table)
	f.Func().Id(name).Params(ctxParam(), dbParam(h)).Add(seqType(t)).Block(
		jen.Return(rt(h, "Stream").Call(
			jen.Id("ctx"), jen.Id("db"), jen.Lit(t.Entity), rt(h, "OpStream"),
			jen.Id(stmtName(t.Entity, "All")), jen.Nil(), jen.Id(scanName(t)),
		)),
	)
}

func genPaginate(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema) {
	name := "Stream" + t.Plural() + "Paginated"
	f.Commentf("%s streams at most limit rows of the %s table, skipping the first offset.", name, t.Table)
	f.Func().Id(name).Params(ctxParam(), dbParam(h), jen.List(jen.Id("offset"), jen.Id("limit")).Int64()).
		Add(seqType(t)).Block(
		jen.Return(rt(h, "Stream").Call(
			jen.Id("ctx"), jen.Id("db"), jen.Lit(t.Entity), rt(h, "OpPaginate"),
			jen.Id(stmtName(t.Entity, "Paginate")), args(jen.Id("limit"), jen.Id("offset")), jen.Id(scanName(t)),
		)),
	)
}

// method starts a method declaration of the entity in f.
func method(f *jen.File, t *gen.TableSchema) *jen.Statement {
	return f.Func().Params(jen.Id(t.Receiver()).Op("*").Id(t.Entity))
}

func genReload(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema) {
	r := t.Receiver()
	f.Commentf("Reload fetches the row of %s again and overwrites all of its fields.", r)
	method(f, t).Id("Reload").Params(ctxParam(), dbParam(h)).Error().Block(
		jen.List(jen.Id("row"), jen.Err()).Op(":=").Add(
			queryOne(h, t, "OpReload", stmtName(t.Entity, "Get"), jen.Id(r).Dot(t.ID.GoName)),
		),
		jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return(jen.Err())),
		jen.Op("*").Id(r).Op("=").Op("*").Id("row"),
		jen.Return(jen.Nil()),
	)
}

func genUpdate(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema) {
	r := t.Receiver()
	var bound []jen.Code
	for _, fd := range t.FieldsExceptID() {
		bound = append(bound, bind(r, fd))
	}
	bound = append(bound, jen.Id(r).Dot(t.ID.GoName))
	f.Comment("Update writes every column of the row, keyed by its identifier.")
	method(f, t).Id("Update").Params(ctxParam(), dbParam(h)).Error().Block(
		jen.List(jen.Id("_"), jen.Err()).Op(":=").Add(rt(h, "Exec").Call(
			jen.Id("ctx"), jen.Id("db"), jen.Lit(t.Entity), rt(h, "OpUpdate"), jen.Id(stmtName(t.Entity, "Update")), args(bound...),
		)),
		jen.Return(jen.Err()),
	)
}

func genDelete(h gen.GeneratorHelper, f *jen.File, t *gen.TableSchema) {
	name := "Delete" + t.Entity
	f.Commentf("%s deletes the %s identified by id. It fails with a not found error when no row was deleted.", name, t.Entity)
	f.Func().Id(name).Params(ctxParam(), dbParam(h), jen.Id("id").Add(idType(h, t))).Error().Block(
		jen.Return(rt(h, "ExecOne").Call(
			jen.Id("ctx"), jen.Id("db"), jen.Lit(t.Entity), rt(h, "OpDelete"),
			jen.Id(stmtName(t.Entity, "Delete")), args(jen.Id("id")), jen.Id("id"),
		)),
	)

	r := t.Receiver()
	f.Commentf("Delete deletes the row of %s.", r)
	method(f, t).Id("Delete").Params(ctxParam(), dbParam(h)).Error().Block(
		jen.Return(jen.Id(name).Call(jen.Id("ctx"), jen.Id("db"), jen.Id(r).Dot(t.ID.GoName))),
	)
}
