package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

// genPatch generates the update of a patch ({patch}_tablegen.go): PatchRow
// persisting the patch columns, ApplyTo merging them into an entity value
// and, when the patched table is part of the run, a Patch method on the
// entity doing both.
func genPatch(h gen.GeneratorHelper, p *gen.PatchSchema) *jen.File {
	f := h.NewFile(h.Pkg())
	r := p.Receiver()

	if p.EmitStruct {
		f.Commentf("%s is a partial update of the %s table.", p.Entity, p.TableName)
		f.Type().Id(p.Entity).StructFunc(func(g *jen.Group) {
			for _, pf := range p.Fields {
				g.Id(pf.GoName).Add(h.GoType(pf.Type, p.Imports))
			}
		})
	}
	genStatements(f, PatchStatements(h.Backend(), p))

	var id jen.Code = jen.Any()
	if p.Target != nil {
		id = idType(h, p.Target)
	}
	bound := make([]jen.Code, 0, len(p.Fields)+1)
	for _, pf := range p.Fields {
		if pf.ByRef {
			bound = append(bound, jen.Op("&").Id(r).Dot(pf.GoName))
		} else {
			bound = append(bound, jen.Id(r).Dot(pf.GoName))
		}
	}
	bound = append(bound, jen.Id("id"))

	f.Commentf("PatchRow writes the columns of %s to the %s row identified by id.", r, p.TableName)
	f.Func().Params(jen.Id(r).Op("*").Id(p.Entity)).Id("PatchRow").Params(ctxParam(), dbParam(h), jen.Id("id").Add(id)).Error().Block(
		jen.List(jen.Id("_"), jen.Err()).Op(":=").Add(rt(h, "Exec").Call(
			jen.Id("ctx"), jen.Id("db"), jen.Lit(p.Entity), rt(h, "OpPatch"), jen.Id(patchStmtName(p)), args(bound...),
		)),
		jen.Return(jen.Err()),
	)

	f.Commentf("ApplyTo copies the fields of %s into v.", r)
	f.Func().Params(jen.Id(r).Op("*").Id(p.Entity)).Id("ApplyTo").Params(
		jen.Id("v").Op("*").Add(h.GoType(p.TablePath, p.Imports)),
	).BlockFunc(func(g *jen.Group) {
		for _, pf := range p.Fields {
			g.Id("v").Dot(pf.GoName).Op("=").Id(r).Dot(pf.GoName)
		}
	})

	if t := p.Target; t != nil {
		name := patchMethod(h.Graph(), p)
		tr := t.Receiver()
		f.Commentf("%s persists p and merges it into %s once the write succeeded.", name, tr)
		method(f, t).Id(name).Params(ctxParam(), dbParam(h), jen.Id("p").Op("*").Id(p.Entity)).Error().Block(
			errCheck(jen.Id("p").Dot("PatchRow").Call(jen.Id("ctx"), jen.Id("db"), jen.Id(tr).Dot(t.ID.GoName))),
			jen.Id("p").Dot("ApplyTo").Call(jen.Id(tr)),
			jen.Return(jen.Nil()),
		)
	}
	return f
}

// patchMethod names the entity method applying p. A table patched by more
// than one declaration gets one method per patch, suffixed with its name.
func patchMethod(g *gen.Graph, p *gen.PatchSchema) string {
	n := 0
	for _, o := range g.Patches {
		if o.Target == p.Target {
			n++
		}
	}
	if n > 1 {
		return "Patch" + p.Entity
	}
	return "Patch"
}
