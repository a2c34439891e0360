package sql

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/compiler/gen"
)

// rt returns a qualified identifier of the runtime package.
func rt(h gen.GeneratorHelper, name string) *jen.Statement {
	return jen.Qual(h.RuntimePkg(), name)
}

func ctxParam() jen.Code {
	return jen.Id("ctx").Qual("context", "Context")
}

func dbParam(h gen.GeneratorHelper) jen.Code {
	return jen.Id("db").Qual(h.DialectPkg(), "ExecQuerier")
}

func fieldType(h gen.GeneratorHelper, t *gen.TableSchema, f *gen.FieldDescriptor) jen.Code {
	return h.GoType(f.Type, t.Imports)
}

func idType(h gen.GeneratorHelper, t *gen.TableSchema) jen.Code {
	return fieldType(h, t, t.ID)
}

// bind returns the statement argument of a field. by_ref fields are bound
// by address.
func bind(recv string, f *gen.FieldDescriptor) jen.Code {
	if f.ByRef {
		return jen.Op("&").Id(recv).Dot(f.GoName)
	}
	return jen.Id(recv).Dot(f.GoName)
}

// args renders a []any literal, or nil when there is nothing to bind.
func args(codes ...jen.Code) jen.Code {
	if len(codes) == 0 {
		return jen.Nil()
	}
	return jen.Index().Any().Values(codes...)
}

// dests renders the scan destinations of fields in recv.
func dests(recv string, fs []*gen.FieldDescriptor) []jen.Code {
	out := make([]jen.Code, len(fs))
	for i, f := range fs {
		out[i] = jen.Op("&").Id(recv).Dot(f.GoName)
	}
	return out
}

func scanName(t *gen.TableSchema) string { return "scan" + t.Entity }

// errCheck renders "if err := call; err != nil { return zero..., err }".
func errCheck(call jen.Code, zero ...jen.Code) jen.Code {
	return ifErr(jen.Err().Op(":=").Add(call), zero...)
}

// ifErr renders "if init; err != nil { return zero..., err }".
func ifErr(init jen.Code, zero ...jen.Code) jen.Code {
	return jen.If(init, jen.Err().Op("!=").Nil()).Block(
		jen.Return(append(zero, jen.Err())...),
	)
}

