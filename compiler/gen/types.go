package gen

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strconv"

	"github.com/dave/jennifer/jen"
)

// TypeCode converts a Go type expression such as "*time.Time" or
// "map[string][]uuid.UUID" into jennifer code. Package qualifiers are
// resolved through imports; an unknown qualifier is taken as the import
// path itself, which covers the standard library.
func TypeCode(expr string, imports map[string]string) (jen.Code, error) {
	e, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid type %q: %w", expr, err)
	}
	return typeCode(e, imports)
}

func typeCode(e ast.Expr, imports map[string]string) (*jen.Statement, error) {
	switch e := e.(type) {
	case *ast.Ident:
		return jen.Id(e.Name), nil
	case *ast.SelectorExpr:
		pkg, ok := e.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("invalid qualified type %s", types.ExprString(e))
		}
		path := pkg.Name
		if p, ok := imports[pkg.Name]; ok {
			path = p
		}
		return jen.Qual(path, e.Sel.Name), nil
	case *ast.StarExpr:
		x, err := typeCode(e.X, imports)
		if err != nil {
			return nil, err
		}
		return jen.Op("*").Add(x), nil
	case *ast.ArrayType:
		elem, err := typeCode(e.Elt, imports)
		if err != nil {
			return nil, err
		}
		if e.Len == nil {
			return jen.Index().Add(elem), nil
		}
		lit, ok := e.Len.(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			return nil, fmt.Errorf("unsupported array length in %s", types.ExprString(e))
		}
		n, err := strconv.Atoi(lit.Value)
		if err != nil {
			return nil, err
		}
		return jen.Index(jen.Lit(n)).Add(elem), nil
	case *ast.MapType:
		k, err := typeCode(e.Key, imports)
		if err != nil {
			return nil, err
		}
		v, err := typeCode(e.Value, imports)
		if err != nil {
			return nil, err
		}
		return jen.Map(k).Add(v), nil
	case *ast.InterfaceType:
		if e.Methods == nil || len(e.Methods.List) == 0 {
			return jen.Any(), nil
		}
	case *ast.IndexExpr:
		x, err := typeCode(e.X, imports)
		if err != nil {
			return nil, err
		}
		arg, err := typeCode(e.Index, imports)
		if err != nil {
			return nil, err
		}
		return x.Types(arg), nil
	}
	return nil, fmt.Errorf("unsupported type %s", types.ExprString(e))
}
