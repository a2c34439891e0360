package load

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"reflect"
	"strconv"
	"strings"
)

// DirectivePrefix starts a declaration comment on a struct type.
const DirectivePrefix = "//tablegen:"

// TagKey is the struct tag key holding field options.
const TagKey = "tablegen"

// ParseFile parses a Go source file and returns the declarations of every
// struct type carrying a tablegen directive. src is passed to go/parser and
// may be nil to read filename from disk.
func ParseFile(fset *token.FileSet, filename string, src any) ([]*Declaration, error) {
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	imports := fileImports(file)
	var decls []*Declaration
	for _, d := range file.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			decl, err := parseTypeSpec(fset, ts, doc)
			if err != nil {
				return nil, err
			}
			if decl == nil {
				continue
			}
			decl.Package = file.Name.Name
			decl.Imports = imports
			decls = append(decls, decl)
		}
	}
	return decls, nil
}

func parseTypeSpec(fset *token.FileSet, ts *ast.TypeSpec, doc *ast.CommentGroup) (*Declaration, error) {
	if doc == nil {
		return nil, nil
	}
	var decl *Declaration
	for _, c := range doc.List {
		text, ok := strings.CutPrefix(c.Text, DirectivePrefix)
		if !ok {
			continue
		}
		pos := fset.Position(c.Pos()).String()
		kind, rest, _ := strings.Cut(text, " ")
		switch Kind(kind) {
		case KindTable, KindPatch:
		default:
			return nil, syntaxErrorf(pos, "unknown directive %q", DirectivePrefix+kind)
		}
		if decl == nil {
			decl = &Declaration{Kind: Kind(kind), Name: ts.Name.Name, Pos: pos}
		} else if decl.Kind != Kind(kind) {
			return nil, syntaxErrorf(pos, "type %s declared as both %s and %s", ts.Name.Name, decl.Kind, kind)
		}
		opts, err := ParseDirective(rest, pos)
		if err != nil {
			return nil, err
		}
		decl.Options = append(decl.Options, opts...)
	}
	if decl == nil {
		return nil, nil
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return nil, syntaxErrorf(decl.Pos, "%s must be a struct type", ts.Name.Name)
	}
	if ts.TypeParams != nil {
		return nil, syntaxErrorf(decl.Pos, "%s must not be generic", ts.Name.Name)
	}
	for _, sf := range st.Fields.List {
		pos := fset.Position(sf.Pos()).String()
		if len(sf.Names) == 0 {
			return nil, syntaxErrorf(pos, "embedded field %s is not supported", types.ExprString(sf.Type))
		}
		var opts []*Option
		if sf.Tag != nil {
			raw, err := strconv.Unquote(sf.Tag.Value)
			if err != nil {
				return nil, syntaxErrorf(pos, "invalid struct tag %s", sf.Tag.Value)
			}
			if v, ok := reflect.StructTag(raw).Lookup(TagKey); ok {
				if opts, err = ParseTag(v, fset.Position(sf.Tag.Pos()).String()); err != nil {
					return nil, err
				}
			}
		}
		typ := types.ExprString(sf.Type)
		for _, name := range sf.Names {
			decl.Fields = append(decl.Fields, &Field{
				Name:    name.Name,
				Type:    typ,
				Options: opts,
				Pos:     fset.Position(name.Pos()).String(),
			})
		}
	}
	return decl, nil
}

// fileImports maps the names a file uses for its imports to their paths.
func fileImports(file *ast.File) map[string]string {
	imports := make(map[string]string, len(file.Imports))
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := ImportName(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		imports[name] = p
	}
	return imports
}

// ImportName returns the conventional package name for an import path,
// skipping a trailing major version element such as "/v5".
func ImportName(p string) string {
	base := path.Base(p)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		if dir := path.Dir(p); dir != "." {
			base = path.Base(dir)
		}
	}
	if i := strings.LastIndex(base, ".v"); i > 0 {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	return strings.ReplaceAll(base, "-", "_")
}
