package gen

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/syssam/tablegen/compiler/load"
	"github.com/syssam/tablegen/dialect"
)

// DefaultRuntimePkg is the import path of the runtime package generated
// code calls into.
const DefaultRuntimePkg = "github.com/syssam/tablegen"

// Config holds the configuration of a generation run.
type Config struct {
	// Backend is the SQL dialect statements are rendered for.
	Backend *dialect.Backend
	// Target is the output directory.
	Target string
	// Package is the package name of generated files. It defaults to the
	// package of the declarations.
	Package string
	// Header replaces the default "Code generated" header.
	Header string
	// Workers bounds the number of files rendered in parallel.
	Workers int
	// RuntimePkg is the import path of the runtime package.
	RuntimePkg string
	// Logger receives warnings and per-file debug output.
	Logger *slog.Logger
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Graph is the validated set of tables and patches of one run.
type Graph struct {
	*Config
	Tables   []*TableSchema
	Patches  []*PatchSchema
	Warnings []Warning
}

// NewGraph parses and validates the declarations. Every invalid
// declaration is reported; the returned error joins them.
func NewGraph(c *Config, decls ...*load.Declaration) (*Graph, error) {
	if c == nil || c.Backend == nil {
		return nil, NewConfigError("Backend", nil, "no dialect configured")
	}
	g := &Graph{Config: c}
	var errs []error
	names := make(map[string]string)
	declare := func(name, pos string) error {
		if prev, ok := names[name]; ok {
			err := NewSchemaError(InvalidAttribute, name, "", "type declared twice, first at "+prev)
			err.Pos = pos
			return err
		}
		names[name] = pos
		return nil
	}
	for _, d := range decls {
		if err := declare(d.Name, d.Pos); err != nil {
			errs = append(errs, err)
			continue
		}
		switch d.Kind {
		case load.KindTable:
			t, w, err := ParseTable(d, c.Backend)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			g.Tables = append(g.Tables, t)
			g.Warnings = append(g.Warnings, w...)
		case load.KindPatch:
			p, w, err := ParsePatch(d, c.Backend)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			g.Patches = append(g.Patches, p)
			g.Warnings = append(g.Warnings, w...)
		default:
			errs = append(errs, fmt.Errorf("%s: tablegen: unknown declaration kind %q", d.Pos, d.Kind))
		}
	}
	for _, p := range g.Patches {
		if err := g.resolve(p); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := g.resolvePackage(); err != nil {
		return nil, err
	}
	log := c.logger()
	for _, w := range g.Warnings {
		log.Warn(w.Message, "pos", w.Pos, "type", w.Type, "field", w.Field)
	}
	return g, nil
}

// Table returns the table declared for entity, or nil.
func (g *Graph) Table(entity string) *TableSchema {
	for _, t := range g.Tables {
		if t.Entity == entity {
			return t
		}
	}
	return nil
}

// resolve links a patch to the table it applies to when that table was
// declared in the same run and checks that the two agree.
func (g *Graph) resolve(p *PatchSchema) error {
	if strings.Contains(p.TablePath, ".") {
		return nil
	}
	t := g.Table(p.TablePath)
	if t == nil {
		return nil
	}
	fail := func(field, msg string) error {
		err := NewSchemaError(InvalidAttribute, p.Entity, field, msg)
		err.Pos = p.Pos
		return err
	}
	if t.Table != p.TableName {
		return fail("", fmt.Sprintf("table_name %q does not match table %q of %s", p.TableName, t.Table, t.Entity))
	}
	if t.ID.Column != p.IDColumn {
		return fail("", fmt.Sprintf("id %q does not match identifier column %q of %s", p.IDColumn, t.ID.Column, t.Entity))
	}
	for _, f := range p.Fields {
		tf := t.Field(f.GoName)
		switch {
		case tf == nil:
			return fail(f.GoName, fmt.Sprintf("field does not exist on %s", t.Entity))
		case tf.Identifier:
			return fail(f.GoName, "patch cannot update the identifier")
		case tf.Column != f.Column:
			return fail(f.GoName, fmt.Sprintf("column %q does not match column %q of %s.%s", f.Column, tf.Column, t.Entity, tf.GoName))
		}
	}
	p.Target = t
	return nil
}

// resolvePackage settles the package name of generated files.
func (g *Graph) resolvePackage() error {
	if g.Package != "" {
		return nil
	}
	pkgs := make(map[string]bool)
	for _, t := range g.Tables {
		pkgs[t.Package] = true
	}
	for _, p := range g.Patches {
		pkgs[p.Package] = true
	}
	delete(pkgs, "")
	switch len(pkgs) {
	case 0:
		if g.Target == "" {
			return NewConfigError("Package", nil, "cannot infer package name without declarations or target")
		}
		g.Package = filepath.Base(g.Target)
	case 1:
		for p := range pkgs {
			g.Package = p
		}
	default:
		return NewConfigError("Package", nil, "declarations span several packages; set the package explicitly")
	}
	return nil
}
