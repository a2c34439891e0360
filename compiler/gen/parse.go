package gen

import (
	"fmt"
	"go/token"

	"github.com/syssam/tablegen/compiler/load"
	"github.com/syssam/tablegen/dialect"
)

// ReservedWarning is the message attached to fields named after a reserved
// word of the target backend.
const ReservedWarning = "this is a reserved keyword, you might want to consider choosing a different name"

// optionShape describes which surface forms an option accepts.
type optionShape uint8

const (
	shapeFlag  optionShape = 1 << iota // key
	shapeValue                         // key=value
	shapeArg                           // key(Arg)
)

var (
	tableOptions = map[string]optionShape{
		"table":      shapeValue,
		"id":         shapeValue,
		"insertable": shapeFlag | shapeValue,
		"deletable":  shapeFlag,
	}
	tableFieldOptions = map[string]optionShape{
		"column":       shapeValue,
		"custom_type":  shapeFlag,
		"default":      shapeFlag,
		"by_ref":       shapeFlag,
		"set":          shapeFlag | shapeValue,
		"get_one":      shapeFlag | shapeValue | shapeArg,
		"get_optional": shapeFlag | shapeValue | shapeArg,
		"get_many":     shapeFlag | shapeValue | shapeArg,
		"get_by_any":   shapeFlag | shapeValue | shapeArg,
	}
	patchOptions = map[string]optionShape{
		"table_name": shapeValue,
		"table":      shapeValue,
		"id":         shapeValue,
	}
	patchFieldOptions = map[string]optionShape{
		"column":      shapeValue,
		"custom_type": shapeFlag,
		"by_ref":      shapeFlag,
	}
)

// optionSet is the checked option list of one declaration or field.
type optionSet map[string]*load.Option

// checkOptions enforces that every option is known, used at most once and
// written in an accepted form.
func checkOptions(opts []*load.Option, allowed map[string]optionShape, typ, field string) (optionSet, error) {
	set := make(optionSet, len(opts))
	for _, o := range opts {
		shape, ok := allowed[o.Key]
		if !ok {
			return nil, attrError(UnknownAttribute, typ, field, o, fmt.Sprintf("unknown attribute %q", o.Key))
		}
		if _, dup := set[o.Key]; dup {
			return nil, attrError(DuplicateAttribute, typ, field, o, fmt.Sprintf("duplicate attribute %q", o.Key))
		}
		switch {
		case o.IsFlag() && shapeFlag&shape == 0:
			return nil, attrError(InvalidAttribute, typ, field, o, fmt.Sprintf("attribute %q requires a value", o.Key))
		case o.HasValue && shapeValue&shape == 0:
			return nil, attrError(InvalidAttribute, typ, field, o, fmt.Sprintf("attribute %q does not take a value", o.Key))
		case o.HasValue && o.Value == "":
			return nil, attrError(InvalidAttribute, typ, field, o, fmt.Sprintf("attribute %q has an empty value", o.Key))
		case o.Arg != "" && shapeArg&shape == 0:
			return nil, attrError(InvalidAttribute, typ, field, o, fmt.Sprintf("attribute %q does not take an argument type", o.Key))
		}
		set[o.Key] = o
	}
	return set, nil
}

func (s optionSet) has(key string) bool { return s[key] != nil }

// value returns the option value, or def when the option is absent or a flag.
func (s optionSet) value(key, def string) string {
	if o := s[key]; o != nil && o.HasValue {
		return o.Value
	}
	return def
}

func attrError(kind ErrorKind, typ, field string, o *load.Option, msg string) *SchemaError {
	err := NewSchemaError(kind, typ, field, msg)
	err.Attr = o.Key
	err.Pos = o.Pos
	return err
}

func missingAttr(typ, pos, key string) *SchemaError {
	err := NewSchemaError(MissingAttribute, typ, "", fmt.Sprintf("missing tablegen(%s) attribute", key))
	err.Attr = key
	err.Pos = pos
	return err
}

// ParseTable validates a table declaration for backend b and returns its
// schema together with non-fatal warnings.
func ParseTable(d *load.Declaration, b *dialect.Backend) (*TableSchema, []Warning, error) {
	if d.Kind != load.KindTable {
		return nil, nil, fmt.Errorf("tablegen: %s is a %s declaration, not a table", d.Name, d.Kind)
	}
	opts, err := checkOptions(d.Options, tableOptions, d.Name, "")
	if err != nil {
		return nil, nil, err
	}
	t := &TableSchema{
		Entity:     d.Name,
		Table:      opts.value("table", ""),
		Deletable:  opts.has("deletable"),
		EmitStruct: d.EmitStruct,
		Package:    d.Package,
		Imports:    d.Imports,
		Pos:        d.Pos,
	}
	var warnings []Warning
	for _, lf := range d.Fields {
		f, w, err := parseTableField(t, lf, b)
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, w...)
		t.Fields = append(t.Fields, f)
	}
	if !opts.has("table") {
		return nil, nil, missingAttr(t.Entity, d.Pos, "table")
	}
	if !opts.has("id") {
		return nil, nil, missingAttr(t.Entity, d.Pos, "id")
	}
	if t.ID = t.Field(opts.value("id", "")); t.ID == nil {
		err := NewSchemaError(UnknownIdentifierField, t.Entity, opts.value("id", ""), "id does not refer to a field of the struct")
		err.Attr, err.Pos = "id", opts["id"].Pos
		return nil, nil, err
	}
	t.ID.Identifier = true
	if o := opts["insertable"]; o != nil {
		t.Insertable = &InsertSpec{Name: opts.value("insertable", "Insert"+t.Entity)}
		if !token.IsIdentifier(t.Insertable.Name) {
			return nil, nil, attrError(InvalidAttribute, t.Entity, "", o, fmt.Sprintf("%q is not a valid type name", t.Insertable.Name))
		}
	} else {
		for i, f := range t.Fields {
			if f.Default {
				o := d.Fields[i].Option("default")
				return nil, nil, attrError(DefaultWithoutInsertable, t.Entity, f.GoName, o, "default has no effect without insertable")
			}
		}
	}
	if err := checkTableNames(t, d); err != nil {
		return nil, nil, err
	}
	return t, warnings, nil
}

func parseTableField(t *TableSchema, lf *load.Field, b *dialect.Backend) (*FieldDescriptor, []Warning, error) {
	opts, err := checkOptions(lf.Options, tableFieldOptions, t.Entity, lf.Name)
	if err != nil {
		return nil, nil, err
	}
	if _, err := TypeCode(lf.Type, t.Imports); err != nil {
		serr := NewSchemaError(InvalidAttribute, t.Entity, lf.Name, err.Error())
		serr.Pos = lf.Pos
		return nil, nil, serr
	}
	name := snake(lf.Name)
	f := &FieldDescriptor{
		Name:       name,
		GoName:     lf.Name,
		Type:       lf.Type,
		Column:     opts.value("column", name),
		CustomType: opts.has("custom_type"),
		Default:    opts.has("default"),
		ByRef:      opts.has("by_ref"),
		Pos:        lf.Pos,
	}
	if opts.has("set") {
		f.Set = &Setter{Func: opts.value("set", "set_"+name), Field: f}
	}
	for _, k := range []LookupKind{LookupOne, LookupOptional, LookupMany, LookupAny} {
		o := opts[k.String()]
		if o == nil {
			continue
		}
		l := &Lookup{Kind: k, Func: opts.value(o.Key, "by_"+name), ArgType: f.Type, Field: f}
		if k == LookupAny {
			if !b.ArrayParams {
				return nil, nil, attrError(InvalidAttribute, t.Entity, f.GoName, o,
					fmt.Sprintf("get_by_any requires a backend with array parameters, %s has none", b.Name))
			}
			l.Func = opts.value(o.Key, "get_by_any_"+name)
			l.ArgType = "[]" + f.Type
		}
		if o.Arg != "" {
			if _, err := TypeCode(o.Arg, t.Imports); err != nil {
				return nil, nil, attrError(InvalidAttribute, t.Entity, f.GoName, o, err.Error())
			}
			l.ArgType = o.Arg
		}
		f.Lookups = append(f.Lookups, l)
	}
	var warnings []Warning
	if b.Reserved(f.Name) || b.Reserved(f.Column) {
		f.Reserved = true
		warnings = append(warnings, Warning{Pos: f.Pos, Type: t.Entity, Field: f.GoName, Message: ReservedWarning})
	}
	return f, warnings, nil
}

// checkTableNames rejects declarations whose generated identifiers or
// columns collide.
func checkTableNames(t *TableSchema, d *load.Declaration) error {
	columns := make(map[string]*FieldDescriptor)
	funcs := map[string]string{
		"Update": "a generated method",
		"Reload": "a generated method",
		"Delete": "a generated method",
		"Patch":  "a generated method",
	}
	claim := func(f *FieldDescriptor, key, name string) error {
		if !token.IsIdentifier(name) {
			o := d.Fields[fieldIndex(t, f)].Option(key)
			return attrError(InvalidAttribute, t.Entity, f.GoName, o, fmt.Sprintf("%q is not a valid function name", name))
		}
		if prev, ok := funcs[name]; ok {
			o := d.Fields[fieldIndex(t, f)].Option(key)
			return attrError(InvalidAttribute, t.Entity, f.GoName, o, fmt.Sprintf("generated name %s is already used by %s", name, prev))
		}
		funcs[name] = f.GoName + "." + key
		return nil
	}
	for _, f := range t.Fields {
		if prev, ok := columns[f.Column]; ok {
			err := NewSchemaError(InvalidAttribute, t.Entity, f.GoName, fmt.Sprintf("column %q is also mapped by %s", f.Column, prev.GoName))
			err.Pos = f.Pos
			return err
		}
		columns[f.Column] = f
		if f.Set != nil {
			if err := claim(f, "set", f.Set.GoName()); err != nil {
				return err
			}
		}
		for _, l := range f.Lookups {
			if err := claim(f, l.Kind.String(), l.GoName(t.Entity)); err != nil {
				return err
			}
		}
	}
	return nil
}

func fieldIndex(t *TableSchema, f *FieldDescriptor) int {
	for i, tf := range t.Fields {
		if tf == f {
			return i
		}
	}
	return -1
}

// ParsePatch validates a patch declaration for backend b.
func ParsePatch(d *load.Declaration, b *dialect.Backend) (*PatchSchema, []Warning, error) {
	if d.Kind != load.KindPatch {
		return nil, nil, fmt.Errorf("tablegen: %s is a %s declaration, not a patch", d.Name, d.Kind)
	}
	opts, err := checkOptions(d.Options, patchOptions, d.Name, "")
	if err != nil {
		return nil, nil, err
	}
	p := &PatchSchema{
		Entity:     d.Name,
		TableName:  opts.value("table_name", ""),
		TablePath:  opts.value("table", ""),
		IDColumn:   opts.value("id", ""),
		EmitStruct: d.EmitStruct,
		Package:    d.Package,
		Imports:    d.Imports,
		Pos:        d.Pos,
	}
	var warnings []Warning
	columns := make(map[string]string)
	for _, lf := range d.Fields {
		fopts, err := checkOptions(lf.Options, patchFieldOptions, p.Entity, lf.Name)
		if err != nil {
			return nil, nil, err
		}
		if _, err := TypeCode(lf.Type, p.Imports); err != nil {
			serr := NewSchemaError(InvalidAttribute, p.Entity, lf.Name, err.Error())
			serr.Pos = lf.Pos
			return nil, nil, serr
		}
		name := snake(lf.Name)
		f := &PatchField{
			Name:       name,
			GoName:     lf.Name,
			Type:       lf.Type,
			Column:     fopts.value("column", name),
			CustomType: fopts.has("custom_type"),
			ByRef:      fopts.has("by_ref"),
			Pos:        lf.Pos,
		}
		if prev, ok := columns[f.Column]; ok {
			serr := NewSchemaError(InvalidAttribute, p.Entity, f.GoName, fmt.Sprintf("column %q is also mapped by %s", f.Column, prev))
			serr.Pos = f.Pos
			return nil, nil, serr
		}
		columns[f.Column] = f.GoName
		if b.Reserved(f.Name) || b.Reserved(f.Column) {
			f.Reserved = true
			warnings = append(warnings, Warning{Pos: f.Pos, Type: p.Entity, Field: f.GoName, Message: ReservedWarning})
		}
		p.Fields = append(p.Fields, f)
	}
	for _, key := range []string{"table_name", "table", "id"} {
		if !opts.has(key) {
			return nil, nil, missingAttr(p.Entity, d.Pos, key)
		}
	}
	if _, err := TypeCode(p.TablePath, p.Imports); err != nil {
		return nil, nil, attrError(InvalidAttribute, p.Entity, "", opts["table"], err.Error())
	}
	if len(p.Fields) == 0 {
		err := NewSchemaError(InvalidAttribute, p.Entity, "", "patch declares no fields")
		err.Pos = d.Pos
		return nil, nil, err
	}
	return p, warnings, nil
}
