package gen

import (
	"fmt"
	"strings"
)

// LookupKind selects the result shape of a generated getter.
type LookupKind int

// Lookup kinds.
const (
	LookupOne      LookupKind = iota // exactly one row
	LookupOptional                   // zero or one row
	LookupMany                       // zero or more rows
	LookupAny                        // rows whose column is in a set
)

var lookupKeys = [...]string{
	LookupOne:      "get_one",
	LookupOptional: "get_optional",
	LookupMany:     "get_many",
	LookupAny:      "get_by_any",
}

// String returns the option key declaring the lookup.
func (k LookupKind) String() string {
	if int(k) >= 0 && int(k) < len(lookupKeys) {
		return lookupKeys[k]
	}
	return fmt.Sprintf("LookupKind(%d)", int(k))
}

// Lookup is a getter declared on a field.
type Lookup struct {
	Kind    LookupKind
	Func    string // snake_case function name, e.g. "by_email"
	ArgType string // Go type of the argument
	Field   *FieldDescriptor
}

// GoName returns the generated function name, prefixed with the entity,
// e.g. "UserByEmail" for by_email or get_by_email.
func (l *Lookup) GoName(entity string) string {
	return entity + pascal(strings.TrimPrefix(l.Func, "get_"))
}

// Setter is a single-column update declared on a field.
type Setter struct {
	Func  string // snake_case method name, e.g. "set_email"
	Field *FieldDescriptor
}

// GoName returns the generated method name.
func (s *Setter) GoName() string { return pascal(s.Func) }

// FieldDescriptor is one validated column of a table.
type FieldDescriptor struct {
	Name       string // schema name, the snake_case form of GoName
	GoName     string
	Type       string // Go type expression
	Column     string
	Identifier bool
	CustomType bool
	Default    bool
	Reserved   bool
	ByRef      bool
	Set        *Setter
	Lookups    []*Lookup
	Pos        string
}

// InsertExcluded reports whether the field is left out of INSERT
// statements and read back from the database instead.
func (f *FieldDescriptor) InsertExcluded() bool {
	return f.Identifier || f.Default
}

// Renamed reports whether the column name differs from the field name.
func (f *FieldDescriptor) Renamed() bool {
	return f.Column != f.Name
}

// Lookup returns the lookup of the given kind, or nil.
func (f *FieldDescriptor) Lookup(k LookupKind) *Lookup {
	for _, l := range f.Lookups {
		if l.Kind == k {
			return l
		}
	}
	return nil
}

// InsertSpec describes the generated insert value of an insertable table.
type InsertSpec struct {
	Name string // Go type name, Insert<Entity> by default
}

// TableSchema is the validated model of a table declaration.
type TableSchema struct {
	Entity     string
	Table      string
	ID         *FieldDescriptor
	Fields     []*FieldDescriptor
	Insertable *InsertSpec
	Deletable  bool
	EmitStruct bool
	Package    string
	Imports    map[string]string
	Pos        string
}

// FieldsExceptID returns the non-identifier fields in column order.
func (t *TableSchema) FieldsExceptID() []*FieldDescriptor {
	out := make([]*FieldDescriptor, 0, len(t.Fields))
	for _, f := range t.Fields {
		if !f.Identifier {
			out = append(out, f)
		}
	}
	return out
}

// InsertableFields returns the fields bound by INSERT statements.
func (t *TableSchema) InsertableFields() []*FieldDescriptor {
	var out []*FieldDescriptor
	for _, f := range t.Fields {
		if !f.InsertExcluded() {
			out = append(out, f)
		}
	}
	return out
}

// DefaultFields returns the non-identifier fields produced by the database
// on insert.
func (t *TableSchema) DefaultFields() []*FieldDescriptor {
	var out []*FieldDescriptor
	for _, f := range t.Fields {
		if f.Default && !f.Identifier {
			out = append(out, f)
		}
	}
	return out
}

// Setters returns the declared setters in column order.
func (t *TableSchema) Setters() []*Setter {
	var out []*Setter
	for _, f := range t.Fields {
		if f.Set != nil {
			out = append(out, f.Set)
		}
	}
	return out
}

// Lookups returns the declared getters in column order.
func (t *TableSchema) Lookups() []*Lookup {
	var out []*Lookup
	for _, f := range t.Fields {
		out = append(out, f.Lookups...)
	}
	return out
}

// Field returns the field with the given schema name or Go name.
func (t *TableSchema) Field(name string) *FieldDescriptor {
	for _, f := range t.Fields {
		if f.Name == name || f.GoName == name {
			return f
		}
	}
	return nil
}

// Plural returns the pluralized entity name used by collection functions.
func (t *TableSchema) Plural() string { return plural(t.Entity) }

// Receiver returns the receiver name of generated methods.
func (t *TableSchema) Receiver() string { return receiver(t.Entity) }

// FileName returns the name of the generated file.
func (t *TableSchema) FileName() string { return snake(t.Entity) + "_tablegen.go" }

// PatchField is one column of a patch.
type PatchField struct {
	Name       string
	GoName     string
	Type       string
	Column     string
	CustomType bool
	ByRef      bool
	Reserved   bool
	Pos        string
}

// Renamed reports whether the column name differs from the field name.
func (f *PatchField) Renamed() bool { return f.Column != f.Name }

// PatchSchema is the validated model of a patch declaration.
type PatchSchema struct {
	Entity    string
	TableName string
	// TablePath is the Go type the patch applies to, e.g. "User" or
	// "models.User".
	TablePath string
	// Target is the table declaration TablePath resolved to, when it was
	// declared in the same run.
	Target     *TableSchema
	IDColumn   string
	Fields     []*PatchField
	EmitStruct bool
	Package    string
	Imports    map[string]string
	Pos        string
}

// Receiver returns the receiver name of generated methods.
func (p *PatchSchema) Receiver() string { return receiver(p.Entity) }

// FileName returns the name of the generated file.
func (p *PatchSchema) FileName() string { return snake(p.Entity) + "_tablegen.go" }
