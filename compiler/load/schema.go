// Package load reads raw table and patch declarations from Go source files and
// YAML documents. It performs no validation beyond syntax; the gen package
// turns declarations into a checked schema model.
package load

// Kind is the kind of a declaration.
type Kind string

// Declaration kinds.
const (
	KindTable Kind = "table"
	KindPatch Kind = "patch"
)

// Declaration is a table or patch declaration as written by the user.
type Declaration struct {
	Kind    Kind      `json:"kind"`
	Name    string    `json:"name"`              // Go type name of the entity or patch.
	Package string    `json:"package,omitempty"` // Package the declaration was found in.
	Options []*Option `json:"options,omitempty"`
	Fields  []*Field  `json:"fields,omitempty"`
	// Imports maps package names used in field types to import paths.
	Imports map[string]string `json:"imports,omitempty"`
	// EmitStruct is set for declarations that do not come with a Go type,
	// so the generator must declare one.
	EmitStruct bool   `json:"emit_struct,omitempty"`
	Pos        string `json:"-"`
}

// Field is one struct field of a declaration.
type Field struct {
	Name    string    `json:"name"` // Go field name.
	Type    string    `json:"type"` // Go type expression, e.g. "*time.Time".
	Options []*Option `json:"options,omitempty"`
	Pos     string    `json:"-"`
}

// Option is a single declaration option. The surface forms are
//
//	key
//	key=value
//	key(Arg)
//	key=value(Arg)
//
// where value may be a double-quoted Go string.
type Option struct {
	Key      string `json:"key"`
	Value    string `json:"value,omitempty"`
	Arg      string `json:"arg,omitempty"`
	HasValue bool   `json:"has_value,omitempty"`
	Pos      string `json:"-"`
}

// IsFlag reports whether the option was given without a value or argument.
func (o *Option) IsFlag() bool {
	return !o.HasValue && o.Arg == ""
}

// String returns the option in its surface form.
func (o *Option) String() string {
	s := o.Key
	if o.HasValue {
		s += "=" + o.Value
	}
	if o.Arg != "" {
		s += "(" + o.Arg + ")"
	}
	return s
}

// Option returns the first option with the given key, or nil.
func (d *Declaration) Option(key string) *Option {
	return lookup(d.Options, key)
}

// Option returns the first option with the given key, or nil.
func (f *Field) Option(key string) *Option {
	return lookup(f.Options, key)
}

func lookup(opts []*Option, key string) *Option {
	for _, o := range opts {
		if o.Key == key {
			return o
		}
	}
	return nil
}
