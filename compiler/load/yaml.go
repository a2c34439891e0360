package load

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlFile is the top-level document of a YAML declaration file:
//
//	package: models
//	imports:
//	  uuid: github.com/google/uuid
//	tables:
//	  - name: User
//	    table: users
//	    id: id
//	    insertable: true
//	    fields:
//	      - name: ID
//	        type: int64
//	      - name: Email
//	        type: string
//	        get_optional: by_email(string)
//	patches:
//	  - name: UpdateUser
//	    ...
type yamlFile struct {
	Package string            `yaml:"package"`
	Imports map[string]string `yaml:"imports"`
	Tables  []yaml.Node       `yaml:"tables"`
	Patches []yaml.Node       `yaml:"patches"`
}

// LoadYAML reads a YAML declaration file.
func LoadYAML(filename string) ([]*Declaration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return ParseYAML(filename, data)
}

// ParseYAML parses the contents of a YAML declaration file.
func ParseYAML(filename string, data []byte) ([]*Declaration, error) {
	var doc yamlFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if doc.Package == "" {
		return nil, syntaxErrorf(filename, "missing package")
	}
	var decls []*Declaration
	groups := []struct {
		kind  Kind
		nodes []yaml.Node
	}{
		{KindTable, doc.Tables},
		{KindPatch, doc.Patches},
	}
	for _, g := range groups {
		for i := range g.nodes {
			d, err := yamlDeclaration(filename, g.kind, &g.nodes[i])
			if err != nil {
				return nil, err
			}
			d.Package = doc.Package
			d.Imports = doc.Imports
			decls = append(decls, d)
		}
	}
	return decls, nil
}

func nodePos(filename string, n *yaml.Node) string {
	return fmt.Sprintf("%s:%d:%d", filename, n.Line, n.Column)
}

func yamlDeclaration(filename string, kind Kind, n *yaml.Node) (*Declaration, error) {
	pos := nodePos(filename, n)
	if n.Kind != yaml.MappingNode {
		return nil, syntaxErrorf(pos, "%s declaration must be a mapping", kind)
	}
	d := &Declaration{Kind: kind, Pos: pos, EmitStruct: true}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "name":
			d.Name = val.Value
		case "fields":
			if val.Kind != yaml.SequenceNode {
				return nil, syntaxErrorf(nodePos(filename, val), "fields must be a list")
			}
			for _, fn := range val.Content {
				f, err := yamlField(filename, fn)
				if err != nil {
					return nil, err
				}
				d.Fields = append(d.Fields, f)
			}
		default:
			o, err := yamlOption(filename, key, val)
			if err != nil {
				return nil, err
			}
			if o != nil {
				d.Options = append(d.Options, o)
			}
		}
	}
	if d.Name == "" {
		return nil, syntaxErrorf(pos, "%s declaration without name", kind)
	}
	return d, nil
}

func yamlField(filename string, n *yaml.Node) (*Field, error) {
	pos := nodePos(filename, n)
	if n.Kind != yaml.MappingNode {
		return nil, syntaxErrorf(pos, "field must be a mapping")
	}
	f := &Field{Pos: pos}
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "name":
			f.Name = val.Value
		case "type":
			f.Type = val.Value
		default:
			o, err := yamlOption(filename, key, val)
			if err != nil {
				return nil, err
			}
			if o != nil {
				f.Options = append(f.Options, o)
			}
		}
	}
	switch {
	case f.Name == "":
		return nil, syntaxErrorf(pos, "field without name")
	case f.Type == "":
		return nil, syntaxErrorf(pos, "field %s without type", f.Name)
	}
	return f, nil
}

// yamlOption converts a mapping entry into an option. Boolean true is a
// flag, false omits the option and any other scalar is a value that may
// carry an argument type in parentheses.
func yamlOption(filename string, key, val *yaml.Node) (*Option, error) {
	pos := nodePos(filename, key)
	if val.Kind != yaml.ScalarNode {
		return nil, syntaxErrorf(pos, "option %q must be a scalar", key.Value)
	}
	o := &Option{Key: key.Value, Pos: pos}
	if val.Tag == "!!bool" {
		var b bool
		if err := val.Decode(&b); err != nil {
			return nil, syntaxErrorf(pos, "option %q: %v", key.Value, err)
		}
		if !b {
			return nil, nil
		}
		return o, nil
	}
	v, arg, err := SplitArg(val.Value)
	if err != nil {
		return nil, syntaxErrorf(pos, "option %q: %v", key.Value, err)
	}
	if v != "" {
		o.Value, o.HasValue = v, true
	}
	o.Arg = arg
	return o, nil
}
