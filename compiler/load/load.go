package load

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

// GeneratedSuffix is the file name suffix of generated files. Files with this
// suffix are never read as declarations.
const GeneratedSuffix = "_tablegen.go"

// Config holds the configuration for loading declarations.
type Config struct {
	// Paths lists Go files, YAML files or directories. A directory
	// contributes its non-test Go files and its *.tables.yaml files.
	Paths []string
}

// Load reads every declaration reachable from the configured paths, in path
// order and, within a directory, in file name order.
func (c *Config) Load() ([]*Declaration, error) {
	if len(c.Paths) == 0 {
		return nil, fmt.Errorf("tablegen/load: no paths given")
	}
	fset := token.NewFileSet()
	var decls []*Declaration
	for _, p := range c.Paths {
		files, err := expand(p)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			var ds []*Declaration
			switch {
			case isYAML(file):
				ds, err = LoadYAML(file)
			default:
				ds, err = ParseFile(fset, file, nil)
			}
			if err != nil {
				return nil, err
			}
			decls = append(decls, ds...)
		}
	}
	return decls, nil
}

// Files returns the source files Load would read, for watchers.
func (c *Config) Files() ([]string, error) {
	var out []string
	for _, p := range c.Paths {
		files, err := expand(p)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

func expand(p string) ([]string, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("tablegen/load: %w", err)
	}
	if !info.IsDir() {
		if !isYAML(p) && !strings.HasSuffix(p, ".go") {
			return nil, fmt.Errorf("tablegen/load: unsupported file %s", p)
		}
		return []string{p}, nil
	}
	entries, err := os.ReadDir(p)
	if err != nil {
		return nil, fmt.Errorf("tablegen/load: %w", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		switch {
		case e.IsDir():
		case strings.HasSuffix(name, ".tables.yaml"), strings.HasSuffix(name, ".tables.yml"):
			files = append(files, filepath.Join(p, name))
		case strings.HasSuffix(name, ".go") &&
			!strings.HasSuffix(name, "_test.go") &&
			!strings.HasSuffix(name, GeneratedSuffix):
			files = append(files, filepath.Join(p, name))
		}
	}
	return files, nil
}

func isYAML(p string) bool {
	ext := filepath.Ext(p)
	return ext == ".yaml" || ext == ".yml"
}
