package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/tablegen/dialect"
)

// Dialect renders the Go file of one declaration. Implementations live in
// subpackages (see compiler/gen/sql) and receive a GeneratorHelper for
// shared naming and import handling.
//
// Methods return *jen.File containing the generated code. The generator
// orchestrates calling these methods, formats the result and writes the
// files to disk.
//
// Usage:
//
//	import "github.com/syssam/tablegen/compiler/gen/sql"
//
//	generator := gen.NewJenniferGenerator(graph)
//	generator.WithDialect(sql.NewDialect(generator))
type Dialect interface {
	// Name returns the dialect name (e.g., "sql").
	Name() string
	// GenTable generates the access layer of a table ({entity}_tablegen.go).
	GenTable(t *TableSchema) *jen.File
	// GenPatch generates the update statement of a patch ({patch}_tablegen.go).
	GenPatch(p *PatchSchema) *jen.File
}

// GeneratorHelper provides helper methods for dialect implementations.
// JenniferGenerator implements this interface, allowing dialect packages
// to use helper methods without importing the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file with the standard header comment.
	NewFile(pkg string) *jen.File

	// GoType returns the Jennifer code for a Go type expression as written
	// in a declaration, with qualifiers resolved through imports.
	GoType(expr string, imports map[string]string) jen.Code

	// RuntimePkg returns the import path of the runtime package.
	RuntimePkg() string

	// DialectPkg returns the import path of the dialect package.
	DialectPkg() string

	// SQLPkg returns the import path of the dialect/sql package.
	SQLPkg() string

	// Backend returns the backend statements are rendered for.
	Backend() *dialect.Backend

	// Graph returns the schema graph.
	Graph() *Graph

	// Pkg returns the output package name.
	Pkg() string
}
