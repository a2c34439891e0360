// Command tablegen compiles table and patch declarations into a typed SQL
// access layer.
//
// Usage:
//
//	tablegen [flags] <command>
//
// Commands:
//   - generate: write the access layer next to the declarations (or to --target)
//   - check: validate declarations without writing files
//   - verify: prepare every generated statement against a live database
//   - version: print version information
//
// Settings are read from tablegen.yaml, discovered by walking up from the
// working directory, and from TABLEGEN_* environment variables. Flags win
// over both.
package main

import (
	// Drivers used by verify.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	Execute()
}
