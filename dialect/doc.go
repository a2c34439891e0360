// Package dialect describes the database backends supported by tablegen.
//
// Each backend is a static capability table used while emitting SQL:
//
//	b := dialect.MustLookup(dialect.Postgres)
//	b.Quote("user")        // "user"
//	b.Quote("email")       // email
//	ph := b.Placeholders()
//	ph.Next(), ph.Next()   // $1, $2
//
// MySQL and SQLite use "?" placeholders; PostgreSQL numbers them per statement.
//
// The package also defines the Driver, Tx and ExecQuerier interfaces that
// generated operations run against. dialect/sql implements them on top of
// database/sql:
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//	u, err := models.GetUser(ctx, drv, 42)
package dialect
