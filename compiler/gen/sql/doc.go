// Package sql implements the SQL dialect code generator of tablegen.
//
// For every table it generates, next to the declaring struct:
//
//   - one constant per SQL statement, rendered for the configured backend
//   - a scan function materializing a row of the table projection
//   - Get<Entity>, All<Entities>, StreamAll<Entities> and
//     Stream<Entities>Paginated
//   - Update and Reload methods, Delete<Entity> and a Delete method for
//     deletable tables
//   - one method per declared setter
//   - the Insert<Entity> value with its Insert method for insertable tables
//   - one function per declared lookup (get_one, get_optional, get_many,
//     get_by_any)
//
// For every patch it generates PatchRow, ApplyTo and, when the patched
// table is part of the same run, a Patch method on the entity.
//
// The projection of the table (the column list, its order and aliases) is
// shared by all reads, so one scan function serves them all. Generated code
// calls into the root tablegen package for execution and error wrapping.
//
// # Usage
//
//	graph, err := gen.NewGraph(config, decls...)
//	if err != nil {
//	    return err
//	}
//	written, err := sql.Generate(ctx, graph)
//
// Statements returns the SQL text of every generated statement, which the
// verify command prepares against a live database.
package sql
