// Package gen turns table and patch declarations into a validated schema
// graph and drives code generation for it.
//
// Declarations come from compiler/load. NewGraph parses their options,
// reports every invalid declaration at once and resolves patches against
// the tables they update. A JenniferGenerator then renders one file per
// declaration through a Dialect, formats it and writes the whole set only
// when every file rendered.
//
//	cfg, err := gen.NewConfig(gen.WithDialect("postgres"), gen.WithTarget("./models"))
//	graph, err := gen.NewGraph(cfg, decls...)
//	g := gen.NewJenniferGenerator(graph)
//	g.WithDialect(sql.NewDialect(g))
//	written, err := g.Generate(ctx)
//
// Generated files are named after the declaration, e.g. user_tablegen.go,
// and live next to the declarations they were generated from.
package gen
