// Package query compiles conditional SQL queries.
//
// A Skeleton is an ordered list of tokens: literal text, arguments and
// branch points. A branch point holds a guard and its own literals and
// arguments. Compile expands the skeleton into every combination of branch
// points, renders each combination as an independent statement for one
// backend and checks that all of them select the same columns.
//
//	var usersQuery = query.MustCompile(dialect.MustLookup(dialect.MySQL), query.New[Filter]("users",
//		query.Lit("SELECT id, first_name FROM users"),
//		query.When(func(f Filter) bool { return f.Name != "" },
//			query.Lit("WHERE first_name LIKE"), query.Arg(func(f Filter) any { return f.Name }),
//		),
//		query.Lit("ORDER BY first_name DESC"),
//		query.When(func(f Filter) bool { return f.Limit > 0 },
//			query.Lit("LIMIT"), query.Arg(func(f Filter) any { return f.Limit }),
//		),
//	))
//
// At run time the plan tests its branches in order and runs the first one
// whose guards all hold. Branches that carry more guards come first, and
// the last branch carries none, so exactly one branch runs for any input.
package query
