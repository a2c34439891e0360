package dialect

// sqlReserved holds the words reserved by all supported dialects.
var sqlReserved = []string{
	"all", "alter", "and", "as", "asc", "between", "by", "case", "check",
	"collate", "column", "constraint", "create", "cross", "current_date",
	"current_time", "current_timestamp", "default", "delete", "desc",
	"distinct", "drop", "else", "exists", "foreign", "from", "group",
	"having", "in", "inner", "insert", "into", "is", "join", "left",
	"like", "limit", "not", "null", "on", "or", "order", "outer",
	"primary", "references", "right", "select", "set", "table", "then",
	"to", "union", "unique", "update", "using", "values", "when", "where",
	"with",
}

var postgresReserved = []string{
	"analyse", "analyze", "any", "array", "asymmetric", "authorization",
	"binary", "both", "cast", "concurrently", "current_catalog",
	"current_role", "current_schema", "current_user", "deferrable", "do",
	"end", "except", "false", "fetch", "for", "freeze", "full", "grant",
	"ilike", "initially", "intersect", "isnull", "lateral", "leading",
	"localtime", "localtimestamp", "natural", "notnull", "offset", "only",
	"overlaps", "placing", "returning", "session_user", "similar", "some",
	"symmetric", "system_user", "tablesample", "trailing", "true", "user",
	"variadic", "verbose", "window",
}

var mysqlReserved = []string{
	"accessible", "add", "analyze", "before", "bigint", "binary", "blob",
	"both", "call", "cascade", "change", "char", "character", "condition",
	"continue", "convert", "current_user", "cursor", "database",
	"databases", "dec", "decimal", "declare", "delayed", "describe",
	"deterministic", "distinctrow", "div", "double", "dual", "each",
	"elseif", "enclosed", "escaped", "except", "exit", "explain", "false",
	"fetch", "float", "for", "force", "fulltext", "function", "generated",
	"grant", "groups", "high_priority", "if", "ignore", "index", "infile",
	"inout", "int", "integer", "intersect", "interval", "iterate", "key",
	"keys", "kill", "lateral", "leading", "leave", "lines", "load",
	"localtime", "localtimestamp", "lock", "long", "loop", "match",
	"mod", "modifies", "natural", "numeric", "optimize", "option",
	"optionally", "out", "outfile", "partition", "precision", "procedure",
	"purge", "range", "rank", "read", "real", "regexp", "release",
	"rename", "repeat", "replace", "require", "restrict", "return",
	"revoke", "rlike", "row", "rows", "schema", "schemas", "separator",
	"show", "signal", "smallint", "spatial", "specific", "sql", "ssl",
	"starting", "stored", "straight_join", "system", "terminated",
	"trailing", "trigger", "true", "undo", "unlock", "unsigned", "usage",
	"use", "utc_date", "utc_time", "utc_timestamp", "varchar", "varying",
	"virtual", "while", "window", "write", "xor", "year_month", "zerofill",
}

var sqliteReserved = []string{
	"abort", "action", "add", "after", "analyze", "attach",
	"autoincrement", "before", "begin", "cascade", "cast", "commit",
	"conflict", "current", "database", "deferrable", "deferred", "detach",
	"do", "each", "end", "escape", "except", "exclude", "exclusive",
	"explain", "fail", "filter", "first", "following", "for", "full",
	"glob", "groups", "if", "ignore", "immediate", "index", "indexed",
	"initially", "instead", "intersect", "isnull", "key", "last", "match",
	"natural", "no", "nothing", "notnull", "nulls", "of", "offset",
	"others", "over", "partition", "plan", "pragma", "preceding", "query",
	"raise", "range", "recursive", "regexp", "reindex", "release",
	"rename", "replace", "restrict", "returning", "rollback", "row", "rows",
	"savepoint", "temp", "temporary", "ties", "transaction", "trigger",
	"unbounded", "vacuum", "view", "virtual", "window", "without",
}
