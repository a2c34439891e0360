// Package tablegen is the runtime used by code produced by the tablegen
// compiler.
//
// Generated files call the helpers in this package to run statements
// against a dialect.ExecQuerier, map empty or ambiguous results onto the
// typed errors NotFoundError and NotSingularError, stream rows lazily and
// run multi-statement inserts inside a transaction. The helpers hold no
// state of their own; every call borrows the connection it is handed.
package tablegen
