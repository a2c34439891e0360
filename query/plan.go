package query

import (
	"github.com/syssam/tablegen"
	"github.com/syssam/tablegen/dialect"
)

// Fragment is one rendered piece of a branch.
type Fragment struct {
	Text string // Literal text, empty for arguments
	Arg  int    // Argument index in skeleton order, -1 for literals
}

// IsArg reports whether the fragment is an argument.
func (f Fragment) IsArg() bool { return f.Arg >= 0 }

// Branch is one combination of branch points, rendered as a complete
// statement.
type Branch struct {
	// Guards lists the branch points that must hold, in skeleton order.
	Guards []int
	// Fragments lists the literals and arguments of the statement.
	Fragments []Fragment
	// SQL is the statement text for the plan's backend.
	SQL string

	args []int
}

// Plan is a compiled Skeleton. A Plan is immutable and safe for concurrent
// use.
type Plan[P any] struct {
	Name     string
	Backend  *dialect.Backend
	Branches []Branch

	guards []func(P) bool
	args   []func(P) any
}

// Select returns the index of the first branch whose guards all hold for
// params. Each guard runs at most once.
//
// Select panics with a *tablegen.UnmatchedBranchError if no branch
// matches, which cannot happen for a plan returned by Compile.
func (p *Plan[P]) Select(params P) int {
	const (
		unknown = iota
		holds
		fails
	)
	state := make([]uint8, len(p.guards))
	check := func(g int) bool {
		if state[g] == unknown {
			state[g] = fails
			if p.guards[g](params) {
				state[g] = holds
			}
		}
		return state[g] == holds
	}
next:
	for i := range p.Branches {
		for _, g := range p.Branches[i].Guards {
			if !check(g) {
				continue next
			}
		}
		return i
	}
	panic(&tablegen.UnmatchedBranchError{Query: p.Name, Branches: len(p.Branches)})
}

// Bind selects the branch for params and returns its statement and
// arguments.
func (p *Plan[P]) Bind(params P) (string, []any) {
	br := &p.Branches[p.Select(params)]
	args := make([]any, len(br.args))
	for i, a := range br.args {
		args[i] = p.args[a](params)
	}
	return br.SQL, args
}

// Statements returns the SQL text of every branch, in dispatch order.
func (p *Plan[P]) Statements() []string {
	stmts := make([]string, len(p.Branches))
	for i := range p.Branches {
		stmts[i] = p.Branches[i].SQL
	}
	return stmts
}
