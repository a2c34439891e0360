package query

// Token is one element of a Skeleton.
type Token interface {
	token()
}

type (
	literal string

	constant struct{ v any }

	argument[P any] func(P) any

	branchPoint[P any] struct {
		guard  func(P) bool
		tokens []Token
	}
)

func (literal) token()         {}
func (constant) token()        {}
func (argument[P]) token()     {}
func (*branchPoint[P]) token() {}

// Lit returns a literal SQL fragment. Literals are joined with single
// spaces, so surrounding whitespace is insignificant.
func Lit(text string) Token {
	return literal(text)
}

// Arg returns an argument computed from the query parameters. It renders
// as the next placeholder of the backend.
func Arg[P any](fn func(P) any) Token {
	return argument[P](fn)
}

// Value returns an argument bound to v regardless of the parameters.
func Value(v any) Token {
	return constant{v: v}
}

// When returns a branch point. Its tokens are part of the statement only
// when guard holds. Branch points cannot be nested.
func When[P any](guard func(P) bool, tokens ...Token) Token {
	return &branchPoint[P]{guard: guard, tokens: tokens}
}

// Skeleton is a named, uncompiled conditional query over parameters of
// type P.
type Skeleton[P any] struct {
	// Name labels the query in errors. It defaults to the first literal.
	Name   string
	Tokens []Token
}

// New returns a Skeleton.
func New[P any](name string, tokens ...Token) Skeleton[P] {
	return Skeleton[P]{Name: name, Tokens: tokens}
}

// Points returns the number of branch points in the skeleton.
func (s Skeleton[P]) Points() int {
	n := 0
	for _, t := range s.Tokens {
		if _, ok := t.(*branchPoint[P]); ok {
			n++
		}
	}
	return n
}

func (s Skeleton[P]) name() string {
	if s.Name != "" {
		return s.Name
	}
	for _, t := range s.Tokens {
		if l, ok := t.(literal); ok && l != "" {
			return string(l)
		}
	}
	return "query"
}
