package query

import (
	"fmt"
	"slices"
	"strings"

	"github.com/syssam/tablegen/dialect"
)

// DefaultMaxBranchPoints is the number of branch points a skeleton may
// hold unless WithMaxBranchPoints says otherwise. Five points compile to at
// most 32 branches.
const DefaultMaxBranchPoints = 5

type options struct {
	maxPoints int
}

// Option configures Compile.
type Option func(*options)

// WithMaxBranchPoints sets the number of branch points a skeleton may hold.
// Negative values are treated as zero.
func WithMaxBranchPoints(n int) Option {
	return func(o *options) {
		o.maxPoints = max(n, 0)
	}
}

// Compile expands s into one statement per combination of its branch
// points and renders every statement for backend b.
//
// Literals and arguments outside a branch point are added to every branch.
// A branch point clones the branches built so far and adds its guard and
// tokens to the clones only. The clones are placed before the branches they
// were cloned from, so the final list ends with the branch that has no
// guards.
func Compile[P any](b *dialect.Backend, s Skeleton[P], opts ...Option) (*Plan[P], error) {
	o := options{maxPoints: DefaultMaxBranchPoints}
	for _, opt := range opts {
		opt(&o)
	}
	name := s.name()
	if b == nil {
		return nil, compileError(EmptyQuery, name, -1, "no backend")
	}
	if n := s.Points(); n > o.maxPoints {
		return nil, compileError(BranchCapacityExceeded, name, -1,
			"%d branch points exceed the limit of %d (%d branches)", n, o.maxPoints, 1<<o.maxPoints)
	}
	c := &compiler[P]{
		plan:     &Plan[P]{Name: name, Backend: b},
		branches: []Branch{{}},
	}
	for _, t := range s.Tokens {
		if err := c.token(t); err != nil {
			return nil, err
		}
	}
	c.plan.Branches = c.branches
	for i := range c.plan.Branches {
		br := &c.plan.Branches[i]
		br.render(b)
		if br.SQL == "" {
			return nil, compileError(EmptyQuery, name, i, "branch renders no SQL")
		}
	}
	if err := c.plan.checkShape(); err != nil {
		return nil, err
	}
	return c.plan, nil
}

// MustCompile is like Compile but panics on error. It simplifies the
// initialization of package-level plans.
func MustCompile[P any](b *dialect.Backend, s Skeleton[P], opts ...Option) *Plan[P] {
	p, err := Compile(b, s, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

type compiler[P any] struct {
	plan     *Plan[P]
	branches []Branch
}

func (c *compiler[P]) token(t Token) error {
	switch t := t.(type) {
	case *branchPoint[P]:
		frags, err := c.fragments(t.tokens)
		if err != nil {
			return err
		}
		g := len(c.plan.guards)
		c.plan.guards = append(c.plan.guards, t.guard)
		clones := make([]Branch, 0, 2*len(c.branches))
		for _, br := range c.branches {
			clones = append(clones, Branch{
				Guards:    append(slices.Clone(br.Guards), g),
				Fragments: append(slices.Clone(br.Fragments), frags...),
			})
		}
		c.branches = append(clones, c.branches...)
		return nil
	default:
		frags, err := c.fragments([]Token{t})
		if err != nil {
			return err
		}
		for i := range c.branches {
			c.branches[i].Fragments = append(c.branches[i].Fragments, frags...)
		}
		return nil
	}
}

// fragments converts the literal and argument tokens of one skeleton
// position, registering each argument once.
func (c *compiler[P]) fragments(tokens []Token) ([]Fragment, error) {
	frags := make([]Fragment, 0, len(tokens))
	for _, t := range tokens {
		switch t := t.(type) {
		case literal:
			if text := strings.Join(strings.Fields(string(t)), " "); text != "" {
				frags = append(frags, Fragment{Text: text, Arg: -1})
			}
		case constant:
			v := t.v
			frags = append(frags, c.arg(func(P) any { return v }))
		case argument[P]:
			frags = append(frags, c.arg(t))
		case *branchPoint[P]:
			return nil, compileError(NestedBranch, c.plan.Name, -1, "branch points cannot be nested")
		case nil:
			return nil, compileError(ParamTypeMismatch, c.plan.Name, -1, "nil token")
		default:
			var zero P
			return nil, compileError(ParamTypeMismatch, c.plan.Name, -1,
				"token %T does not take parameters of type %T", t, zero)
		}
	}
	return frags, nil
}

func (c *compiler[P]) arg(fn func(P) any) Fragment {
	c.plan.args = append(c.plan.args, fn)
	return Fragment{Arg: len(c.plan.args) - 1}
}

// render joins the fragments with single spaces, numbering the
// placeholders of this branch from one.
func (br *Branch) render(b *dialect.Backend) {
	var (
		parts = make([]string, 0, len(br.Fragments))
		ph    = b.Placeholders()
	)
	br.args = br.args[:0]
	for _, f := range br.Fragments {
		if f.IsArg() {
			parts = append(parts, ph.Next())
			br.args = append(br.args, f.Arg)
			continue
		}
		parts = append(parts, f.Text)
	}
	br.SQL = strings.Join(parts, " ")
}

// checkShape verifies that every branch selects the same columns as the
// first one.
func (p *Plan[P]) checkShape() error {
	want, _ := projection(p.Branches[0].SQL)
	for i := 1; i < len(p.Branches); i++ {
		if got, _ := projection(p.Branches[i].SQL); got != want {
			return compileError(BranchResultShapeMismatch, p.Name, i,
				"selects %s, branch 0 selects %s", describe(got), describe(want))
		}
	}
	return nil
}

func describe(proj string) string {
	if proj == "" {
		return "no columns"
	}
	return fmt.Sprintf("%q", proj)
}

// projection returns the text between a leading SELECT and the first FROM
// outside parentheses and quotes, with whitespace collapsed. Statements
// that do not start with SELECT have an empty projection.
func projection(stmt string) (string, bool) {
	stmt = strings.TrimSpace(stmt)
	if !hasKeyword(stmt, 0, "SELECT") {
		return "", false
	}
	start := len("SELECT")
	end := len(stmt)
	var (
		depth int
		quote byte
	)
scan:
	for i := start; i < len(stmt); i++ {
		ch := stmt[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '(':
			depth++
		case ch == ')':
			depth--
		case depth == 0 && hasKeyword(stmt, i, "FROM"):
			end = i
			break scan
		}
	}
	return strings.Join(strings.Fields(stmt[start:end]), " "), true
}

// hasKeyword reports whether kw starts at s[i] as a whole word.
func hasKeyword(s string, i int, kw string) bool {
	if len(s)-i < len(kw) || !strings.EqualFold(s[i:i+len(kw)], kw) {
		return false
	}
	if i > 0 && isWordByte(s[i-1]) {
		return false
	}
	j := i + len(kw)
	return j == len(s) || !isWordByte(s[j])
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c == '$' ||
		'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}
