package dialect

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
)

// Backend describes the SQL text conventions of one dialect: the identifier
// quote character, the reserved words, and the placeholder syntax.
// A Backend is immutable and safe for concurrent use.
type Backend struct {
	// Name is the dialect name (see the dialect constants).
	Name string
	// QuoteChar wraps identifiers that collide with reserved words.
	QuoteChar byte
	// Numbered reports whether placeholders are numbered ($1, $2, ...).
	// Unnumbered dialects repeat "?".
	Numbered bool
	// Returning reports whether INSERT can return generated columns in
	// the same round trip.
	Returning bool
	// LastInsertID is the statement that reads the identifier generated by
	// the last INSERT on the connection. Empty for returning-capable dialects.
	LastInsertID string
	// ArrayParams reports whether a single parameter may carry an array,
	// as needed by "= ANY(...)" lookups.
	ArrayParams bool

	reserved map[string]struct{}
}

var (
	postgresBackend = &Backend{
		Name:        Postgres,
		QuoteChar:   '"',
		Numbered:    true,
		Returning:   true,
		ArrayParams: true,
		reserved:    wordSet(sqlReserved, postgresReserved),
	}
	mysqlBackend = &Backend{
		Name:         MySQL,
		QuoteChar:    '`',
		LastInsertID: "SELECT LAST_INSERT_ID() AS id",
		reserved:     wordSet(sqlReserved, mysqlReserved),
	}
	sqliteBackend = &Backend{
		Name:      SQLite,
		QuoteChar: '"',
		Returning: true,
		reserved:  wordSet(sqlReserved, sqliteReserved),
	}
)

// Backends returns the descriptors of all supported dialects.
func Backends() []*Backend {
	return []*Backend{postgresBackend, mysqlBackend, sqliteBackend}
}

// Lookup returns the Backend registered for the given dialect name.
// "sqlite3" and "pgx" are accepted as aliases.
func Lookup(name string) (*Backend, error) {
	switch strings.ToLower(name) {
	case Postgres, "postgresql", "pgx":
		return postgresBackend, nil
	case MySQL, "mariadb":
		return mysqlBackend, nil
	case SQLite, "sqlite3":
		return sqliteBackend, nil
	default:
		return nil, fmt.Errorf("dialect: unsupported dialect %q", name)
	}
}

// MustLookup is like Lookup but panics on unknown names.
func MustLookup(name string) *Backend {
	b, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return b
}

// Reserved reports whether ident is a reserved word of the dialect.
// The comparison is case-insensitive.
func (b *Backend) Reserved(ident string) bool {
	_, ok := b.reserved[strings.ToUpper(ident)]
	return ok
}

// Quote returns ident wrapped in the quote character if it is reserved.
func (b *Backend) Quote(ident string) string {
	if b.Reserved(ident) {
		return b.ForceQuote(ident)
	}
	return ident
}

// ForceQuote returns ident wrapped in the quote character. Embedded quote
// characters are doubled.
func (b *Backend) ForceQuote(ident string) string {
	q := string(b.QuoteChar)
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

// Placeholder returns the i-th (1-based) placeholder of a statement.
func (b *Backend) Placeholder(i int) string {
	if b.Numbered {
		return "$" + strconv.Itoa(i)
	}
	return "?"
}

// Placeholders returns a fresh placeholder generator for one statement.
func (b *Backend) Placeholders() *Placeholders {
	return &Placeholders{b: b}
}

// Sequence returns the infinite placeholder sequence of one statement.
func (b *Backend) Sequence() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 1; ; i++ {
			if !yield(b.Placeholder(i)) {
				return
			}
		}
	}
}

// String implements fmt.Stringer.
func (b *Backend) String() string { return b.Name }

// Placeholders generates the placeholders of a single statement.
// It is not safe for concurrent use.
type Placeholders struct {
	b *Backend
	n int
}

// Next returns the next placeholder.
func (p *Placeholders) Next() string {
	p.n++
	return p.b.Placeholder(p.n)
}

// Take returns the next n placeholders.
func (p *Placeholders) Take(n int) []string {
	phs := make([]string, n)
	for i := range phs {
		phs[i] = p.Next()
	}
	return phs
}

// Count returns how many placeholders were generated.
func (p *Placeholders) Count() int { return p.n }

// Reset restarts numbering for a new statement.
func (p *Placeholders) Reset() { p.n = 0 }

func wordSet(lists ...[]string) map[string]struct{} {
	m := make(map[string]struct{})
	for _, l := range lists {
		for _, w := range l {
			m[strings.ToUpper(w)] = struct{}{}
		}
	}
	return m
}
