package sql

import (
	"strings"
	"unicode"

	"github.com/syssam/tablegen/compiler/gen"
	"github.com/syssam/tablegen/dialect"
)

// Statement is one SQL statement of the generated access layer, held in a
// package-level constant of the generated file.
type Statement struct {
	Const  string // name of the generated constant
	Entity string // table or patch the statement belongs to
	SQL    string
}

// Statements returns every statement generated for the graph, in
// declaration order.
func Statements(g *gen.Graph) []Statement {
	var out []Statement
	for _, t := range g.Tables {
		out = append(out, TableStatements(g.Backend, t)...)
	}
	for _, p := range g.Patches {
		out = append(out, PatchStatements(g.Backend, p)...)
	}
	return out
}

// TableStatements returns the statements of a table: get, all, paginate,
// update, delete when deletable, setters, insert and its follow-ups when
// insertable, and the declared lookups.
func TableStatements(b *dialect.Backend, t *gen.TableSchema) []Statement {
	s := tableSQL{b: b, t: t}
	stmt := func(op, sql string) Statement {
		return Statement{Const: stmtName(t.Entity, op), Entity: t.Entity, SQL: sql}
	}
	out := []Statement{
		stmt("Get", s.get()),
		stmt("All", s.all()),
		stmt("Paginate", s.paginate()),
	}
	if len(t.FieldsExceptID()) > 0 {
		out = append(out, stmt("Update", s.update()))
	}
	if t.Deletable {
		out = append(out, stmt("Delete", s.delete()))
	}
	for _, st := range t.Setters() {
		out = append(out, stmt(st.GoName(), s.setter(st.Field)))
	}
	if t.Insertable != nil {
		out = append(out, stmt("Insert", s.insert()))
		if !b.Returning {
			out = append(out, stmt("LastID", b.LastInsertID))
			if len(t.DefaultFields()) > 0 {
				out = append(out, stmt("Defaults", s.defaults()))
			}
		}
	}
	for _, l := range t.Lookups() {
		out = append(out, Statement{Const: lookupStmtName(t, l), Entity: t.Entity, SQL: s.lookup(l)})
	}
	return out
}

// PatchStatements returns the update statement of a patch.
func PatchStatements(b *dialect.Backend, p *gen.PatchSchema) []Statement {
	return []Statement{{Const: patchStmtName(p), Entity: p.Entity, SQL: patchSQL(b, p)}}
}

func stmtName(entity, op string) string { return unexport(entity) + op + "Stmt" }

func lookupStmtName(t *gen.TableSchema, l *gen.Lookup) string {
	return unexport(l.GoName(t.Entity)) + "Stmt"
}

func patchStmtName(p *gen.PatchSchema) string { return unexport(p.Entity) + "Stmt" }

// unexport lower-cases the leading word of an identifier, keeping the
// last letter of a leading initialism when a word follows it.
//
//	User       => user
//	HTTPClient => httpClient
//	ID         => id
func unexport(s string) string {
	r := []rune(s)
	n := 0
	for n < len(r) && unicode.IsUpper(r[n]) {
		n++
	}
	if n > 1 && n < len(r) {
		n--
	}
	for i := range n {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}

// tableSQL renders the statements of one table for one backend.
type tableSQL struct {
	b *dialect.Backend
	t *gen.TableSchema
}

func (s tableSQL) table() string { return s.b.Quote(s.t.Table) }

func (s tableSQL) column(f *gen.FieldDescriptor) string { return s.b.Quote(f.Column) }

// columns renders a projection. Custom-typed and renamed columns are
// aliased to the field name; the order is the order of fs.
func (s tableSQL) columns(fs []*gen.FieldDescriptor) string {
	items := make([]string, len(fs))
	for i, f := range fs {
		items[i] = s.column(f)
		if f.CustomType || f.Renamed() {
			items[i] += " AS " + s.b.Quote(f.Name)
		}
	}
	return strings.Join(items, ", ")
}

func (s tableSQL) selectFrom() string {
	return "SELECT " + s.columns(s.t.Fields) + " FROM " + s.table()
}

func (s tableSQL) whereID(ph *dialect.Placeholders) string {
	return " WHERE " + s.column(s.t.ID) + " = " + ph.Next()
}

func (s tableSQL) get() string {
	return s.selectFrom() + s.whereID(s.b.Placeholders())
}

func (s tableSQL) all() string { return s.selectFrom() }

// paginate binds the limit first and the offset second.
func (s tableSQL) paginate() string {
	ph := s.b.Placeholders()
	return s.selectFrom() + " LIMIT " + ph.Next() + " OFFSET " + ph.Next()
}

func (s tableSQL) assignments(fs []*gen.FieldDescriptor, ph *dialect.Placeholders) string {
	items := make([]string, len(fs))
	for i, f := range fs {
		items[i] = s.column(f) + " = " + ph.Next()
	}
	return strings.Join(items, ", ")
}

func (s tableSQL) update() string {
	ph := s.b.Placeholders()
	set := s.assignments(s.t.FieldsExceptID(), ph)
	return "UPDATE " + s.table() + " SET " + set + s.whereID(ph)
}

func (s tableSQL) delete() string {
	return "DELETE FROM " + s.table() + s.whereID(s.b.Placeholders())
}

func (s tableSQL) setter(f *gen.FieldDescriptor) string {
	ph := s.b.Placeholders()
	set := s.assignments([]*gen.FieldDescriptor{f}, ph)
	return "UPDATE " + s.table() + " SET " + set + s.whereID(ph)
}

// insert renders the INSERT of the insertable fields. On returning-capable
// backends the identifier and the default columns come back in the same
// statement.
func (s tableSQL) insert() string {
	fs := s.t.InsertableFields()
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(s.table())
	switch {
	case len(fs) > 0:
		cols := make([]string, len(fs))
		for i, f := range fs {
			cols[i] = s.column(f)
		}
		b.WriteString(" (")
		b.WriteString(strings.Join(cols, ", "))
		b.WriteString(") VALUES (")
		b.WriteString(strings.Join(s.b.Placeholders().Take(len(fs)), ", "))
		b.WriteString(")")
	case s.b.Returning:
		b.WriteString(" DEFAULT VALUES")
	default:
		b.WriteString(" () VALUES ()")
	}
	if s.b.Returning {
		returned := append([]*gen.FieldDescriptor{s.t.ID}, s.t.DefaultFields()...)
		b.WriteString(" RETURNING ")
		b.WriteString(s.columns(returned))
	}
	return b.String()
}

// defaults reads the default columns of a row back by identifier.
func (s tableSQL) defaults() string {
	return "SELECT " + s.columns(s.t.DefaultFields()) + " FROM " + s.table() + s.whereID(s.b.Placeholders())
}

func (s tableSQL) lookup(l *gen.Lookup) string {
	ph := s.b.Placeholders().Next()
	if l.Kind == gen.LookupAny {
		ph = "ANY(" + ph + ")"
	}
	return s.selectFrom() + " WHERE " + s.column(l.Field) + " = " + ph
}

func patchSQL(b *dialect.Backend, p *gen.PatchSchema) string {
	ph := b.Placeholders()
	items := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		items[i] = b.Quote(f.Column) + " = " + ph.Next()
	}
	return "UPDATE " + b.Quote(p.TableName) + " SET " + strings.Join(items, ", ") +
		" WHERE " + b.Quote(p.IDColumn) + " = " + ph.Next()
}
