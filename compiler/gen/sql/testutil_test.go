package sql

import (
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"

	"github.com/syssam/tablegen/compiler/gen"
	"github.com/syssam/tablegen/compiler/load"
	"github.com/syssam/tablegen/dialect"
)

// mockHelper implements gen.GeneratorHelper over a graph built from test
// declarations.
type mockHelper struct {
	graph *gen.Graph
}

func newMockHelper(t *testing.T, backend string, decls ...*load.Declaration) *mockHelper {
	t.Helper()
	cfg, err := gen.NewConfig(gen.WithDialect(backend))
	require.NoError(t, err)
	g, err := gen.NewGraph(cfg, decls...)
	require.NoError(t, err)
	return &mockHelper{graph: g}
}

func (m *mockHelper) NewFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(gen.DefaultHeader)
	return f
}

func (m *mockHelper) GoType(expr string, imports map[string]string) jen.Code {
	c, err := gen.TypeCode(expr, imports)
	if err != nil {
		return jen.Id(expr)
	}
	return c
}

func (m *mockHelper) RuntimePkg() string                 { return gen.DefaultRuntimePkg }
func (m *mockHelper) DialectPkg() string                 { return gen.DefaultRuntimePkg + "/dialect" }
func (m *mockHelper) SQLPkg() string                     { return gen.DefaultRuntimePkg + "/dialect/sql" }
func (m *mockHelper) Backend() *dialect.Backend          { return m.graph.Backend }
func (m *mockHelper) Graph() *gen.Graph                  { return m.graph }
func (m *mockHelper) Pkg() string                        { return m.graph.Package }
func (m *mockHelper) table(name string) *gen.TableSchema { return m.graph.Table(name) }

// Ensure mockHelper implements gen.GeneratorHelper.
var _ gen.GeneratorHelper = (*mockHelper)(nil)

func declaration(t *testing.T, kind load.Kind, name, directive string, fields ...[3]string) *load.Declaration {
	t.Helper()
	opts, err := load.ParseDirective(directive, "models.go:3:1")
	require.NoError(t, err)
	d := &load.Declaration{
		Kind:    kind,
		Name:    name,
		Package: "models",
		Options: opts,
		Imports: map[string]string{"uuid": "github.com/google/uuid", "time": "time"},
		Pos:     "models.go:4:6",
	}
	for _, f := range fields {
		fopts, err := load.ParseTag(f[2], "models.go:5:2")
		require.NoError(t, err)
		d.Fields = append(d.Fields, &load.Field{Name: f[0], Type: f[1], Options: fopts, Pos: "models.go:5:2"})
	}
	return d
}

// userDecl declares a PostgreSQL table using every field option.
func userDecl(t *testing.T) *load.Declaration {
	return declaration(t, load.KindTable, "User", "table=users id=user_id insertable deletable",
		[3]string{"UserID", "int64", "column=id,get_one=get_by_user_id,get_by_any"},
		[3]string{"Email", "string", "get_optional=by_email(string),set"},
		[3]string{"Role", "Role", "custom_type"},
		[3]string{"Token", "uuid.UUID", ""},
		[3]string{"LastLogin", "*time.Time", "default,set=touch"},
	)
}

func updateUserDecl(t *testing.T) *load.Declaration {
	return declaration(t, load.KindPatch, "UpdateUser", "table_name=users table=User id=id",
		[3]string{"Email", "string", ""},
		[3]string{"Role", "Role", "custom_type"},
	)
}

// accountDecl declares a table valid on every backend, with a reserved
// column and a default.
func accountDecl(t *testing.T) *load.Declaration {
	return declaration(t, load.KindTable, "Account", "table=accounts id=id insertable",
		[3]string{"ID", "int64", ""},
		[3]string{"Name", "string", "get_many"},
		[3]string{"Order", "int", ""},
		[3]string{"CreatedAt", "time.Time", "default"},
	)
}

func counterDecl(t *testing.T) *load.Declaration {
	return declaration(t, load.KindTable, "Counter", "table=counters id=id insertable",
		[3]string{"ID", "int64", ""},
	)
}

func statementMap(stmts []Statement) map[string]string {
	m := make(map[string]string, len(stmts))
	for _, s := range stmts {
		m[s.Const] = s.SQL
	}
	return m
}
