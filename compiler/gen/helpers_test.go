package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/tablegen/compiler/load"
	"github.com/syssam/tablegen/dialect"
)

var (
	postgres = dialect.MustLookup(dialect.Postgres)
	mysql    = dialect.MustLookup(dialect.MySQL)
)

// fieldSpec is a struct field as written in source: name, type and the
// tablegen tag.
type fieldSpec [3]string

func declaration(t *testing.T, kind load.Kind, name, directive string, fields ...fieldSpec) *load.Declaration {
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

func userDecl(t *testing.T) *load.Declaration {
	return declaration(t, load.KindTable, "User", "table=users id=user_id insertable deletable",
		fieldSpec{"UserID", "int64", "column=id,get_one=get_by_user_id,get_by_any"},
		fieldSpec{"Email", "string", "get_optional=by_email(string),set"},
		fieldSpec{"Role", "Role", "custom_type"},
		fieldSpec{"Token", "uuid.UUID", ""},
		fieldSpec{"LastLogin", "*time.Time", "default,set=touch"},
	)
}

func updateUserDecl(t *testing.T) *load.Declaration {
	return declaration(t, load.KindPatch, "UpdateUser", "table_name=users table=User id=id",
		fieldSpec{"Email", "string", ""},
		fieldSpec{"Role", "Role", "custom_type"},
	)
}
