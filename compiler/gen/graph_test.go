package gen

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/tablegen/compiler/load"
)

func TestNewGraph(t *testing.T) {
	var logs bytes.Buffer
	cfg := MustNewConfig(WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	item := declaration(t, load.KindTable, "Item", "table=items id=id",
		fieldSpec{"ID", "int64", ""},
		fieldSpec{"Order", "int", ""},
	)
	g, err := NewGraph(cfg, userDecl(t), updateUserDecl(t), item)
	require.NoError(t, err)
	require.Len(t, g.Tables, 2)
	require.Len(t, g.Patches, 1)
	assert.Equal(t, "models", g.Package)
	assert.Same(t, g.Table("User"), g.Patches[0].Target)
	assert.Nil(t, g.Table("Missing"))
	require.Len(t, g.Warnings, 1)
	assert.Contains(t, logs.String(), "level=WARN")
	assert.Contains(t, logs.String(), "field=Order")
}

func TestNewGraphUnresolvedPatch(t *testing.T) {
	cfg := MustNewConfig()
	p := declaration(t, load.KindPatch, "Rename", "table_name=accounts table=models.Account id=id",
		fieldSpec{"Name", "string", ""},
	)
	g, err := NewGraph(cfg, p)
	require.NoError(t, err)
	assert.Nil(t, g.Patches[0].Target)
}

func TestNewGraphErrors(t *testing.T) {
	tests := []struct {
		name  string
		patch string
		field fieldSpec
		msg   string
	}{
		{"table name", "table_name=people table=User id=id", fieldSpec{"Email", "string", ""}, `table_name "people" does not match table "users"`},
		{"id column", "table_name=users table=User id=user_id", fieldSpec{"Email", "string", ""}, `id "user_id" does not match identifier column "id"`},
		{"unknown field", "table_name=users table=User id=id", fieldSpec{"Nickname", "string", ""}, "field does not exist on User"},
		{"identifier", "table_name=users table=User id=id", fieldSpec{"UserID", "int64", "column=id"}, "patch cannot update the identifier"},
		{"column", "table_name=users table=User id=id", fieldSpec{"Email", "string", "column=mail"}, `column "mail" does not match column "email"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := declaration(t, load.KindPatch, "P", tt.patch, tt.field)
			_, err := NewGraph(MustNewConfig(), userDecl(t), p)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidAttribute)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestNewGraphJoinsErrors(t *testing.T) {
	bad1 := declaration(t, load.KindTable, "A", "id=id", fieldSpec{"ID", "int64", ""})
	bad2 := declaration(t, load.KindTable, "B", "table=b", fieldSpec{"ID", "int64", ""})
	_, err := NewGraph(MustNewConfig(), bad1, bad2, userDecl(t), userDecl(t))
	require.Error(t, err)
	var joined interface{ Unwrap() []error }
	require.True(t, errors.As(err, &joined))
	assert.Len(t, joined.Unwrap(), 3)
	assert.Contains(t, err.Error(), "type declared twice")
}

func TestNewGraphPackage(t *testing.T) {
	cfg := MustNewConfig(WithPackage("store"))
	g, err := NewGraph(cfg, userDecl(t))
	require.NoError(t, err)
	assert.Equal(t, "store", g.Package)

	other := userDecl(t)
	other.Name, other.Package = "Other", "elsewhere"
	_, err = NewGraph(MustNewConfig(), userDecl(t), other)
	assert.True(t, IsConfigError(err))

	g, err = NewGraph(MustNewConfig(WithTarget("out/db")))
	require.NoError(t, err)
	assert.Equal(t, "db", g.Package)
}

func TestNewGraphNoBackend(t *testing.T) {
	_, err := NewGraph(&Config{})
	assert.ErrorIs(t, err, ErrMissingConfig)
}
