package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDialect emits one marker declaration per file.
type stubDialect struct {
	h    GeneratorHelper
	fail string
}

func (d *stubDialect) Name() string { return "stub" }

func (d *stubDialect) GenTable(t *TableSchema) *jen.File {
	f := d.h.NewFile(d.h.Pkg())
	if t.Entity == d.fail {
		// An undefined operator makes rendering fail.
		f.Var().Id("broken").Op("=").Op("~~~")
		return f
	}
	f.Const().Id("table" + t.Entity).Op("=").Lit(t.Table)
	f.Var().Id("_").Add(d.h.GoType(t.ID.Type, t.Imports))
	return f
}

func (d *stubDialect) GenPatch(p *PatchSchema) *jen.File {
	f := d.h.NewFile(d.h.Pkg())
	f.Const().Id("patch" + p.Entity).Op("=").Lit(p.TableName)
	return f
}

func newTestGenerator(t *testing.T, opts ...Option) (*JenniferGenerator, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := MustNewConfig(append([]Option{WithTarget(dir), WithWorkers(2)}, opts...)...)
	graph, err := NewGraph(cfg, userDecl(t), updateUserDecl(t))
	require.NoError(t, err)
	g := NewJenniferGenerator(graph)
	g.WithDialect(&stubDialect{h: g})
	return g, dir
}

func TestGenerate(t *testing.T) {
	g, dir := newTestGenerator(t)
	written, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"user_tablegen.go", "update_user_tablegen.go"}, written)

	b, err := os.ReadFile(filepath.Join(dir, "user_tablegen.go"))
	require.NoError(t, err)
	out := string(b)
	assert.Contains(t, out, "// "+DefaultHeader)
	assert.Contains(t, out, "package models")
	assert.Contains(t, out, `const tableUser = "users"`)

	b, err = os.ReadFile(filepath.Join(dir, "update_user_tablegen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(b), `const patchUpdateUser = "users"`)
}

func TestGenerateHeader(t *testing.T) {
	g, _ := newTestGenerator(t, WithHeader("Custom header."))
	files, err := g.Render(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Contains(t, string(files[0].Content), "// Custom header.")
}

func TestGenerateNoPartialOutput(t *testing.T) {
	g, dir := newTestGenerator(t)
	g.WithDialect(&stubDialect{h: g, fail: "User"})
	_, err := g.Generate(context.Background())
	require.Error(t, err)
	assert.True(t, IsGenerationError(err))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerateCache(t *testing.T) {
	g, dir := newTestGenerator(t)
	cache, err := LoadCache(filepath.Join(dir, CacheFile))
	require.NoError(t, err)
	g.WithCache(cache)

	written, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Len(t, written, 2)

	written, err = g.Generate(context.Background())
	require.NoError(t, err)
	assert.Empty(t, written)

	require.NoError(t, os.Remove(filepath.Join(dir, "user_tablegen.go")))
	written, err = g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"user_tablegen.go"}, written)
}

func TestGenerateWithoutDialect(t *testing.T) {
	g, _ := newTestGenerator(t)
	g.dialect = nil
	_, err := g.Generate(context.Background())
	assert.True(t, IsConfigError(err))
}

func TestGenerateCanceled(t *testing.T) {
	g, _ := newTestGenerator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Render(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHelperPaths(t *testing.T) {
	g, _ := newTestGenerator(t, WithRuntimePkg("example.com/rt"))
	assert.Equal(t, "example.com/rt", g.RuntimePkg())
	assert.Equal(t, "example.com/rt/dialect", g.DialectPkg())
	assert.Equal(t, "example.com/rt/dialect/sql", g.SQLPkg())
	assert.Equal(t, "models", g.Pkg())
	assert.Equal(t, "postgres", g.Backend().Name)
	assert.NotNil(t, g.Graph())
}
