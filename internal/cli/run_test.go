package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/tablegen/compiler/gen"
	"github.com/syssam/tablegen/compiler/gen/sql"
	sqldriver "github.com/syssam/tablegen/dialect/sql"
)

var discard = slog.New(slog.DiscardHandler)

// copyModels copies the test declarations into a fresh directory so
// generated files never land in testdata.
func copyModels(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "models")
	require.NoError(t, os.Mkdir(dir, 0o755))
	src, err := os.ReadFile(filepath.Join("testdata", "models", "note.go"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.go"), src, 0o644))
	return dir
}

func sqliteConfig(dir string) *Config {
	return &Config{Paths: []string{dir}, Dialect: "sqlite"}
}

func TestBuild(t *testing.T) {
	g, err := Build(sqliteConfig(copyModels(t)), discard)
	require.NoError(t, err)
	require.Len(t, g.Tables, 1)
	require.Len(t, g.Patches, 1)
	assert.Equal(t, "notes", g.Tables[0].Table)
	assert.Equal(t, "models", g.Package)
	assert.Same(t, g.Tables[0], g.Patches[0].Target)
}

func TestBuild_Errors(t *testing.T) {
	t.Run("MissingPath", func(t *testing.T) {
		_, err := Build(&Config{Paths: []string{filepath.Join(t.TempDir(), "nope")}}, discard)
		assert.Equal(t, ExitSchema, ExitCode(err))
	})

	t.Run("UnknownDialect", func(t *testing.T) {
		cfg := sqliteConfig(copyModels(t))
		cfg.Dialect = "oracle"
		_, err := Build(cfg, discard)
		assert.Equal(t, ExitConfig, ExitCode(err))
	})

	t.Run("InvalidSchema", func(t *testing.T) {
		dir := t.TempDir()
		src := "package bad\n\n//tablegen:table table=things\ntype Thing struct {\n\tID int64\n}\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, "thing.go"), []byte(src), 0o644))
		_, err := Build(sqliteConfig(dir), discard)
		require.Error(t, err)
		assert.Equal(t, ExitSchema, ExitCode(err))
		assert.ErrorIs(t, err, gen.ErrMissingAttribute)
	})
}

func TestGenerate(t *testing.T) {
	dir := copyModels(t)
	ctx := context.Background()

	written, err := Generate(ctx, sqliteConfig(dir), discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"note_tablegen.go", "rename_note_tablegen.go"}, written)

	src, err := os.ReadFile(filepath.Join(dir, "note_tablegen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package models")
	assert.Contains(t, string(src), gen.DefaultHeader)

	// Generated files are not read back as declarations.
	g, err := Build(sqliteConfig(dir), discard)
	require.NoError(t, err)
	assert.Len(t, g.Tables, 1)
}

func TestGenerate_Cache(t *testing.T) {
	dir := copyModels(t)
	cfg := sqliteConfig(dir)
	cfg.Cache = true
	ctx := context.Background()

	written, err := Generate(ctx, cfg, discard)
	require.NoError(t, err)
	assert.Len(t, written, 2)
	assert.FileExists(t, filepath.Join(dir, gen.CacheFile))

	written, err = Generate(ctx, cfg, discard)
	require.NoError(t, err)
	assert.Empty(t, written)

	require.NoError(t, os.Remove(filepath.Join(dir, "rename_note_tablegen.go")))
	written, err = Generate(ctx, cfg, discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"rename_note_tablegen.go"}, written)
}

func TestGenerate_Target(t *testing.T) {
	dir := copyModels(t)
	cfg := sqliteConfig(dir)
	cfg.Target = filepath.Join(t.TempDir(), "store")
	cfg.Package = "store"

	written, err := Generate(context.Background(), cfg, discard)
	require.NoError(t, err)
	require.Len(t, written, 2)
	src, err := os.ReadFile(filepath.Join(cfg.Target, written[0]))
	require.NoError(t, err)
	assert.Contains(t, string(src), "package store")
}

func TestGenerate_NoTarget(t *testing.T) {
	dir := copyModels(t)
	cfg := &Config{Paths: []string{filepath.Join(dir, "note.go")}, Dialect: "sqlite"}
	_, err := Generate(context.Background(), cfg, discard)
	assert.Equal(t, ExitConfig, ExitCode(err))
}

func openSQLite(t *testing.T, schema string) *sqldriver.Driver {
	t.Helper()
	drv, err := sqldriver.Open("sqlite", filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })
	_, err = drv.DB().Exec(schema)
	require.NoError(t, err)
	return drv
}

func TestVerify(t *testing.T) {
	g, err := Build(sqliteConfig(copyModels(t)), discard)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("Accepted", func(t *testing.T) {
		drv := openSQLite(t, `CREATE TABLE notes (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`)
		failures, err := Verify(ctx, drv, g, discard)
		require.NoError(t, err)
		assert.Empty(t, failures)
	})

	t.Run("MissingColumn", func(t *testing.T) {
		drv := openSQLite(t, `CREATE TABLE notes (id INTEGER PRIMARY KEY, title TEXT NOT NULL)`)
		failures, err := Verify(ctx, drv, g, discard)
		require.NoError(t, err)
		require.NotEmpty(t, failures)
		for _, f := range failures {
			assert.Equal(t, "Note", f.Statement.Entity)
			assert.Contains(t, f.String(), "Note.")
		}
	})

	t.Run("Canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Verify(ctx, stubPreparer{}, g, discard)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestInstrument(t *testing.T) {
	g, err := Build(sqliteConfig(copyModels(t)), discard)
	require.NoError(t, err)
	drv := openSQLite(t, `CREATE TABLE notes (id INTEGER PRIMARY KEY, title TEXT NOT NULL)`)

	var buf bytes.Buffer
	logger := NewLogger(&buf, 2, false)
	db, stats := Instrument(drv, logger, true)
	failures, err := Verify(context.Background(), db, g, discard)
	require.NoError(t, err)
	require.NotEmpty(t, failures)

	s := stats.Stats()
	assert.EqualValues(t, len(sql.Statements(g)), s.Prepares)
	assert.EqualValues(t, len(failures), s.Errors)
	assert.Zero(t, s.Queries+s.Execs)
	assert.Contains(t, buf.String(), "msg=prepare")
	assert.Contains(t, buf.String(), `msg="prepare failed"`)

	buf.Reset()
	db, _ = Instrument(drv, logger, false)
	require.NoError(t, db.Prepare(context.Background(), "SELECT id FROM notes"))
	assert.NotContains(t, buf.String(), "msg=prepare")
}

type stubPreparer struct{ err error }

func (s stubPreparer) Prepare(context.Context, string) error { return s.err }

func TestVerify_EveryStatement(t *testing.T) {
	g, err := Build(sqliteConfig(copyModels(t)), discard)
	require.NoError(t, err)

	failures, err := Verify(context.Background(), stubPreparer{err: errors.New("nope")}, g, discard)
	require.NoError(t, err)
	assert.NotEmpty(t, failures)
	for _, f := range failures {
		assert.EqualError(t, f.Err, "nope")
	}
}

func TestNewLogger(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		verbose int
		quiet   bool
		enabled slog.Level
		muted   slog.Level
	}{
		{0, false, slog.LevelWarn, slog.LevelInfo},
		{1, false, slog.LevelInfo, slog.LevelDebug},
		{2, false, slog.LevelDebug, slog.LevelDebug - 1},
		{2, true, slog.LevelError, slog.LevelWarn},
	}
	for _, tt := range tests {
		l := NewLogger(io.Discard, tt.verbose, tt.quiet)
		assert.True(t, l.Enabled(ctx, tt.enabled))
		assert.False(t, l.Enabled(ctx, tt.muted))
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitGeneral, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitVerify, ExitCode(VerifyError("rejected", nil)))

	err := DBConnectError("connecting", errors.New("refused"))
	assert.Equal(t, ExitDBConnect, ExitCode(err))
	assert.EqualError(t, err, "connecting: refused")
}
