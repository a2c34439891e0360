package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/syssam/tablegen/compiler/gen"
	"github.com/syssam/tablegen/compiler/gen/sql"
	"github.com/syssam/tablegen/compiler/load"
	sqldriver "github.com/syssam/tablegen/dialect/sql"
)

// Build loads the declarations and validates them into a graph.
func Build(cfg *Config, logger *slog.Logger) (*gen.Graph, error) {
	decls, err := (&load.Config{Paths: cfg.Paths}).Load()
	if err != nil {
		return nil, SchemaError("loading declarations", err)
	}
	c, err := gen.NewConfig(append(cfg.Options(), gen.WithLogger(logger))...)
	if err != nil {
		return nil, ConfigError("invalid configuration", err)
	}
	g, err := gen.NewGraph(c, decls...)
	if err != nil {
		return nil, SchemaError("invalid schema", err)
	}
	logger.Info("schema loaded",
		"tables", len(g.Tables),
		"patches", len(g.Patches),
		"warnings", len(g.Warnings),
		"dialect", g.Backend.Name,
	)
	return g, nil
}

// Generate builds the graph and writes the generated files. It returns the
// names of the files written.
func Generate(ctx context.Context, cfg *Config, logger *slog.Logger) ([]string, error) {
	g, err := Build(cfg, logger)
	if err != nil {
		return nil, err
	}
	if g.Target == "" {
		return nil, ConfigError("no target directory", nil)
	}
	var caches []*gen.Cache
	if cfg.Cache {
		cache, err := gen.LoadCache(filepath.Join(g.Target, gen.CacheFile))
		if err != nil {
			return nil, GeneralError("loading cache", err)
		}
		caches = append(caches, cache)
	}
	written, err := sql.Generate(ctx, g, caches...)
	if err != nil {
		return nil, GeneralError("generating code", err)
	}
	for _, name := range written {
		logger.Info("wrote file", "file", filepath.Join(g.Target, name))
	}
	return written, nil
}

// Preparer prepares statements against a live database.
type Preparer interface {
	Prepare(ctx context.Context, query string) error
}

// Instrument wraps drv for verification. Every statement is counted by the
// returned stats driver, and logged at debug level when debug is set.
func Instrument(drv sqldriver.Checker, logger *slog.Logger, debug bool) (sqldriver.Checker, *sqldriver.StatsDriver) {
	stats := sqldriver.NewStatsDriver(drv, sqldriver.WithSlowQueryLog(logger))
	if debug {
		return sqldriver.NewDebugDriver(stats, sqldriver.DebugWithLogger(logger)), stats
	}
	return stats, stats
}

// VerifyFailure is a statement the database rejected.
type VerifyFailure struct {
	Statement sql.Statement
	Err       error
}

func (f VerifyFailure) String() string {
	return fmt.Sprintf("%s.%s: %v", f.Statement.Entity, f.Statement.Const, f.Err)
}

// Verify prepares every statement of the graph and returns the ones the
// database rejected. It stops early only when ctx is done.
func Verify(ctx context.Context, db Preparer, g *gen.Graph, logger *slog.Logger) ([]VerifyFailure, error) {
	var failures []VerifyFailure
	for _, stmt := range sql.Statements(g) {
		if err := ctx.Err(); err != nil {
			return failures, err
		}
		if err := db.Prepare(ctx, stmt.SQL); err != nil {
			logger.Warn("statement rejected", "entity", stmt.Entity, "const", stmt.Const, "error", err)
			failures = append(failures, VerifyFailure{Statement: stmt, Err: err})
			continue
		}
		logger.Debug("statement ok", "entity", stmt.Entity, "const", stmt.Const)
	}
	return failures, nil
}
