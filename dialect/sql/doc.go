// Package sql implements the dialect.Driver interface on top of database/sql.
//
// Generated operations accept a dialect.ExecQuerier, so any of the types in
// this package can be passed to them: a *Driver for autocommit statements, a
// Tx returned from Driver.Tx for transactional work, or one of the wrapping
// drivers that add observability.
//
//	db, err := stdsql.Open("pgx", dsn)
//	if err != nil {
//	    return err
//	}
//	drv := sql.OpenDB(dialect.Postgres, db)
//
// # Statistics and logging
//
// StatsDriver counts statements and reports slow ones; DebugDriver logs each
// statement through log/slog. Both wrap a Checker and are Checkers, so they
// stack. tablegen verify counts through the stats driver and adds the debug
// driver at -vv:
//
//	stats := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(logger),
//	)
//	dbg := sql.NewDebugDriver(stats, sql.DebugWithLogger(logger))
package sql
