package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/syssam/tablegen/dialect"
)

// Checker is a dialect.Driver that can also check statement text without
// running it. *Driver, *StatsDriver and *DebugDriver implement it, so the
// wrappers stack:
//
//	stats := sql.NewStatsDriver(drv)
//	db := sql.NewDebugDriver(stats, sql.DebugWithLogger(logger))
type Checker interface {
	dialect.Driver
	Prepare(ctx context.Context, query string) error
}

// counters are the live statement counters of a StatsDriver.
type counters struct {
	queries  atomic.Int64
	execs    atomic.Int64
	prepares atomic.Int64
	errors   atomic.Int64
	slow     atomic.Int64
	elapsed  atomic.Int64
}

// StatsSnapshot is a point-in-time copy of the counters of a StatsDriver.
type StatsSnapshot struct {
	Queries  int64         // row-returning statements run
	Execs    int64         // statements run for their effect
	Prepares int64         // statements checked without running
	Errors   int64         // statements the database rejected
	Slow     int64         // statements slower than the threshold
	Duration time.Duration // time spent in the database
}

// Total returns the number of statements sent to the database.
func (s StatsSnapshot) Total() int64 { return s.Queries + s.Execs + s.Prepares }

// AvgDuration returns the mean statement duration.
func (s StatsSnapshot) AvgDuration() time.Duration {
	if s.Total() == 0 {
		return 0
	}
	return s.Duration / time.Duration(s.Total())
}

// String returns a one-line summary.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d prepares=%d errors=%d slow=%d duration=%s avg=%s",
		s.Queries, s.Execs, s.Prepares, s.Errors, s.Slow, s.Duration, s.AvgDuration())
}

// StatsDriver counts the statements sent through it and logs the slow ones.
type StatsDriver struct {
	Checker
	c         *counters
	threshold time.Duration
	logger    *slog.Logger
}

// StatsOption configures a StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration above which a statement counts as
// slow. Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.threshold = d
	}
}

// WithSlowQueryLog logs slow statements to logger at warn level.
func WithSlowQueryLog(logger *slog.Logger) StatsOption {
	return func(s *StatsDriver) {
		s.logger = logger
	}
}

// NewStatsDriver wraps drv with statement counters.
//
//	stats := sql.NewStatsDriver(drv, sql.WithSlowThreshold(200*time.Millisecond))
//	u, err := models.GetUser(ctx, stats, 1)
//	fmt.Println(stats.Stats())
func NewStatsDriver(drv Checker, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Checker:   drv,
		c:         &counters{},
		threshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns a snapshot of the counters.
func (d *StatsDriver) Stats() StatsSnapshot {
	return StatsSnapshot{
		Queries:  d.c.queries.Load(),
		Execs:    d.c.execs.Load(),
		Prepares: d.c.prepares.Load(),
		Errors:   d.c.errors.Load(),
		Slow:     d.c.slow.Load(),
		Duration: time.Duration(d.c.elapsed.Load()),
	}
}

// Reset sets all counters to zero.
func (d *StatsDriver) Reset() {
	for _, n := range []*atomic.Int64{&d.c.queries, &d.c.execs, &d.c.prepares, &d.c.errors, &d.c.slow, &d.c.elapsed} {
		n.Store(0)
	}
}

// Query runs a query and counts it.
func (d *StatsDriver) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Checker.Query(ctx, query, args, v)
	d.record(ctx, &d.c.queries, query, start, err)
	return err
}

// Exec runs a statement and counts it.
func (d *StatsDriver) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := d.Checker.Exec(ctx, query, args, v)
	d.record(ctx, &d.c.execs, query, start, err)
	return err
}

// Prepare checks a statement and counts it.
func (d *StatsDriver) Prepare(ctx context.Context, query string) error {
	start := time.Now()
	err := d.Checker.Prepare(ctx, query)
	d.record(ctx, &d.c.prepares, query, start, err)
	return err
}

// Tx starts a transaction whose statements are counted too.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Checker.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &statsTx{Tx: tx, d: d}, nil
}

func (d *StatsDriver) record(ctx context.Context, kind *atomic.Int64, query string, start time.Time, err error) {
	elapsed := time.Since(start)
	kind.Add(1)
	d.c.elapsed.Add(int64(elapsed))
	if err != nil {
		d.c.errors.Add(1)
	}
	if elapsed <= d.threshold {
		return
	}
	d.c.slow.Add(1)
	if d.logger != nil {
		d.logger.WarnContext(ctx, "slow statement", "duration", elapsed, "sql", query)
	}
}

type statsTx struct {
	dialect.Tx
	d *StatsDriver
}

func (tx *statsTx) Query(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Query(ctx, query, args, v)
	tx.d.record(ctx, &tx.d.c.queries, query, start, err)
	return err
}

func (tx *statsTx) Exec(ctx context.Context, query string, args, v any) error {
	start := time.Now()
	err := tx.Tx.Exec(ctx, query, args, v)
	tx.d.record(ctx, &tx.d.c.execs, query, start, err)
	return err
}

// DebugDriver logs every statement sent through it.
type DebugDriver struct {
	Checker
	logger *slog.Logger
	level  slog.Level
}

// DebugOption configures a DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLogger sets the logger. Default is slog.Default().
func DebugWithLogger(logger *slog.Logger) DebugOption {
	return func(d *DebugDriver) {
		d.logger = logger
	}
}

// DebugWithLevel sets the level statements are logged at. Default is debug.
func DebugWithLevel(level slog.Level) DebugOption {
	return func(d *DebugDriver) {
		d.level = level
	}
}

// NewDebugDriver wraps drv with statement logging.
func NewDebugDriver(drv Checker, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Checker: drv,
		logger:  slog.Default(),
		level:   slog.LevelDebug,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query logs and runs a query.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.logger.Log(ctx, d.level, "query", "sql", query, "args", args)
	return d.Checker.Query(ctx, query, args, v)
}

// Exec logs and runs a statement.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.logger.Log(ctx, d.level, "exec", "sql", query, "args", args)
	return d.Checker.Exec(ctx, query, args, v)
}

// Prepare logs and checks a statement, logging the rejection too.
func (d *DebugDriver) Prepare(ctx context.Context, query string) error {
	d.logger.Log(ctx, d.level, "prepare", "sql", query)
	err := d.Checker.Prepare(ctx, query)
	if err != nil {
		d.logger.Log(ctx, d.level, "prepare failed", "sql", query, "error", err)
	}
	return err
}

// Tx starts a transaction with statement logging.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	d.logger.Log(ctx, d.level, "begin transaction")
	tx, err := d.Checker.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &debugTx{Tx: tx, d: d}, nil
}

type debugTx struct {
	dialect.Tx
	d *DebugDriver
}

func (tx *debugTx) Query(ctx context.Context, query string, args, v any) error {
	tx.d.logger.Log(ctx, tx.d.level, "tx query", "sql", query, "args", args)
	return tx.Tx.Query(ctx, query, args, v)
}

func (tx *debugTx) Exec(ctx context.Context, query string, args, v any) error {
	tx.d.logger.Log(ctx, tx.d.level, "tx exec", "sql", query, "args", args)
	return tx.Tx.Exec(ctx, query, args, v)
}

func (tx *debugTx) Commit() error {
	tx.d.logger.Log(context.Background(), tx.d.level, "commit transaction")
	return tx.Tx.Commit()
}

func (tx *debugTx) Rollback() error {
	tx.d.logger.Log(context.Background(), tx.d.level, "rollback transaction")
	return tx.Tx.Rollback()
}

var (
	_ Checker = (*Driver)(nil)
	_ Checker = (*StatsDriver)(nil)
	_ Checker = (*DebugDriver)(nil)
)
