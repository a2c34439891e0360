package sql

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/tablegen/dialect"
)

func TestStatsDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	drv := NewStatsDriver(OpenDB(dialect.Postgres, db), WithSlowThreshold(0), WithSlowQueryLog(logger))
	ctx := context.Background()

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	rows := &Rows{}
	require.NoError(t, drv.Query(ctx, "SELECT 1", []any{}, rows))
	require.NoError(t, rows.Close())

	mock.ExpectExec("DELETE").WillReturnError(errors.New("locked"))
	require.Error(t, drv.Exec(ctx, "DELETE FROM t", []any{}, nil))

	mock.ExpectPrepare("SELECT id FROM t").WillBeClosed()
	require.NoError(t, drv.Prepare(ctx, "SELECT id FROM t"))
	mock.ExpectPrepare("SELECT nope").WillReturnError(errors.New(`column "nope" does not exist`))
	require.Error(t, drv.Prepare(ctx, "SELECT nope FROM t"))

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Exec(ctx, "UPDATE t SET a = 1", []any{}, nil))
	require.NoError(t, tx.Commit())

	s := drv.Stats()
	assert.EqualValues(t, 1, s.Queries)
	assert.EqualValues(t, 2, s.Execs)
	assert.EqualValues(t, 2, s.Prepares)
	assert.EqualValues(t, 2, s.Errors)
	assert.EqualValues(t, 5, s.Slow)
	assert.EqualValues(t, 5, s.Total())
	assert.Contains(t, s.String(), "queries=1 execs=2 prepares=2 errors=2")
	assert.Contains(t, buf.String(), `msg="slow statement"`)
	assert.Contains(t, buf.String(), `sql="UPDATE t SET a = 1"`)

	drv.Reset()
	assert.Equal(t, StatsSnapshot{}, drv.Stats())
	assert.Zero(t, StatsSnapshot{}.AvgDuration())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsDriver_Threshold(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	drv := NewStatsDriver(OpenDB(dialect.MySQL, db), WithSlowThreshold(time.Hour))
	mock.ExpectExec("DELETE").WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, drv.Exec(context.Background(), "DELETE FROM t", []any{}, nil))

	s := drv.Stats()
	assert.EqualValues(t, 1, s.Execs)
	assert.Zero(t, s.Slow)
	assert.Equal(t, dialect.MySQL, drv.Dialect())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDebugDriver(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	stats := NewStatsDriver(OpenDB(dialect.Postgres, db))
	drv := NewDebugDriver(stats, DebugWithLogger(logger))
	ctx := context.Background()

	mock.ExpectExec("INSERT").WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, drv.Exec(ctx, "INSERT INTO t (a) VALUES ($1)", []any{1}, nil))

	mock.ExpectPrepare("SELECT nope").WillReturnError(errors.New("no such column"))
	require.Error(t, drv.Prepare(ctx, "SELECT nope FROM t"))

	mock.ExpectBegin()
	mock.ExpectRollback()
	tx, err := drv.Tx(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	out := buf.String()
	assert.Contains(t, out, "msg=exec")
	assert.Contains(t, out, `sql="INSERT INTO t (a) VALUES ($1)"`)
	assert.Contains(t, out, "msg=prepare")
	assert.Contains(t, out, `msg="prepare failed"`)
	assert.Contains(t, out, `msg="begin transaction"`)
	assert.Contains(t, out, `msg="rollback transaction"`)

	// The statements reached the stats driver underneath.
	assert.EqualValues(t, 1, stats.Stats().Execs)
	assert.EqualValues(t, 1, stats.Stats().Errors)
	require.NoError(t, mock.ExpectationsWereMet())
}
