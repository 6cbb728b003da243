package database

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// SQLDB is the database interface used by the stores.
// Both *sql.DB and *TimedDB satisfy it.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var _ SQLDB = (*sql.DB)(nil)

// TimedDB wraps an SQLDB and logs every statement's duration, at Warn
// level once it crosses the slow-query threshold.
type TimedDB struct {
	db        SQLDB
	log       *zap.Logger
	threshold time.Duration
}

var _ SQLDB = (*TimedDB)(nil)

func NewTimedDB(db SQLDB, log *zap.Logger, slowQueryMs int) *TimedDB {
	return &TimedDB{
		db:        db,
		log:       log.Named("sql"),
		threshold: time.Duration(slowQueryMs) * time.Millisecond,
	}
}

func (t *TimedDB) logQuery(op, query string, start time.Time) {
	elapsed := time.Since(start)
	fields := []zap.Field{
		zap.String("op", op),
		zap.Duration("duration", elapsed),
	}
	if elapsed >= t.threshold {
		t.log.Warn("slow_query", append(fields, zap.String("query", query))...)
		return
	}
	t.log.Debug("query", fields...)
}

func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.logQuery("exec", query, start)
	return result, err
}

func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.logQuery("query", query, start)
	return rows, err
}

func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.logQuery("query_row", query, start)
	return row
}
