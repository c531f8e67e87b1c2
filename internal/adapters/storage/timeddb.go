package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dojohub/internal/adapters/http/perf"
)

// SQLDB is the database interface used by the stores.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ SQLDB = (*sql.DB)(nil)
	_ SQLDB = (*TimedDB)(nil)
)

// DefaultSlowQueryMs is the default threshold for slow query warnings.
const DefaultSlowQueryMs = 100

// TimedDB wraps a *sql.DB to log slow statements and record them to a collector.
// Statements are labelled "<VERB> <table>"; transactions run through InTx are
// timed as a whole under the caller's label.
type TimedDB struct {
	db        *sql.DB
	collector *perf.Collector
	threshold float64
}

// NewTimedDB wraps a *sql.DB with timing instrumentation.
// A non-positive slowQueryMs falls back to DefaultSlowQueryMs.
// PRE: db is a valid database connection
// POST: Returns a TimedDB that logs slow statements and records to collector
func NewTimedDB(db *sql.DB, collector *perf.Collector, slowQueryMs int) *TimedDB {
	if slowQueryMs <= 0 {
		slowQueryMs = DefaultSlowQueryMs
	}
	return &TimedDB{
		db:        db,
		collector: collector,
		threshold: float64(slowQueryMs),
	}
}

func (t *TimedDB) observe(label string, start time.Time, err error) {
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0
	if durationMs >= t.threshold {
		slog.Warn("slow_query", "label", label, "duration_ms", durationMs, "failed", err != nil)
	} else {
		slog.Debug("query", "label", label, "duration_ms", durationMs)
	}
	t.collector.Record(perf.Entry{
		Kind:       perf.KindQuery,
		Path:       label,
		Failed:     err != nil,
		DurationMs: durationMs,
		Timestamp:  start,
	})
}

// ExecContext wraps sql.DB.ExecContext with timing.
func (t *TimedDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := t.db.ExecContext(ctx, query, args...)
	t.observe(statementLabel(query), start, err)
	return result, err
}

// QueryContext wraps sql.DB.QueryContext with timing.
func (t *TimedDB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.db.QueryContext(ctx, query, args...)
	t.observe(statementLabel(query), start, err)
	return rows, err
}

// QueryRowContext wraps sql.DB.QueryRowContext with timing. Errors surface on Scan.
func (t *TimedDB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := t.db.QueryRowContext(ctx, query, args...)
	t.observe(statementLabel(query), start, nil)
	return row
}

// BeginTx starts an untimed transaction. Prefer InTx, which times the whole unit.
func (t *TimedDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return t.db.BeginTx(ctx, opts)
}

// InTx runs fn in a transaction and records its full duration under label.
func (t *TimedDB) InTx(ctx context.Context, label string, fn func(tx *sql.Tx) error) error {
	start := time.Now()
	err := runTx(ctx, t.db, fn)
	t.observe(label, start, err)
	return err
}

// InTx runs fn in a transaction on db: committed when fn returns nil,
// rolled back otherwise. A *TimedDB times the transaction as one unit.
// PRE: fn does not commit or roll back tx itself
func InTx(ctx context.Context, db SQLDB, label string, fn func(tx *sql.Tx) error) error {
	if tdb, ok := db.(*TimedDB); ok {
		return tdb.InTx(ctx, label, fn)
	}
	return runTx(ctx, db, fn)
}

func runTx(ctx context.Context, db SQLDB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// statementLabel reduces a statement to "<VERB> <table>" so the perf view
// groups repeated statements together.
func statementLabel(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "empty"
	}
	verb := strings.ToUpper(fields[0])
	var marker string
	switch verb {
	case "SELECT", "DELETE":
		marker = "FROM"
	case "INSERT":
		marker = "INTO"
	case "UPDATE":
		if len(fields) > 1 {
			return verb + " " + fields[1]
		}
		return verb
	default:
		return verb
	}
	for i, f := range fields[:len(fields)-1] {
		if strings.EqualFold(f, marker) {
			return verb + " " + strings.Trim(fields[i+1], "();")
		}
	}
	return verb
}

// Close closes the underlying database connection.
func (t *TimedDB) Close() error {
	return t.db.Close()
}
