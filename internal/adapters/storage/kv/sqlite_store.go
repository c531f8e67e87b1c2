package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dojohub/internal/adapters/storage"
)

// DefaultHistoryDepth is how many replaced values are kept per key.
const DefaultHistoryDepth = 5

// SQLiteStore implements Store on the kv table.
type SQLiteStore struct {
	db           storage.SQLDB
	historyDepth int
	now          func() time.Time
}

// Ensure SQLiteStore implements Store and HistoryStore.
var (
	_ Store        = (*SQLiteStore)(nil)
	_ HistoryStore = (*SQLiteStore)(nil)
)

// NewSQLiteStore creates a kv store over a migrated database.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, historyDepth: DefaultHistoryDepth, now: time.Now}
}

// Get retrieves the value stored under key.
// PRE: key is non-empty
// POST: Returns the value or ErrNotFound
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("kv get %q: %w", key, err)
	}
	return []byte(value), nil
}

// Put replaces the value under key inside one transaction, moving the
// previous value into kv_history and pruning it to the history depth.
// PRE: key is non-empty
// POST: Value persisted; at most historyDepth revisions kept for key
func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	now := s.now().UTC().Format(time.RFC3339Nano)
	err := storage.InTx(ctx, s.db, "kv.put", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO kv_history (key, value, replaced_at) SELECT key, value, ? FROM kv WHERE key = ?",
			now, key,
		); err != nil {
			return fmt.Errorf("archive: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at",
			key, string(value), now,
		); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			DELETE FROM kv_history
			WHERE key = ? AND rowid NOT IN (
				SELECT rowid FROM kv_history WHERE key = ? ORDER BY rowid DESC LIMIT ?
			)`, key, key, s.historyDepth,
		); err != nil {
			return fmt.Errorf("prune: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("kv put %q: %w", key, err)
	}
	return nil
}

// Delete removes key and its history.
// POST: Get(key) returns ErrNotFound
func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	err := storage.InTx(ctx, s.db, "kv.delete", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM kv_history WHERE key = ?", key); err != nil {
			return fmt.Errorf("history: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// History returns the replaced values of key, newest first. Order follows
// insertion, so a clock step or a shorter RFC3339Nano string cannot reorder it.
// PRE: limit > 0
func (s *SQLiteStore) History(ctx context.Context, key string, limit int) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT value, replaced_at FROM kv_history WHERE key = ? ORDER BY rowid DESC LIMIT ?",
		key, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("kv history %q: %w", key, err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		var value, replacedAt string
		if err := rows.Scan(&value, &replacedAt); err != nil {
			return nil, err
		}
		ts, err := time.Parse(time.RFC3339Nano, replacedAt)
		if err != nil {
			return nil, fmt.Errorf("kv history %q: bad timestamp: %w", key, err)
		}
		out = append(out, Revision{Value: []byte(value), ReplacedAt: ts})
	}
	return out, rows.Err()
}
