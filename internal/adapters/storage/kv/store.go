package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key holds no value.
var ErrNotFound = errors.New("key not found")

// Store is a durable string key-value store.
type Store interface {
	// Get returns the value stored under key.
	// PRE: key is non-empty
	// POST: Returns the value or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value under key.
	// PRE: key is non-empty
	// POST: A following Get returns value
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Revision is a value that used to be stored under a key.
type Revision struct {
	Value      []byte
	ReplacedAt time.Time
}

// HistoryStore is implemented by stores that keep replaced values.
type HistoryStore interface {
	History(ctx context.Context, key string, limit int) ([]Revision, error)
}
