package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dojohub/internal/adapters/http/perf"
	"dojohub/internal/adapters/storage/kv"
	domain "dojohub/internal/domain/snapshot"
)

// ErrFirstRun is returned by Load when the caller should seed first-run
// content. A malformed record also matches domain.ErrMalformedRecord.
var ErrFirstRun = domain.ErrFirstRun

// Adapter loads and saves the whole academy state as one record.
type Adapter struct {
	store     kv.Store
	key       string
	now       func() time.Time
	collector *perf.Collector
}

// NewAdapter creates a persistence adapter over a key-value store, using the
// fixed versioned record key.
func NewAdapter(store kv.Store) *Adapter {
	return &Adapter{store: store, key: domain.RecordKey, now: time.Now}
}

// WithCollector records the duration of every Save into c.
func (a *Adapter) WithCollector(c *perf.Collector) *Adapter {
	a.collector = c
	return a
}

// Load reads and decodes the stored record.
// PRE: none
// POST: Returns the snapshot with defaults filled and payer kinds resolved;
// ErrFirstRun if absent; ErrFirstRun+ErrMalformedRecord if unparseable;
// any other error means the store itself failed
func (a *Adapter) Load(ctx context.Context) (domain.Snapshot, error) {
	data, err := a.store.Get(ctx, a.key)
	if errors.Is(err, kv.ErrNotFound) {
		return domain.Snapshot{}, ErrFirstRun
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}

	snap, err := domain.Decode(data, a.now())
	if err != nil {
		slog.Error("snapshot_load_failed", "key", a.key, "bytes", len(data), "error", err.Error())
		return domain.Snapshot{}, fmt.Errorf("%w: %w", ErrFirstRun, err)
	}

	for _, issue := range snap.ResolvePayerKinds() {
		slog.Warn("snapshot_payer_unresolved",
			"payment_id", issue.PaymentID,
			"payer_id", issue.PayerID,
			"reason", issue.Reason,
		)
	}

	slog.Debug("snapshot_loaded",
		"students", len(snap.Students),
		"instructors", len(snap.Instructors),
		"payments", len(snap.Payments),
		"posts", len(snap.Posts),
	)
	return snap, nil
}

// Save serialises the whole snapshot and overwrites the stored record.
// PRE: s is a complete snapshot
// POST: The stored record equals Encode(s)
func (a *Adapter) Save(ctx context.Context, s domain.Snapshot) (err error) {
	start := time.Now()
	defer func() {
		a.collector.Record(perf.Entry{
			Kind:       perf.KindSave,
			Path:       "snapshot.save",
			Failed:     err != nil,
			DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
			Timestamp:  start,
		})
	}()

	data, err := domain.Encode(s)
	if err != nil {
		return err
	}
	if err := a.store.Put(ctx, a.key, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Raw returns the stored record bytes untouched, for export.
func (a *Adapter) Raw(ctx context.Context) ([]byte, error) {
	data, err := a.store.Get(ctx, a.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrFirstRun
	}
	return data, err
}

// Reset deletes the stored record so the next Load reports a first run.
func (a *Adapter) Reset(ctx context.Context) error {
	if err := a.store.Delete(ctx, a.key); err != nil {
		return fmt.Errorf("reset snapshot: %w", err)
	}
	return nil
}
