// Package console owns the academy state. A Console is the only writer of the
// entity collections and scalars, and every mutation is persisted before it
// returns.
package console

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"dojohub/internal/domain/instructor"
	"dojohub/internal/domain/payment"
	"dojohub/internal/domain/post"
	"dojohub/internal/domain/product"
	"dojohub/internal/domain/settings"
	"dojohub/internal/domain/snapshot"
	"dojohub/internal/domain/student"
	"dojohub/internal/domain/subscription"
	"dojohub/internal/domain/task"
)

// Mutation errors
var (
	ErrNotFound     = errors.New("entity not found")
	ErrDuplicateID  = errors.New("an entity with this id already exists")
	ErrMissingID    = errors.New("entity id is required")
	ErrUnknownPayer = errors.New("payer does not exist")
	ErrPersist      = errors.New("state changed but could not be saved")
)

// Persister loads and saves the whole snapshot.
type Persister interface {
	Load(ctx context.Context) (snapshot.Snapshot, error)
	Save(ctx context.Context, s snapshot.Snapshot) error
}

// Console is the entity store and its mutation API.
// INVARIANT: every payment's payer exists unless it was already orphaned on load
type Console struct {
	mu          sync.Mutex
	state       snapshot.Snapshot
	persister   Persister
	now         func() time.Time
	lastSaveErr error
}

// Open hydrates a Console from the persister. When no usable record exists the
// first-run content is seeded and saved.
// PRE: persister is non-nil
// POST: Returns a hydrated Console; an error only if the store could not be read
func Open(ctx context.Context, persister Persister, now func() time.Time) (*Console, error) {
	if now == nil {
		now = time.Now
	}
	c := &Console{persister: persister, now: now}

	state, err := persister.Load(ctx)
	switch {
	case err == nil:
		c.state = state
		slog.Info("console_hydrated", "students", len(state.Students), "instructors", len(state.Instructors), "payments", len(state.Payments))
		return c, nil
	case errors.Is(err, snapshot.ErrFirstRun):
		c.state = snapshot.FirstRun(now())
		slog.Info("console_seeded", "malformed", errors.Is(err, snapshot.ErrMalformedRecord))
		c.mu.Lock()
		defer c.mu.Unlock()
		// A failed seed save is recorded, not fatal: the in-memory state is usable.
		_ = c.commitLocked(ctx, "seed")
		return c, nil
	default:
		return nil, fmt.Errorf("open console: %w", err)
	}
}

// NewID mints a fresh opaque identifier.
func NewID() string {
	return uuid.New().String()
}

// Now returns the console clock's current time.
func (c *Console) Now() time.Time {
	return c.now()
}

// LastSaveError returns the error of the most recent save, or nil if it succeeded.
func (c *Console) LastSaveError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSaveErr
}

// commitLocked saves the current state. Callers must hold c.mu.
// POST: lastSaveErr reflects this save; a failure is wrapped in ErrPersist
func (c *Console) commitLocked(ctx context.Context, op string) error {
	if err := c.persister.Save(ctx, c.state.Clone()); err != nil {
		c.lastSaveErr = err
		slog.Error("snapshot_save_failed", "op", op, "error", err.Error())
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	c.lastSaveErr = nil
	slog.Debug("snapshot_saved", "op", op)
	return nil
}

// --- Readers. Every reader returns a deep copy. ---

// Snapshot returns a copy of the complete state.
func (c *Console) Snapshot() snapshot.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Students returns all students in insertion order.
func (c *Console) Students() []student.Student {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]student.Student, len(c.state.Students))
	for i, s := range c.state.Students {
		out[i] = s.Clone()
	}
	return out
}

// Instructors returns all instructors in insertion order.
func (c *Console) Instructors() []instructor.Instructor {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]instructor.Instructor, len(c.state.Instructors))
	for i, in := range c.state.Instructors {
		out[i] = in.Clone()
	}
	return out
}

// Payments returns all payments in insertion order.
func (c *Console) Payments() []payment.Payment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]payment.Payment{}, c.state.Payments...)
}

// Products returns the store catalog in insertion order.
func (c *Console) Products() []product.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]product.Product{}, c.state.Products...)
}

// Posts returns the community feed, newest first.
func (c *Console) Posts() []post.Post {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]post.Post{}, c.state.Posts...)
}

// Tasks returns all administrative tasks in insertion order.
func (c *Console) Tasks() []task.AdminTask {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]task.AdminTask, len(c.state.Tasks))
	for i, t := range c.state.Tasks {
		out[i] = t.Clone()
	}
	return out
}

// Subscription returns the academy's plan.
func (c *Console) Subscription() subscription.Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Subscription
}

// Settings returns the scalar settings.
func (c *Console) Settings() settings.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Settings.Clone()
}

// Student returns the student with id, or ErrNotFound.
func (c *Console) Student(id string) (student.Student, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Students, id, studentID)
	if i < 0 {
		return student.Student{}, ErrNotFound
	}
	return c.state.Students[i].Clone(), nil
}

// Instructor returns the instructor with id, or ErrNotFound.
func (c *Console) Instructor(id string) (instructor.Instructor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Instructors, id, instructorID)
	if i < 0 {
		return instructor.Instructor{}, ErrNotFound
	}
	return c.state.Instructors[i].Clone(), nil
}

// Payer is a resolved payment payer.
type Payer struct {
	Kind payment.PayerKind
	ID   string
	Name string
}

// ResolvePayer looks up the payer of p. An untagged payment is resolved
// students first.
// POST: Returns the payer or ErrNotFound if it no longer exists
func (c *Console) ResolvePayer(p payment.Payment) (Payer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolvePayerLocked(p.PayerKind, p.PayerID)
}

func (c *Console) resolvePayerLocked(kind payment.PayerKind, id string) (Payer, error) {
	if kind == "" || kind == payment.PayerStudent {
		if i := indexOf(c.state.Students, id, studentID); i >= 0 {
			return Payer{Kind: payment.PayerStudent, ID: id, Name: c.state.Students[i].Name}, nil
		}
	}
	if kind == "" || kind == payment.PayerInstructor {
		if i := indexOf(c.state.Instructors, id, instructorID); i >= 0 {
			return Payer{Kind: payment.PayerInstructor, ID: id, Name: c.state.Instructors[i].Name}, nil
		}
	}
	return Payer{}, ErrNotFound
}

// PaymentsFor returns the payments owed by the given payer, in insertion order.
func (c *Console) PaymentsFor(kind payment.PayerKind, payerID string) []payment.Payment {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []payment.Payment
	for _, p := range c.state.Payments {
		if p.BelongsTo(kind, payerID) {
			out = append(out, p)
		}
	}
	return out
}

// --- Collection helpers ---

func studentID(s student.Student) string          { return s.ID }
func instructorID(i instructor.Instructor) string { return i.ID }
func paymentID(p payment.Payment) string          { return p.ID }
func productID(p product.Product) string          { return p.ID }
func postID(p post.Post) string                   { return p.ID }
func taskID(t task.AdminTask) string              { return t.ID }

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i := range items {
		if idOf(items[i]) == id {
			return i
		}
	}
	return -1
}

// checkNewID rejects an empty id or one already present in items.
func checkNewID[T any](items []T, id string, idOf func(T) string) error {
	if id == "" {
		return ErrMissingID
	}
	if indexOf(items, id, idOf) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	return nil
}

func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}
