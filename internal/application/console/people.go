package console

import (
	"context"
	"log/slog"

	"dojohub/internal/domain/instructor"
	"dojohub/internal/domain/payment"
	"dojohub/internal/domain/student"
	"dojohub/internal/domain/subscription"
)

// AddStudent appends a student.
// PRE: s.ID is set and unused
// POST: s is the last student; state saved
// INVARIANT: an active student is refused with ErrStudentLimitReached once
// the plan is full
func (c *Console) AddStudent(ctx context.Context, s student.Student) error {
	if err := s.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkNewID(c.state.Students, s.ID, studentID); err != nil {
		return err
	}
	if s.IsActive() && !c.state.Subscription.Admits(c.activeStudentsLocked("")) {
		return subscription.ErrStudentLimitReached
	}
	c.state.Students = append(c.state.Students, s.Clone())
	return c.commitLocked(ctx, "add_student")
}

// UpdateStudent merges patch into the student with id.
// POST: Returns ErrNotFound, a validation error or ErrStudentLimitReached
// with state untouched
func (c *Console) UpdateStudent(ctx context.Context, id string, patch student.Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Students, id, studentID)
	if i < 0 {
		return ErrNotFound
	}
	updated := c.state.Students[i].Clone()
	patch.Apply(&updated)
	if err := updated.Validate(); err != nil {
		return err
	}
	reactivated := updated.IsActive() && !c.state.Students[i].IsActive()
	if reactivated && !c.state.Subscription.Admits(c.activeStudentsLocked(id)) {
		return subscription.ErrStudentLimitReached
	}
	c.state.Students[i] = updated
	return c.commitLocked(ctx, "update_student")
}

// DeleteStudent removes the student and every payment they owe.
// POST: no payment of kind student references id; state saved once
func (c *Console) DeleteStudent(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Students, id, studentID)
	if i < 0 {
		return ErrNotFound
	}
	c.state.Students = removeAt(c.state.Students, i)
	removed := c.dropPaymentsLocked(payment.PayerStudent, id)
	slog.Info("student_deleted", "student_id", id, "payments_removed", removed)
	return c.commitLocked(ctx, "delete_student")
}

// AddInstructor appends an instructor.
// PRE: in.ID is set and unused
// POST: in is the last instructor; state saved
func (c *Console) AddInstructor(ctx context.Context, in instructor.Instructor) error {
	if err := in.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := checkNewID(c.state.Instructors, in.ID, instructorID); err != nil {
		return err
	}
	c.state.Instructors = append(c.state.Instructors, in.Clone())
	return c.commitLocked(ctx, "add_instructor")
}

// UpdateInstructor merges patch into the instructor with id.
// POST: Returns ErrNotFound or a validation error with state untouched
func (c *Console) UpdateInstructor(ctx context.Context, id string, patch instructor.Patch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Instructors, id, instructorID)
	if i < 0 {
		return ErrNotFound
	}
	updated := c.state.Instructors[i].Clone()
	patch.Apply(&updated)
	if err := updated.Validate(); err != nil {
		return err
	}
	c.state.Instructors[i] = updated
	return c.commitLocked(ctx, "update_instructor")
}

// DeleteInstructor removes the instructor and every payment they owe.
// POST: no payment of kind instructor references id; state saved once
func (c *Console) DeleteInstructor(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := indexOf(c.state.Instructors, id, instructorID)
	if i < 0 {
		return ErrNotFound
	}
	c.state.Instructors = removeAt(c.state.Instructors, i)
	removed := c.dropPaymentsLocked(payment.PayerInstructor, id)
	slog.Info("instructor_deleted", "instructor_id", id, "payments_removed", removed)
	return c.commitLocked(ctx, "delete_instructor")
}

// activeStudentsLocked counts active students other than except.
func (c *Console) activeStudentsLocked(except string) int {
	n := 0
	for i := range c.state.Students {
		if c.state.Students[i].ID != except && c.state.Students[i].IsActive() {
			n++
		}
	}
	return n
}

// dropPaymentsLocked removes every payment owed by the payer and returns how
// many were removed. Untagged payments match on id alone.
func (c *Console) dropPaymentsLocked(kind payment.PayerKind, id string) int {
	kept := make([]payment.Payment, 0, len(c.state.Payments))
	for _, p := range c.state.Payments {
		if !p.BelongsTo(kind, id) {
			kept = append(kept, p)
		}
	}
	removed := len(c.state.Payments) - len(kept)
	c.state.Payments = kept
	return removed
}
