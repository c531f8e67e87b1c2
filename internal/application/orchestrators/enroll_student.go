package orchestrators

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dojohub/internal/domain/student"
)

// ConsoleForEnroll defines the console interface needed by EnrollStudent.
// AddStudent must refuse an active student with
// subscription.ErrStudentLimitReached when the plan is full.
type ConsoleForEnroll interface {
	AddStudent(ctx context.Context, s student.Student) error
}

// EnrollStudentInput carries input for the orchestrator.
type EnrollStudentInput struct {
	Student student.Student
}

// EnrollStudentDeps holds dependencies for EnrollStudent.
type EnrollStudentDeps struct {
	Console    ConsoleForEnroll
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteEnrollStudent admits a new student within the plan's student limit.
// PRE: input.Student passes Validate apart from a missing ID
// POST: Student added with an ID, Status=active and EnrolledAt set when absent
// INVARIANT: active students never exceed the subscription's StudentLimit
func ExecuteEnrollStudent(ctx context.Context, input EnrollStudentInput, deps EnrollStudentDeps) (student.Student, error) {
	genID := deps.GenerateID
	if genID == nil {
		genID = func() string { return uuid.New().String() }
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := input.Student.Clone()
	if s.ID == "" {
		s.ID = genID()
	}
	if s.Status == "" {
		s.Status = student.StatusActive
	}
	if s.EnrolledAt == nil {
		t := now()
		s.EnrolledAt = &t
	}
	if s.Belt == "" {
		s.Belt = student.BeltWhite
	}
	if err := s.Validate(); err != nil {
		return student.Student{}, err
	}

	if err := deps.Console.AddStudent(ctx, s); err != nil {
		return student.Student{}, err
	}
	return s, nil
}
