package task

import (
	"errors"
	"strings"
	"time"
)

// Status constants
const (
	StatusTodo  = "todo"
	StatusDoing = "doing"
	StatusDone  = "done"
)

// Priority constants
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Domain errors
var (
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrInvalidStatus   = errors.New("task status must be one of: todo, doing, done")
	ErrInvalidPriority = errors.New("task priority must be one of: low, medium, high")
)

// AdminTask is an administrative work item.
type AdminTask struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	Status      string     `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Validate checks if the AdminTask has valid data.
// PRE: AdminTask struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (t *AdminTask) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	switch t.Status {
	case "", StatusTodo, StatusDoing, StatusDone:
	default:
		return ErrInvalidStatus
	}
	switch t.Priority {
	case "", PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return ErrInvalidPriority
	}
	return nil
}

// IsDone returns true once the task is completed.
func (t *AdminTask) IsDone() bool {
	return t.Status == StatusDone
}

// IsOverdue reports whether an open task has passed its due date.
func (t *AdminTask) IsOverdue(now time.Time) bool {
	return !t.IsDone() && t.DueDate != nil && now.After(*t.DueDate)
}

// Clone returns a deep copy of the task.
func (t AdminTask) Clone() AdminTask {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

// Patch carries a partial update. Nil fields are left untouched.
type Patch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	Status      *string    `json:"status,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// Apply merges the set fields of p into t. The ID is never changed.
func (p Patch) Apply(t *AdminTask) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		d := *p.DueDate
		t.DueDate = &d
	}
}
