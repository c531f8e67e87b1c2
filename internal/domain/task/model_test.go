package task_test

import (
	"errors"
	"testing"
	"time"

	"dojohub/internal/domain/task"
)

// TestTaskValidation tests validation of AdminTask.
func TestTaskValidation(t *testing.T) {
	tests := []struct {
		name    string
		task    task.AdminTask
		wantErr error
	}{
		{"valid", task.AdminTask{Title: "Renovar alvará", Priority: task.PriorityHigh, Status: task.StatusDoing}, nil},
		{"defaults", task.AdminTask{Title: "Limpar tatame"}, nil},
		{"empty title", task.AdminTask{}, task.ErrEmptyTitle},
		{"bad status", task.AdminTask{Title: "x", Status: "blocked"}, task.ErrInvalidStatus},
		{"bad priority", task.AdminTask{Title: "x", Priority: "urgent"}, task.ErrInvalidPriority},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.task.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestTaskIsOverdue tests overdue detection for open and done tasks.
func TestTaskIsOverdue(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	due := now.AddDate(0, 0, -1)

	open := task.AdminTask{Title: "x", DueDate: &due}
	if !open.IsOverdue(now) {
		t.Error("open task past due should be overdue")
	}
	done := task.AdminTask{Title: "x", DueDate: &due, Status: task.StatusDone}
	if done.IsOverdue(now) {
		t.Error("done task is never overdue")
	}
	noDue := task.AdminTask{Title: "x"}
	if noDue.IsOverdue(now) {
		t.Error("task without due date is never overdue")
	}

	c := open.Clone()
	*c.DueDate = now.AddDate(1, 0, 0)
	if !open.DueDate.Equal(due) {
		t.Error("clone shares the due date")
	}
}
