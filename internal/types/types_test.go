package types

import (
	"testing"
	"time"
)

func TestTaskStatusIsValid(t *testing.T) {
	valid := []TaskStatus{StatusToDo, StatusInProgress, StatusBlocked, StatusDone}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	for _, s := range []TaskStatus{"", "open", "Done", "TODO"} {
		if s.IsValid() {
			t.Errorf("status %q should be invalid", s)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to TaskStatus
		want     bool
	}{
		{StatusToDo, StatusInProgress, true},
		{StatusToDo, StatusDone, true},
		{StatusToDo, StatusBlocked, false},
		{StatusInProgress, StatusBlocked, true},
		{StatusInProgress, StatusDone, true},
		{StatusInProgress, StatusToDo, false},
		{StatusBlocked, StatusInProgress, true},
		{StatusBlocked, StatusDone, true},
		{StatusBlocked, StatusToDo, false},
		{StatusDone, StatusToDo, true},
		{StatusDone, StatusInProgress, true},
		{StatusDone, StatusBlocked, true},
		// self-transitions are off the graph
		{StatusToDo, StatusToDo, false},
		{StatusDone, StatusDone, false},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestTaskValidate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		task    *Task
		wantErr bool
	}{
		{
			name:    "valid todo",
			task:    &Task{Title: "Build parser", ProjectID: 1, Status: StatusToDo},
			wantErr: false,
		},
		{
			name:    "missing title",
			task:    &Task{ProjectID: 1, Status: StatusToDo},
			wantErr: true,
		},
		{
			name:    "invalid status",
			task:    &Task{Title: "x", ProjectID: 1, Status: "started"},
			wantErr: true,
		},
		{
			name:    "done without completion date",
			task:    &Task{Title: "x", ProjectID: 1, Status: StatusDone},
			wantErr: true,
		},
		{
			name:    "done with completion date",
			task:    &Task{Title: "x", ProjectID: 1, Status: StatusDone, CompletionDate: &now},
			wantErr: false,
		},
		{
			name:    "todo with completion date",
			task:    &Task{Title: "x", ProjectID: 1, Status: StatusToDo, CompletionDate: &now},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSprintValidate(t *testing.T) {
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	sprint := &Sprint{Name: "Sprint 1", ProjectID: 1, StartDate: start, EndDate: start.AddDate(0, 0, 14)}
	if err := sprint.Validate(); err != nil {
		t.Errorf("valid sprint rejected: %v", err)
	}
	sprint.EndDate = start.AddDate(0, 0, -1)
	if err := sprint.Validate(); err == nil {
		t.Error("sprint ending before it starts should be rejected")
	}
}

func TestResponseKindResolves(t *testing.T) {
	if !ResponseResolution.Resolves() {
		t.Error("resolution responses must resolve the thread")
	}
	for _, k := range []ResponseKind{ResponseAnswer, ResponseClarification, ResponseReference} {
		if k.Resolves() {
			t.Errorf("%s responses must not resolve the thread", k)
		}
	}
}

func TestProgressUpdateValidate(t *testing.T) {
	negative := -1.0
	u := &ProgressUpdate{Summary: "wired auth flow", Status: StatusInProgress}
	if err := u.Validate(); err != nil {
		t.Errorf("valid update rejected: %v", err)
	}
	u.HoursSpent = &negative
	if err := u.Validate(); err == nil {
		t.Error("negative hours should be rejected")
	}
}
