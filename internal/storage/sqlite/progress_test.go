package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/pragyanai/tracker/internal/types"
)

func submitProgress(t *testing.T, store *SQLiteStorage, taskID, memberID, projectID int64, summary string, status types.TaskStatus, at time.Time) int64 {
	t.Helper()
	id, err := store.SubmitProgress(context.Background(), &types.ProgressUpdate{
		TaskID:      taskID,
		MemberID:    memberID,
		ProjectID:   projectID,
		Summary:     summary,
		Status:      status,
		SubmittedAt: at,
	})
	if err != nil {
		t.Fatalf("SubmitProgress failed: %v", err)
	}
	return id
}

func TestProgressLedgerIsAppendOnly(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)

	base := time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC)
	submitProgress(t, store, taskID, memberID, projectID, "Set up project skeleton", types.StatusInProgress, base)
	submitProgress(t, store, taskID, memberID, projectID, "Hit a schema snag", types.StatusBlocked, base.Add(24*time.Hour))
	submitProgress(t, store, taskID, memberID, projectID, "Correction: snag was config, not schema", types.StatusBlocked, base.Add(25*time.Hour))
	submitProgress(t, store, taskID, memberID, projectID, "Unblocked and finishing up", types.StatusInProgress, base.Add(48*time.Hour))

	entries, err := store.ListProgress(ctx, types.ProgressFilter{TaskID: &taskID})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 4 {
		t.Fatalf("ledger length = %d, want 4", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].SubmittedAt.Before(entries[i-1].SubmittedAt) {
			t.Errorf("entry %d out of order", i)
		}
	}
	last := entries[len(entries)-1]
	if last.Status != types.StatusInProgress {
		t.Errorf("latest reported status = %s, want in_progress", last.Status)
	}
}

func TestProgressReportsDivergeFromTaskStatus(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)

	// The member reports done; the task itself still sits at todo. Nothing
	// reconciles the two automatically.
	submitProgress(t, store, taskID, memberID, projectID, "All finished on my side", types.StatusDone,
		time.Date(2025, 4, 7, 9, 0, 0, 0, time.UTC))

	task, err := store.GetTask(ctx, taskID)
	if err != nil {
		t.Fatal(err)
	}
	if task.Status != types.StatusToDo {
		t.Errorf("task status = %s, want todo (progress reports do not move tasks)", task.Status)
	}
	if task.CompletionDate != nil {
		t.Error("progress report must not stamp the task's completion date")
	}
}

func TestProgressFilters(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, memberID := seedProject(t, store)
	taskA := seedTask(t, store, projectID, memberID)
	taskB := seedTask(t, store, projectID, memberID)

	other, err := store.RegisterMember(ctx, "Dev", "dev@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AddProjectMember(ctx, projectID, other); err != nil {
		t.Fatal(err)
	}

	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	submitProgress(t, store, taskA, memberID, projectID, "Week one", types.StatusInProgress, base)
	submitProgress(t, store, taskB, other, projectID, "Started B", types.StatusInProgress, base.AddDate(0, 0, 7))
	submitProgress(t, store, taskA, memberID, projectID, "Week three", types.StatusDone, base.AddDate(0, 0, 14))

	byTask, err := store.ListProgress(ctx, types.ProgressFilter{TaskID: &taskA})
	if err != nil {
		t.Fatal(err)
	}
	if len(byTask) != 2 {
		t.Errorf("task filter returned %d entries, want 2", len(byTask))
	}

	byMember, err := store.ListProgress(ctx, types.ProgressFilter{MemberID: &other})
	if err != nil {
		t.Fatal(err)
	}
	if len(byMember) != 1 || byMember[0].TaskID != taskB {
		t.Errorf("member filter returned %d entries", len(byMember))
	}

	since := base.AddDate(0, 0, 3)
	until := base.AddDate(0, 0, 10)
	window, err := store.ListProgress(ctx, types.ProgressFilter{ProjectID: &projectID, Since: &since, Until: &until})
	if err != nil {
		t.Fatal(err)
	}
	if len(window) != 1 || window[0].Summary != "Started B" {
		t.Errorf("date window returned %d entries", len(window))
	}
}

func TestProgressRejectsMismatchedProject(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, managerID, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)

	otherProject, err := store.CreateProject(ctx, &types.Project{Name: "Beta", ManagerID: managerID})
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.SubmitProgress(ctx, &types.ProgressUpdate{
		TaskID:    taskID,
		MemberID:  memberID,
		ProjectID: otherProject,
		Summary:   "Wrong project",
		Status:    types.StatusInProgress,
	})
	if err == nil {
		t.Error("progress against the wrong project should be rejected")
	}
}
