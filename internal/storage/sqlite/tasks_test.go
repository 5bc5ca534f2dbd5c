package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/pragyanai/tracker/internal/types"
)

func TestTaskLifecycle(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)

	task, err := store.GetTask(ctx, taskID)
	if err != nil {
		t.Fatal(err)
	}
	if task.Status != types.StatusToDo {
		t.Fatalf("new task status = %s, want todo", task.Status)
	}
	if task.CompletionDate != nil {
		t.Fatal("new task should have no completion date")
	}

	for _, next := range []types.TaskStatus{types.StatusInProgress, types.StatusBlocked, types.StatusInProgress, types.StatusDone} {
		if err := store.TransitionTask(ctx, taskID, next); err != nil {
			t.Fatalf("transition to %s failed: %v", next, err)
		}
	}

	task, err = store.GetTask(ctx, taskID)
	if err != nil {
		t.Fatal(err)
	}
	if task.Status != types.StatusDone {
		t.Errorf("status = %s, want done", task.Status)
	}
	if task.CompletionDate == nil {
		t.Error("done task must carry a completion date")
	}

	// Reopening clears the completion date.
	if err := store.TransitionTask(ctx, taskID, types.StatusInProgress); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	task, err = store.GetTask(ctx, taskID)
	if err != nil {
		t.Fatal(err)
	}
	if task.CompletionDate != nil {
		t.Error("reopened task must have its completion date cleared")
	}
}

func TestIllegalTransitions(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)

	// todo -> blocked is not an edge, and self-transitions never are.
	for _, bad := range []types.TaskStatus{types.StatusBlocked, types.StatusToDo} {
		err := store.TransitionTask(ctx, taskID, bad)
		if !errors.Is(err, types.ErrIllegalTransition) {
			t.Errorf("todo -> %s: got %v, want ErrIllegalTransition", bad, err)
		}
	}

	// A rejected transition leaves the row untouched.
	task, err := store.GetTask(ctx, taskID)
	if err != nil {
		t.Fatal(err)
	}
	if task.Status != types.StatusToDo {
		t.Errorf("status after rejected transitions = %s, want todo", task.Status)
	}
}

func TestAssignRequiresRosterMembership(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)

	outsider, err := store.RegisterMember(ctx, "Dev", "dev@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	if err := store.AssignTask(ctx, taskID, memberID); err != nil {
		t.Fatalf("assigning a roster member failed: %v", err)
	}

	err = store.AssignTask(ctx, taskID, outsider)
	if !errors.Is(err, types.ErrNotProjectMember) {
		t.Fatalf("assigning an outsider: got %v, want ErrNotProjectMember", err)
	}

	// The failed assignment must not clobber the existing one.
	task, err := store.GetTask(ctx, taskID)
	if err != nil {
		t.Fatal(err)
	}
	if task.AssignedTo == nil || *task.AssignedTo != memberID {
		t.Errorf("assigned_to = %v, want %d", task.AssignedTo, memberID)
	}

	if err := store.UnassignTask(ctx, taskID); err != nil {
		t.Fatal(err)
	}
	task, err = store.GetTask(ctx, taskID)
	if err != nil {
		t.Fatal(err)
	}
	if task.AssignedTo != nil {
		t.Error("unassigned task should have nil assigned_to")
	}
}

func TestCreateTaskValidatesReferences(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, managerID, _ := seedProject(t, store)

	otherProject, err := store.CreateProject(ctx, &types.Project{Name: "Beta", ManagerID: managerID})
	if err != nil {
		t.Fatal(err)
	}
	foreignReq, err := store.CreateRequirement(ctx, &types.Requirement{ProjectID: otherProject, Title: "Foreign"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.CreateTask(ctx, &types.Task{
		ProjectID:     projectID,
		RequirementID: &foreignReq,
		Title:         "Mismatched",
	})
	if err == nil {
		t.Error("task referencing another project's requirement should be rejected")
	}

	outsider, err := store.RegisterMember(ctx, "Dev", "dev@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	_, err = store.CreateTask(ctx, &types.Task{
		ProjectID:  projectID,
		Title:      "Assigned to outsider",
		AssignedTo: &outsider,
	})
	if !errors.Is(err, types.ErrNotProjectMember) {
		t.Errorf("creating task assigned to non-member: got %v, want ErrNotProjectMember", err)
	}
}

func TestListTasksFilters(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, memberID := seedProject(t, store)

	var taskIDs []int64
	for _, title := range []string{"Design schema", "Build API", "Write docs"} {
		id, err := store.CreateTask(ctx, &types.Task{ProjectID: projectID, Title: title})
		if err != nil {
			t.Fatal(err)
		}
		taskIDs = append(taskIDs, id)
	}
	if err := store.AssignTask(ctx, taskIDs[0], memberID); err != nil {
		t.Fatal(err)
	}
	if err := store.TransitionTask(ctx, taskIDs[1], types.StatusInProgress); err != nil {
		t.Fatal(err)
	}

	all, err := store.ListTasks(ctx, types.TaskFilter{ProjectID: &projectID})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("project filter returned %d tasks, want 3", len(all))
	}

	mine, err := store.ListTasks(ctx, types.TaskFilter{AssignedTo: &memberID})
	if err != nil {
		t.Fatal(err)
	}
	if len(mine) != 1 || mine[0].ID != taskIDs[0] {
		t.Errorf("assignee filter returned %d tasks", len(mine))
	}

	inProgress := types.StatusInProgress
	active, err := store.ListTasks(ctx, types.TaskFilter{ProjectID: &projectID, Status: &inProgress})
	if err != nil {
		t.Fatal(err)
	}
	if len(active) != 1 || active[0].ID != taskIDs[1] {
		t.Errorf("status filter returned %d tasks", len(active))
	}

	limited, err := store.ListTasks(ctx, types.TaskFilter{ProjectID: &projectID, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 2 {
		t.Errorf("limit 2 returned %d tasks", len(limited))
	}
}

func TestReassignRequirement(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)

	reqID, err := store.CreateRequirement(ctx, &types.Requirement{ProjectID: projectID, Title: "R1"})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.ReassignRequirement(ctx, taskID, &reqID); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	task, err := store.GetTask(ctx, taskID)
	if err != nil {
		t.Fatal(err)
	}
	if task.RequirementID == nil || *task.RequirementID != reqID {
		t.Errorf("requirement_id = %v, want %d", task.RequirementID, reqID)
	}

	if err := store.ReassignRequirement(ctx, taskID, nil); err != nil {
		t.Fatalf("detach failed: %v", err)
	}
	task, err = store.GetTask(ctx, taskID)
	if err != nil {
		t.Fatal(err)
	}
	if task.RequirementID != nil {
		t.Error("detached task should have nil requirement_id")
	}

	missing := int64(9999)
	if err := store.ReassignRequirement(ctx, taskID, &missing); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("attaching missing requirement: got %v, want ErrNotFound", err)
	}
}
