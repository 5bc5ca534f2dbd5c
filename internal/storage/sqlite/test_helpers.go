package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pragyanai/tracker/internal/types"
)

func setupTestDB(t *testing.T) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// seedProject registers a manager and a member, creates a project owned by
// the manager, and rosters the member on it. Most workflow tests start here.
func seedProject(t *testing.T, store *SQLiteStorage) (projectID, managerID, memberID int64) {
	t.Helper()
	ctx := context.Background()

	managerID, err := store.RegisterManager(ctx, "Priya", "priya", "manager-pass")
	if err != nil {
		t.Fatalf("RegisterManager failed: %v", err)
	}
	memberID, err = store.RegisterMember(ctx, "Arun", "arun@example.com", "member-pass")
	if err != nil {
		t.Fatalf("RegisterMember failed: %v", err)
	}
	projectID, err = store.CreateProject(ctx, &types.Project{
		Name:        "Alpha",
		Description: "Pilot project",
		ManagerID:   managerID,
	})
	if err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}
	if err := store.AddProjectMember(ctx, projectID, memberID); err != nil {
		t.Fatalf("AddProjectMember failed: %v", err)
	}
	return projectID, managerID, memberID
}

// seedTask creates a task assigned to the member under the project.
func seedTask(t *testing.T, store *SQLiteStorage, projectID, memberID int64) int64 {
	t.Helper()

	task := &types.Task{
		ProjectID:  projectID,
		Title:      "Task1",
		AssignedTo: &memberID,
		Status:     types.StatusToDo,
	}
	id, err := store.CreateTask(context.Background(), task)
	if err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}
	return id
}
