package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pragyanai/tracker/internal/types"
)

func seedSprint(t *testing.T, store *SQLiteStorage, projectID int64) int64 {
	t.Helper()
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	id, err := store.CreateSprint(context.Background(), &types.Sprint{
		ProjectID: projectID,
		Name:      "Sprint 1",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 14),
	})
	if err != nil {
		t.Fatalf("CreateSprint failed: %v", err)
	}
	return id
}

func TestRefineRequirement(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, _ := seedProject(t, store)

	reqID, err := store.CreateRequirement(ctx, &types.Requirement{
		ProjectID:   projectID,
		Title:       "R1",
		Description: "Initial sketch",
	})
	if err != nil {
		t.Fatalf("CreateRequirement failed: %v", err)
	}

	req, err := store.GetRequirement(ctx, reqID)
	if err != nil {
		t.Fatal(err)
	}
	if req.RefinedDescription != nil {
		t.Error("refined description should start empty")
	}

	if err := store.RefineRequirement(ctx, reqID, "Full acceptance criteria"); err != nil {
		t.Fatalf("RefineRequirement failed: %v", err)
	}
	req, err = store.GetRequirement(ctx, reqID)
	if err != nil {
		t.Fatal(err)
	}
	if req.RefinedDescription == nil || *req.RefinedDescription != "Full acceptance criteria" {
		t.Errorf("refined description = %v", req.RefinedDescription)
	}
}

func TestLinkRequirementToSprintIsUniquenessGuarded(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, _ := seedProject(t, store)
	sprintID := seedSprint(t, store, projectID)

	reqID, err := store.CreateRequirement(ctx, &types.Requirement{ProjectID: projectID, Title: "R1"})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.LinkRequirementToSprint(ctx, sprintID, reqID); err != nil {
		t.Fatalf("first link failed: %v", err)
	}
	err = store.LinkRequirementToSprint(ctx, sprintID, reqID)
	if !errors.Is(err, types.ErrDuplicate) {
		t.Errorf("re-link: got %v, want ErrDuplicate", err)
	}

	// The link table never contains duplicate composite keys.
	var count int
	if err := store.UnderlyingDB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sprint_requirements WHERE sprint_id = ? AND requirement_id = ?`,
		sprintID, reqID).Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("link rows = %d, want 1", count)
	}
}

func TestLinkAcrossProjectsRejected(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, managerID, _ := seedProject(t, store)
	sprintID := seedSprint(t, store, projectID)

	otherProject, err := store.CreateProject(ctx, &types.Project{Name: "Beta", ManagerID: managerID})
	if err != nil {
		t.Fatal(err)
	}
	foreignReq, err := store.CreateRequirement(ctx, &types.Requirement{ProjectID: otherProject, Title: "Foreign"})
	if err != nil {
		t.Fatal(err)
	}

	if err := store.LinkRequirementToSprint(ctx, sprintID, foreignReq); err == nil {
		t.Error("linking a requirement from another project should fail")
	}
}

func TestRequirementInManySprints(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, _ := seedProject(t, store)

	reqID, err := store.CreateRequirement(ctx, &types.Requirement{ProjectID: projectID, Title: "Carried over"})
	if err != nil {
		t.Fatal(err)
	}

	// Nothing forces sprint exclusivity: a requirement can carry over.
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		sprintID, err := store.CreateSprint(ctx, &types.Sprint{
			ProjectID: projectID,
			Name:      "Sprint",
			StartDate: start.AddDate(0, 0, 14*i),
			EndDate:   start.AddDate(0, 0, 14*i+14),
		})
		if err != nil {
			t.Fatal(err)
		}
		if err := store.LinkRequirementToSprint(ctx, sprintID, reqID); err != nil {
			t.Fatalf("link into sprint %d failed: %v", i, err)
		}
	}

	sprints, err := store.ListSprints(ctx, projectID)
	if err != nil {
		t.Fatal(err)
	}
	for _, sp := range sprints {
		reqs, err := store.ListSprintRequirements(ctx, sp.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(reqs) != 1 || reqs[0].ID != reqID {
			t.Errorf("sprint %d should carry the requirement", sp.ID)
		}
	}
}

func TestUnlinkRequirement(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, _ := seedProject(t, store)
	sprintID := seedSprint(t, store, projectID)

	reqID, err := store.CreateRequirement(ctx, &types.Requirement{ProjectID: projectID, Title: "R1"})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.LinkRequirementToSprint(ctx, sprintID, reqID); err != nil {
		t.Fatal(err)
	}
	if err := store.UnlinkRequirementFromSprint(ctx, sprintID, reqID); err != nil {
		t.Fatalf("UnlinkRequirementFromSprint failed: %v", err)
	}
	if err := store.UnlinkRequirementFromSprint(ctx, sprintID, reqID); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("unlinking a missing link: got %v, want ErrNotFound", err)
	}
}
