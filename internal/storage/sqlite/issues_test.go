package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/pragyanai/tracker/internal/types"
)

func seedIssue(t *testing.T, store *SQLiteStorage, taskID, memberID int64, kind types.IssueKind, needsMeeting bool) int64 {
	t.Helper()
	id, err := store.RaiseIssue(context.Background(), &types.Issue{
		TaskID:       taskID,
		MemberID:     memberID,
		Kind:         kind,
		Text:         "Where does the config live?",
		NeedsMeeting: needsMeeting,
	})
	if err != nil {
		t.Fatalf("RaiseIssue failed: %v", err)
	}
	return id
}

func TestRaiseIssueRequiresRosterMembership(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)

	outsider, err := store.RegisterMember(ctx, "Dev", "dev@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	_, err = store.RaiseIssue(ctx, &types.Issue{
		TaskID:   taskID,
		MemberID: outsider,
		Kind:     types.IssueQuestion,
		Text:     "Can I see this task?",
	})
	if !errors.Is(err, types.ErrNotProjectMember) {
		t.Errorf("outsider raising an issue: got %v, want ErrNotProjectMember", err)
	}
}

func TestIssueThreadResolution(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, managerID, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)
	issueID := seedIssue(t, store, taskID, memberID, types.IssueQuestion, false)

	// Non-resolving responses leave the issue open.
	for _, kind := range []types.ResponseKind{types.ResponseAnswer, types.ResponseClarification, types.ResponseReference} {
		if _, err := store.RespondToIssue(ctx, &types.IssueResponse{
			IssueID:     issueID,
			ResponderID: managerID,
			Text:        "See the wiki",
			Kind:        kind,
		}); err != nil {
			t.Fatalf("respond (%s) failed: %v", kind, err)
		}
		issue, err := store.GetIssue(ctx, issueID)
		if err != nil {
			t.Fatal(err)
		}
		if issue.Resolved {
			t.Fatalf("a %s response must not resolve the issue", kind)
		}
	}

	// A resolution response closes it in the same operation.
	if _, err := store.RespondToIssue(ctx, &types.IssueResponse{
		IssueID:     issueID,
		ResponderID: managerID,
		Text:        "Fixed in config.go, closing",
		Kind:        types.ResponseResolution,
	}); err != nil {
		t.Fatal(err)
	}
	issue, err := store.GetIssue(ctx, issueID)
	if err != nil {
		t.Fatal(err)
	}
	if !issue.Resolved {
		t.Error("resolution response must mark the issue resolved")
	}

	// The thread keeps every response in submission order.
	responses, err := store.ListResponses(ctx, issueID)
	if err != nil {
		t.Fatal(err)
	}
	if len(responses) != 4 {
		t.Fatalf("thread has %d responses, want 4", len(responses))
	}
	if responses[len(responses)-1].Kind != types.ResponseResolution {
		t.Error("resolution should be the final entry of the thread")
	}
}

func TestResolveIssueIsIdempotent(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)
	issueID := seedIssue(t, store, taskID, memberID, types.IssueBlocker, false)

	if err := store.ResolveIssue(ctx, issueID); err != nil {
		t.Fatalf("first resolve failed: %v", err)
	}
	if err := store.ResolveIssue(ctx, issueID); err != nil {
		t.Fatalf("second resolve should be a no-op, got: %v", err)
	}
	if err := store.ResolveIssue(ctx, 9999); !errors.Is(err, types.ErrNotFound) {
		t.Errorf("resolving a missing issue: got %v, want ErrNotFound", err)
	}
}

func TestNeedsMeetingSurvivesResolution(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, managerID, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)
	issueID := seedIssue(t, store, taskID, memberID, types.IssueMeeting, true)

	if _, err := store.RespondToIssue(ctx, &types.IssueResponse{
		IssueID:     issueID,
		ResponderID: managerID,
		Text:        "Discussed offline, done",
		Kind:        types.ResponseResolution,
	}); err != nil {
		t.Fatal(err)
	}

	issue, err := store.GetIssue(ctx, issueID)
	if err != nil {
		t.Fatal(err)
	}
	if !issue.Resolved {
		t.Error("issue should be resolved")
	}
	if !issue.NeedsMeeting {
		t.Error("needs_meeting flag must survive resolution")
	}
}

func TestUnresolvedDashboardOrdering(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)

	plain1 := seedIssue(t, store, taskID, memberID, types.IssueQuestion, false)
	meeting := seedIssue(t, store, taskID, memberID, types.IssueMeeting, true)
	plain2 := seedIssue(t, store, taskID, memberID, types.IssueDoubt, false)
	resolved := seedIssue(t, store, taskID, memberID, types.IssueQuestion, false)
	if err := store.ResolveIssue(ctx, resolved); err != nil {
		t.Fatal(err)
	}

	unresolved, err := store.ListUnresolvedIssues(ctx, projectID)
	if err != nil {
		t.Fatal(err)
	}
	if len(unresolved) != 3 {
		t.Fatalf("unresolved count = %d, want 3", len(unresolved))
	}
	// Meeting requests float to the top, then oldest first.
	want := []int64{meeting, plain1, plain2}
	for i, issue := range unresolved {
		if issue.ID != want[i] {
			t.Errorf("position %d: got issue %d, want %d", i, issue.ID, want[i])
		}
	}
}

func TestIssuesForMember(t *testing.T) {
	store := setupTestDB(t)
	ctx := context.Background()
	projectID, _, memberID := seedProject(t, store)
	taskID := seedTask(t, store, projectID, memberID)

	other, err := store.RegisterMember(ctx, "Dev", "dev@example.com", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if err := store.AddProjectMember(ctx, projectID, other); err != nil {
		t.Fatal(err)
	}

	mine := seedIssue(t, store, taskID, memberID, types.IssueQuestion, false)
	seedIssue(t, store, taskID, other, types.IssueDoubt, false)
	resolvedMine := seedIssue(t, store, taskID, memberID, types.IssueBlocker, false)
	if err := store.ResolveIssue(ctx, resolvedMine); err != nil {
		t.Fatal(err)
	}

	issues, err := store.ListIssuesForMember(ctx, memberID, projectID)
	if err != nil {
		t.Fatal(err)
	}
	if len(issues) != 2 {
		t.Errorf("member issue count = %d, want 2 (resolved included)", len(issues))
	}
	if issues[0].ID != mine && issues[1].ID != mine {
		t.Error("member listing missing their open issue")
	}

	open, err := store.CountOpenIssuesForMember(ctx, memberID, projectID)
	if err != nil {
		t.Fatal(err)
	}
	if open != 1 {
		t.Errorf("open issue count = %d, want 1", open)
	}
}
