package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pragyanai/tracker/internal/types"
)

// RaiseIssue records a member's issue against a task, unresolved. The
// member must be on the task's project roster.
func (s *SQLiteStorage) RaiseIssue(ctx context.Context, issue *types.Issue) (int64, error) {
	if issue.Text == "" {
		return 0, fmt.Errorf("issue text is required")
	}
	if !issue.Kind.IsValid() {
		return 0, fmt.Errorf("invalid issue type: %s", issue.Kind)
	}
	issue.Resolved = false
	issue.CreatedAt = time.Now()

	var id int64
	err := s.inTransaction(ctx, func(conn *sql.Conn) error {
		var projectID int64
		err := conn.QueryRowContext(ctx, `SELECT project_id FROM tasks WHERE id = ?`, issue.TaskID).Scan(&projectID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("task %d: %w", issue.TaskID, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check task: %w", err)
		}

		ok, err := isProjectMember(ctx, conn, projectID, issue.MemberID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("member %d on project %d: %w", issue.MemberID, projectID, types.ErrNotProjectMember)
		}

		res, err := conn.ExecContext(ctx, `
			INSERT INTO task_issues (task_id, member_id, issue_type, issue_text, needs_meeting, is_resolved, created_at)
			VALUES (?, ?, ?, ?, ?, 0, ?)
		`, issue.TaskID, issue.MemberID, issue.Kind, issue.Text, issue.NeedsMeeting, issue.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert issue: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get issue id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	issue.ID = id
	return id, nil
}

// GetIssue returns an issue by id
func (s *SQLiteStorage) GetIssue(ctx context.Context, id int64) (*types.Issue, error) {
	var i types.Issue
	err := s.db.QueryRowContext(ctx, `
		SELECT id, task_id, member_id, issue_type, issue_text, needs_meeting, is_resolved, created_at
		FROM task_issues WHERE id = ?
	`, id).Scan(&i.ID, &i.TaskID, &i.MemberID, &i.Kind, &i.Text, &i.NeedsMeeting, &i.Resolved, &i.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("issue %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get issue: %w", err)
	}
	return &i, nil
}

// RespondToIssue appends a manager's response to an issue thread. A
// response of resolving type marks the issue resolved in the same
// transaction; any other type leaves the flag alone. needs_meeting is
// never touched here: a resolved issue may keep a standing meeting flag.
func (s *SQLiteStorage) RespondToIssue(ctx context.Context, resp *types.IssueResponse) (int64, error) {
	if resp.Text == "" {
		return 0, fmt.Errorf("response text is required")
	}
	if resp.Kind == "" {
		resp.Kind = types.ResponseAnswer
	}
	if !resp.Kind.IsValid() {
		return 0, fmt.Errorf("invalid response type: %s", resp.Kind)
	}
	resp.CreatedAt = time.Now()

	var id int64
	err := s.inTransaction(ctx, func(conn *sql.Conn) error {
		var exists int
		err := conn.QueryRowContext(ctx, `SELECT 1 FROM task_issues WHERE id = ?`, resp.IssueID).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("issue %d: %w", resp.IssueID, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check issue: %w", err)
		}

		res, err := conn.ExecContext(ctx, `
			INSERT INTO issue_responses (issue_id, responder_id, response_text, response_type, reference_links, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, resp.IssueID, resp.ResponderID, resp.Text, resp.Kind, resp.ReferenceLinks, resp.CreatedAt)
		if err != nil {
			if isForeignKeyErr(err) {
				return fmt.Errorf("responder %d: %w", resp.ResponderID, types.ErrNotFound)
			}
			return fmt.Errorf("failed to insert response: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get response id: %w", err)
		}

		if resp.Kind.Resolves() {
			if _, err := conn.ExecContext(ctx, `
				UPDATE task_issues SET is_resolved = 1 WHERE id = ?
			`, resp.IssueID); err != nil {
				return fmt.Errorf("failed to resolve issue: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	resp.ID = id
	return id, nil
}

// ResolveIssue marks an issue resolved. Resolving an already-resolved
// issue is a no-op: is_resolved is monotonic and never reverts.
func (s *SQLiteStorage) ResolveIssue(ctx context.Context, issueID int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE task_issues SET is_resolved = 1 WHERE id = ?
	`, issueID)
	if err != nil {
		return fmt.Errorf("failed to resolve issue: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("issue %d: %w", issueID, types.ErrNotFound)
	}
	return nil
}

func scanIssues(rows *sql.Rows) ([]*types.Issue, error) {
	defer func() { _ = rows.Close() }()

	var issues []*types.Issue
	for rows.Next() {
		var i types.Issue
		if err := rows.Scan(&i.ID, &i.TaskID, &i.MemberID, &i.Kind, &i.Text, &i.NeedsMeeting, &i.Resolved, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, &i)
	}
	return issues, rows.Err()
}

// ListUnresolvedIssues returns a project's open issues in dashboard order:
// meeting requests first, then oldest first.
func (s *SQLiteStorage) ListUnresolvedIssues(ctx context.Context, projectID int64) ([]*types.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, task_id, member_id, issue_type, issue_text, needs_meeting, is_resolved, created_at
		FROM unresolved_issues
		WHERE project_id = ?
		ORDER BY needs_meeting DESC, created_at ASC, id ASC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved issues: %w", err)
	}
	return scanIssues(rows)
}

// ListIssuesForMember returns the issues a member raised on a project,
// newest first.
func (s *SQLiteStorage) ListIssuesForMember(ctx context.Context, memberID, projectID int64) ([]*types.Issue, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ti.id, ti.task_id, ti.member_id, ti.issue_type, ti.issue_text, ti.needs_meeting, ti.is_resolved, ti.created_at
		FROM task_issues ti
		JOIN tasks t ON ti.task_id = t.id
		WHERE ti.member_id = ? AND t.project_id = ?
		ORDER BY ti.created_at DESC, ti.id DESC
	`, memberID, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues for member: %w", err)
	}
	return scanIssues(rows)
}

// ListResponses returns an issue's thread in creation order
func (s *SQLiteStorage) ListResponses(ctx context.Context, issueID int64) ([]*types.IssueResponse, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, issue_id, responder_id, response_text, response_type, reference_links, created_at
		FROM issue_responses WHERE issue_id = ?
		ORDER BY created_at ASC, id ASC
	`, issueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var responses []*types.IssueResponse
	for rows.Next() {
		var r types.IssueResponse
		if err := rows.Scan(&r.ID, &r.IssueID, &r.ResponderID, &r.Text, &r.Kind, &r.ReferenceLinks, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		responses = append(responses, &r)
	}
	return responses, rows.Err()
}

// CountOpenIssuesForMember returns how many unresolved issues a member has
// open on a project. Feeds the manager's per-member workload view.
func (s *SQLiteStorage) CountOpenIssuesForMember(ctx context.Context, memberID, projectID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(ti.id)
		FROM task_issues ti
		JOIN tasks t ON ti.task_id = t.id
		WHERE ti.member_id = ? AND t.project_id = ? AND ti.is_resolved = 0
	`, memberID, projectID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open issues: %w", err)
	}
	return count, nil
}
