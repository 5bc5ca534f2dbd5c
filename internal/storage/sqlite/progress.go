package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pragyanai/tracker/internal/types"
)

// SubmitProgress appends one ledger entry. The ledger is append-only:
// there is no update or delete; a correction is a new entry, and the
// latest entry per task is the member's last reported status. That
// report may diverge from the task's own status field, and reconciling
// the two is a manager action, not an automatic one.
func (s *SQLiteStorage) SubmitProgress(ctx context.Context, update *types.ProgressUpdate) (int64, error) {
	if err := update.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}
	if update.SubmittedAt.IsZero() {
		update.SubmittedAt = time.Now()
	}

	var id int64
	err := s.inTransaction(ctx, func(conn *sql.Conn) error {
		var taskProject int64
		err := conn.QueryRowContext(ctx, `SELECT project_id FROM tasks WHERE id = ?`, update.TaskID).Scan(&taskProject)
		if err == sql.ErrNoRows {
			return fmt.Errorf("task %d: %w", update.TaskID, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check task: %w", err)
		}
		if taskProject != update.ProjectID {
			return fmt.Errorf("task %d belongs to project %d, not %d", update.TaskID, taskProject, update.ProjectID)
		}

		res, err := conn.ExecContext(ctx, `
			INSERT INTO progress_updates (task_id, member_id, project_id, summary, status, code_link, hours_spent, submitted_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, update.TaskID, update.MemberID, update.ProjectID, update.Summary, update.Status,
			update.CodeLink, update.HoursSpent, update.SubmittedAt)
		if err != nil {
			if isForeignKeyErr(err) {
				return fmt.Errorf("member %d: %w", update.MemberID, types.ErrNotFound)
			}
			return fmt.Errorf("failed to insert progress update: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get progress update id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	update.ID = id
	return id, nil
}

// ListProgress returns ledger entries matching the filter in
// non-decreasing submission order. Insertion order breaks ties so the
// history reads as a log.
func (s *SQLiteStorage) ListProgress(ctx context.Context, filter types.ProgressFilter) ([]*types.ProgressUpdate, error) {
	query := `
		SELECT id, task_id, member_id, project_id, summary, status, code_link, hours_spent, submitted_at
		FROM progress_updates`
	var conds []string
	var args []interface{}

	if filter.TaskID != nil {
		conds = append(conds, "task_id = ?")
		args = append(args, *filter.TaskID)
	}
	if filter.ProjectID != nil {
		conds = append(conds, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.MemberID != nil {
		conds = append(conds, "member_id = ?")
		args = append(args, *filter.MemberID)
	}
	if filter.Since != nil {
		conds = append(conds, "submitted_at >= ?")
		args = append(args, *filter.Since)
	}
	if filter.Until != nil {
		conds = append(conds, "submitted_at <= ?")
		args = append(args, *filter.Until)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY submitted_at ASC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress updates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var updates []*types.ProgressUpdate
	for rows.Next() {
		var u types.ProgressUpdate
		if err := rows.Scan(&u.ID, &u.TaskID, &u.MemberID, &u.ProjectID, &u.Summary, &u.Status,
			&u.CodeLink, &u.HoursSpent, &u.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress update: %w", err)
		}
		updates = append(updates, &u)
	}
	return updates, rows.Err()
}
