package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pragyanai/tracker/internal/types"
)

// isProjectMember reports whether the member is on the project roster.
// Runs inside the caller's transaction so the check and the write it
// guards commit together.
func isProjectMember(ctx context.Context, conn *sql.Conn, projectID, memberID int64) (bool, error) {
	var one int
	err := conn.QueryRowContext(ctx, `
		SELECT 1 FROM project_members WHERE project_id = ? AND member_id = ?
	`, projectID, memberID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check roster: %w", err)
	}
	return true, nil
}

// CreateTask creates a task under a project, optionally scoped to a
// requirement and pre-assigned. The roster invariant applies at creation
// too: an assignee must already be a member of the project.
func (s *SQLiteStorage) CreateTask(ctx context.Context, task *types.Task) (int64, error) {
	if task.Status == "" {
		task.Status = types.StatusToDo
	}
	if err := task.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	var id int64
	err := s.inTransaction(ctx, func(conn *sql.Conn) error {
		if task.RequirementID != nil {
			var reqProject int64
			err := conn.QueryRowContext(ctx, `SELECT project_id FROM requirements WHERE id = ?`, *task.RequirementID).Scan(&reqProject)
			if err == sql.ErrNoRows {
				return fmt.Errorf("requirement %d: %w", *task.RequirementID, types.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("failed to check requirement: %w", err)
			}
			if reqProject != task.ProjectID {
				return fmt.Errorf("requirement %d belongs to project %d, not %d", *task.RequirementID, reqProject, task.ProjectID)
			}
		}

		if task.AssignedTo != nil {
			ok, err := isProjectMember(ctx, conn, task.ProjectID, *task.AssignedTo)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("member %d on project %d: %w", *task.AssignedTo, task.ProjectID, types.ErrNotProjectMember)
			}
		}

		res, err := conn.ExecContext(ctx, `
			INSERT INTO tasks (project_id, requirement_id, title, description, assigned_to,
				status, due_date, completion_date, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, task.ProjectID, task.RequirementID, task.Title, task.Description, task.AssignedTo,
			task.Status, task.DueDate, task.CompletionDate, task.CreatedAt, task.UpdatedAt)
		if err != nil {
			if isForeignKeyErr(err) {
				return fmt.Errorf("project %d: %w", task.ProjectID, types.ErrNotFound)
			}
			return fmt.Errorf("failed to insert task: %w", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get task id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	task.ID = id
	return id, nil
}

const taskColumns = `id, project_id, requirement_id, title, description, assigned_to,
	status, due_date, completion_date, created_at, updated_at`

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*types.Task, error) {
	var t types.Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.RequirementID, &t.Title, &t.Description,
		&t.AssignedTo, &t.Status, &t.DueDate, &t.CompletionDate, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTask returns a task by id
func (s *SQLiteStorage) GetTask(ctx context.Context, id int64) (*types.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return t, nil
}

// ListTasks returns tasks matching the filter, newest first
func (s *SQLiteStorage) ListTasks(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var conds []string
	var args []interface{}

	if filter.ProjectID != nil {
		conds = append(conds, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.AssignedTo != nil {
		conds = append(conds, "assigned_to = ?")
		args = append(args, *filter.AssignedTo)
	}
	if filter.Status != nil {
		if !filter.Status.IsValid() {
			return nil, fmt.Errorf("invalid status: %s", *filter.Status)
		}
		conds = append(conds, "status = ?")
		args = append(args, *filter.Status)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*types.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// AssignTask assigns a task to a member on the task's project roster.
// Assignment to anyone else fails and leaves the task untouched.
func (s *SQLiteStorage) AssignTask(ctx context.Context, taskID, memberID int64) error {
	return s.inTransaction(ctx, func(conn *sql.Conn) error {
		var projectID int64
		err := conn.QueryRowContext(ctx, `SELECT project_id FROM tasks WHERE id = ?`, taskID).Scan(&projectID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("task %d: %w", taskID, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check task: %w", err)
		}

		ok, err := isProjectMember(ctx, conn, projectID, memberID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("member %d on project %d: %w", memberID, projectID, types.ErrNotProjectMember)
		}

		_, err = conn.ExecContext(ctx, `
			UPDATE tasks SET assigned_to = ?, updated_at = ? WHERE id = ?
		`, memberID, time.Now(), taskID)
		if err != nil {
			return fmt.Errorf("failed to assign task: %w", err)
		}
		return nil
	})
}

// UnassignTask clears a task's assignee
func (s *SQLiteStorage) UnassignTask(ctx context.Context, taskID int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET assigned_to = NULL, updated_at = ? WHERE id = ?
	`, time.Now(), taskID)
	if err != nil {
		return fmt.Errorf("failed to unassign task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %d: %w", taskID, types.ErrNotFound)
	}
	return nil
}

// TransitionTask moves a task along the status graph. A transition outside
// the graph is rejected, never clamped. Entering the terminal state stamps
// completion_date with the transition time; leaving it clears the stamp.
// The status read, the validation, and the write commit as one unit.
func (s *SQLiteStorage) TransitionTask(ctx context.Context, taskID int64, newStatus types.TaskStatus) error {
	if !newStatus.IsValid() {
		return fmt.Errorf("status %q: %w", newStatus, types.ErrIllegalTransition)
	}

	return s.inTransaction(ctx, func(conn *sql.Conn) error {
		var current types.TaskStatus
		err := conn.QueryRowContext(ctx, `SELECT status FROM tasks WHERE id = ?`, taskID).Scan(&current)
		if err == sql.ErrNoRows {
			return fmt.Errorf("task %d: %w", taskID, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check task status: %w", err)
		}

		if !types.CanTransition(current, newStatus) {
			return fmt.Errorf("%s -> %s: %w", current, newStatus, types.ErrIllegalTransition)
		}

		now := time.Now()
		var completion *time.Time
		if newStatus.Terminal() {
			completion = &now
		}
		_, err = conn.ExecContext(ctx, `
			UPDATE tasks SET status = ?, completion_date = ?, updated_at = ? WHERE id = ?
		`, newStatus, completion, now, taskID)
		if err != nil {
			return fmt.Errorf("failed to transition task: %w", err)
		}
		return nil
	})
}

// ReassignRequirement attaches a task to a requirement, or detaches it when
// requirementID is nil, without touching the task otherwise.
func (s *SQLiteStorage) ReassignRequirement(ctx context.Context, taskID int64, requirementID *int64) error {
	return s.inTransaction(ctx, func(conn *sql.Conn) error {
		var projectID int64
		err := conn.QueryRowContext(ctx, `SELECT project_id FROM tasks WHERE id = ?`, taskID).Scan(&projectID)
		if err == sql.ErrNoRows {
			return fmt.Errorf("task %d: %w", taskID, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check task: %w", err)
		}

		if requirementID != nil {
			var reqProject int64
			err := conn.QueryRowContext(ctx, `SELECT project_id FROM requirements WHERE id = ?`, *requirementID).Scan(&reqProject)
			if err == sql.ErrNoRows {
				return fmt.Errorf("requirement %d: %w", *requirementID, types.ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("failed to check requirement: %w", err)
			}
			if reqProject != projectID {
				return fmt.Errorf("requirement %d belongs to project %d, not %d", *requirementID, reqProject, projectID)
			}
		}

		_, err = conn.ExecContext(ctx, `
			UPDATE tasks SET requirement_id = ?, updated_at = ? WHERE id = ?
		`, requirementID, time.Now(), taskID)
		if err != nil {
			return fmt.Errorf("failed to reassign requirement: %w", err)
		}
		return nil
	})
}
