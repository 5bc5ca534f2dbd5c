package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pragyanai/tracker/internal/types"
)

// CreateProject creates a new project owned by a manager
func (s *SQLiteStorage) CreateProject(ctx context.Context, project *types.Project) (int64, error) {
	if err := project.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}
	project.CreatedAt = time.Now()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (name, description, problem_statement, manager_id, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, project.Name, project.Description, project.ProblemStatement, project.ManagerID, project.CreatedAt)
	if err != nil {
		if isForeignKeyErr(err) {
			return 0, fmt.Errorf("manager %d: %w", project.ManagerID, types.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get project id: %w", err)
	}
	project.ID = id
	return id, nil
}

// GetProject returns a project by id
func (s *SQLiteStorage) GetProject(ctx context.Context, id int64) (*types.Project, error) {
	var p types.Project
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, problem_statement, manager_id, created_at
		FROM projects WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.ProblemStatement, &p.ManagerID, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

func (s *SQLiteStorage) scanProjects(rows *sql.Rows) ([]*types.Project, error) {
	defer func() { _ = rows.Close() }()

	var projects []*types.Project
	for rows.Next() {
		var p types.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.ProblemStatement, &p.ManagerID, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &p)
	}
	return projects, rows.Err()
}

// ListProjects returns every project. Super-admins see all projects.
func (s *SQLiteStorage) ListProjects(ctx context.Context) ([]*types.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, problem_statement, manager_id, created_at
		FROM projects ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return s.scanProjects(rows)
}

// ListProjectsForManager returns the projects a manager owns.
func (s *SQLiteStorage) ListProjectsForManager(ctx context.Context, managerID int64) ([]*types.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, problem_statement, manager_id, created_at
		FROM projects WHERE manager_id = ? ORDER BY name
	`, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects for manager: %w", err)
	}
	return s.scanProjects(rows)
}

// ListProjectsForMember returns the projects a member is rostered on.
func (s *SQLiteStorage) ListProjectsForMember(ctx context.Context, memberID int64) ([]*types.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.description, p.problem_statement, p.manager_id, p.created_at
		FROM projects p
		JOIN project_members pm ON p.id = pm.project_id
		WHERE pm.member_id = ?
		ORDER BY p.name
	`, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects for member: %w", err)
	}
	return s.scanProjects(rows)
}

// SetProblemStatement updates a project's problem statement
func (s *SQLiteStorage) SetProblemStatement(ctx context.Context, projectID int64, text string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET problem_statement = ? WHERE id = ?
	`, text, projectID)
	if err != nil {
		return fmt.Errorf("failed to update problem statement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("project %d: %w", projectID, types.ErrNotFound)
	}
	return nil
}

// AddProjectMember adds a member to a project roster. Adding the same
// member twice fails on the composite primary key.
func (s *SQLiteStorage) AddProjectMember(ctx context.Context, projectID, memberID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO project_members (project_id, member_id) VALUES (?, ?)
	`, projectID, memberID)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return fmt.Errorf("member %d already on project %d: %w", memberID, projectID, types.ErrDuplicate)
		}
		if isForeignKeyErr(err) {
			return fmt.Errorf("project %d or member %d: %w", projectID, memberID, types.ErrNotFound)
		}
		return fmt.Errorf("failed to add project member: %w", err)
	}
	return nil
}

// RemoveProjectMember hard-deletes the roster link row only. Tasks already
// assigned to the member stay assigned: historical ownership survives
// removal, and readers must tolerate an assignee who is no longer on the
// roster.
func (s *SQLiteStorage) RemoveProjectMember(ctx context.Context, projectID, memberID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM project_members WHERE project_id = ? AND member_id = ?
	`, projectID, memberID)
	if err != nil {
		return fmt.Errorf("failed to remove project member: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("member %d on project %d: %w", memberID, projectID, types.ErrNotFound)
	}
	return nil
}

// ListProjectMembers returns the roster of a project ordered by name
func (s *SQLiteStorage) ListProjectMembers(ctx context.Context, projectID int64) ([]*types.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tm.id, tm.name, tm.email, tm.created_at
		FROM team_members tm
		JOIN project_members pm ON tm.id = pm.member_id
		WHERE pm.project_id = ?
		ORDER BY tm.name
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var members []*types.Member
	for rows.Next() {
		var m types.Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

// DeleteProject removes a project and everything beneath it in one
// transaction. The ownership tree is walked leaves-first so a failure at
// any level rolls the whole cascade back; ON DELETE CASCADE on the
// project-rooted foreign keys covers the same tree for ad hoc deletes, but
// the explicit walk keeps the cascade deterministic and atomic even where
// a link table lacks a direct project FK.
func (s *SQLiteStorage) DeleteProject(ctx context.Context, id int64) error {
	return s.inTransaction(ctx, func(conn *sql.Conn) error {
		var exists int
		err := conn.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, id).Scan(&exists)
		if err == sql.ErrNoRows {
			return fmt.Errorf("project %d: %w", id, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check project: %w", err)
		}

		// Leaves first: responses under issues under tasks, then ledger
		// entries, then tasks, then planning links, then planning rows,
		// then roster and resources, finally the project row.
		steps := []struct {
			desc  string
			query string
		}{
			{"issue responses", `DELETE FROM issue_responses WHERE issue_id IN (
				SELECT ti.id FROM task_issues ti JOIN tasks t ON ti.task_id = t.id WHERE t.project_id = ?)`},
			{"task issues", `DELETE FROM task_issues WHERE task_id IN (
				SELECT id FROM tasks WHERE project_id = ?)`},
			{"progress updates", `DELETE FROM progress_updates WHERE project_id = ?`},
			{"tasks", `DELETE FROM tasks WHERE project_id = ?`},
			{"sprint requirements", `DELETE FROM sprint_requirements WHERE sprint_id IN (
				SELECT id FROM sprints WHERE project_id = ?)`},
			{"sprints", `DELETE FROM sprints WHERE project_id = ?`},
			{"requirements", `DELETE FROM requirements WHERE project_id = ?`},
			{"project members", `DELETE FROM project_members WHERE project_id = ?`},
			{"resources", `DELETE FROM resources WHERE project_id = ?`},
			{"project", `DELETE FROM projects WHERE id = ?`},
		}
		for _, step := range steps {
			if _, err := conn.ExecContext(ctx, step.query, id); err != nil {
				return fmt.Errorf("failed to delete %s: %w", step.desc, err)
			}
		}
		return nil
	})
}
