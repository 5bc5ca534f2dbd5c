package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pragyanai/tracker/internal/types"
)

// CreateRequirement creates a requirement under a project
func (s *SQLiteStorage) CreateRequirement(ctx context.Context, req *types.Requirement) (int64, error) {
	if req.Title == "" {
		return 0, fmt.Errorf("title is required")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO requirements (project_id, title, description) VALUES (?, ?, ?)
	`, req.ProjectID, req.Title, req.Description)
	if err != nil {
		if isForeignKeyErr(err) {
			return 0, fmt.Errorf("project %d: %w", req.ProjectID, types.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to insert requirement: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get requirement id: %w", err)
	}
	req.ID = id
	return id, nil
}

// GetRequirement returns a requirement by id
func (s *SQLiteStorage) GetRequirement(ctx context.Context, id int64) (*types.Requirement, error) {
	var r types.Requirement
	err := s.db.QueryRowContext(ctx, `
		SELECT id, project_id, title, description, refined_description
		FROM requirements WHERE id = ?
	`, id).Scan(&r.ID, &r.ProjectID, &r.Title, &r.Description, &r.RefinedDescription)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("requirement %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get requirement: %w", err)
	}
	return &r, nil
}

// ListRequirements returns a project's requirements in creation order
func (s *SQLiteStorage) ListRequirements(ctx context.Context, projectID int64) ([]*types.Requirement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, title, description, refined_description
		FROM requirements WHERE project_id = ? ORDER BY id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	return scanRequirements(rows)
}

func scanRequirements(rows *sql.Rows) ([]*types.Requirement, error) {
	defer func() { _ = rows.Close() }()

	var reqs []*types.Requirement
	for rows.Next() {
		var r types.Requirement
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.Title, &r.Description, &r.RefinedDescription); err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		reqs = append(reqs, &r)
	}
	return reqs, rows.Err()
}

// RefineRequirement records the manager's elaborated description.
func (s *SQLiteStorage) RefineRequirement(ctx context.Context, id int64, refined string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE requirements SET refined_description = ? WHERE id = ?
	`, refined, id)
	if err != nil {
		return fmt.Errorf("failed to refine requirement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("requirement %d: %w", id, types.ErrNotFound)
	}
	return nil
}

// CreateSprint creates a dated sprint under a project
func (s *SQLiteStorage) CreateSprint(ctx context.Context, sprint *types.Sprint) (int64, error) {
	if err := sprint.Validate(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO sprints (project_id, name, start_date, end_date) VALUES (?, ?, ?, ?)
	`, sprint.ProjectID, sprint.Name, sprint.StartDate, sprint.EndDate)
	if err != nil {
		if isForeignKeyErr(err) {
			return 0, fmt.Errorf("project %d: %w", sprint.ProjectID, types.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to insert sprint: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get sprint id: %w", err)
	}
	sprint.ID = id
	return id, nil
}

// ListSprints returns a project's sprints ordered by start date
func (s *SQLiteStorage) ListSprints(ctx context.Context, projectID int64) ([]*types.Sprint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, name, start_date, end_date
		FROM sprints WHERE project_id = ? ORDER BY start_date, id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sprints []*types.Sprint
	for rows.Next() {
		var sp types.Sprint
		if err := rows.Scan(&sp.ID, &sp.ProjectID, &sp.Name, &sp.StartDate, &sp.EndDate); err != nil {
			return nil, fmt.Errorf("failed to scan sprint: %w", err)
		}
		sprints = append(sprints, &sp)
	}
	return sprints, rows.Err()
}

// LinkRequirementToSprint links a requirement into a sprint. Re-linking an
// already-linked pair fails on the composite key rather than duplicating;
// the pair must also belong to the same project.
func (s *SQLiteStorage) LinkRequirementToSprint(ctx context.Context, sprintID, requirementID int64) error {
	return s.inTransaction(ctx, func(conn *sql.Conn) error {
		var sprintProject, reqProject int64
		err := conn.QueryRowContext(ctx, `SELECT project_id FROM sprints WHERE id = ?`, sprintID).Scan(&sprintProject)
		if err == sql.ErrNoRows {
			return fmt.Errorf("sprint %d: %w", sprintID, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check sprint: %w", err)
		}
		err = conn.QueryRowContext(ctx, `SELECT project_id FROM requirements WHERE id = ?`, requirementID).Scan(&reqProject)
		if err == sql.ErrNoRows {
			return fmt.Errorf("requirement %d: %w", requirementID, types.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to check requirement: %w", err)
		}
		if sprintProject != reqProject {
			return fmt.Errorf("sprint %d and requirement %d belong to different projects", sprintID, requirementID)
		}

		_, err = conn.ExecContext(ctx, `
			INSERT INTO sprint_requirements (sprint_id, requirement_id) VALUES (?, ?)
		`, sprintID, requirementID)
		if err != nil {
			if isUniqueConstraintErr(err) {
				return fmt.Errorf("requirement %d already in sprint %d: %w", requirementID, sprintID, types.ErrDuplicate)
			}
			return fmt.Errorf("failed to link requirement to sprint: %w", err)
		}
		return nil
	})
}

// UnlinkRequirementFromSprint removes the link row
func (s *SQLiteStorage) UnlinkRequirementFromSprint(ctx context.Context, sprintID, requirementID int64) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM sprint_requirements WHERE sprint_id = ? AND requirement_id = ?
	`, sprintID, requirementID)
	if err != nil {
		return fmt.Errorf("failed to unlink requirement from sprint: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("requirement %d in sprint %d: %w", requirementID, sprintID, types.ErrNotFound)
	}
	return nil
}

// ListSprintRequirements returns the requirements linked into a sprint
func (s *SQLiteStorage) ListSprintRequirements(ctx context.Context, sprintID int64) ([]*types.Requirement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.project_id, r.title, r.description, r.refined_description
		FROM requirements r
		JOIN sprint_requirements sr ON r.id = sr.requirement_id
		WHERE sr.sprint_id = ?
		ORDER BY r.id
	`, sprintID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sprint requirements: %w", err)
	}
	return scanRequirements(rows)
}
