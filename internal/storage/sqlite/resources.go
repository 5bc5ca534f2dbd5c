package sqlite

import (
	"context"
	"fmt"

	"github.com/pragyanai/tracker/internal/types"
)

// AddResource adds a reference link to a project
func (s *SQLiteStorage) AddResource(ctx context.Context, res *types.Resource) (int64, error) {
	if res.Title == "" {
		return 0, fmt.Errorf("title is required")
	}
	if res.Link == "" {
		return 0, fmt.Errorf("link is required")
	}

	r, err := s.db.ExecContext(ctx, `
		INSERT INTO resources (project_id, title, link, description) VALUES (?, ?, ?, ?)
	`, res.ProjectID, res.Title, res.Link, res.Description)
	if err != nil {
		if isForeignKeyErr(err) {
			return 0, fmt.Errorf("project %d: %w", res.ProjectID, types.ErrNotFound)
		}
		return 0, fmt.Errorf("failed to insert resource: %w", err)
	}
	id, err := r.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get resource id: %w", err)
	}
	res.ID = id
	return id, nil
}

// ListResources returns a project's resources in creation order
func (s *SQLiteStorage) ListResources(ctx context.Context, projectID int64) ([]*types.Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, title, link, description
		FROM resources WHERE project_id = ? ORDER BY id
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var resources []*types.Resource
	for rows.Next() {
		var r types.Resource
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.Title, &r.Link, &r.Description); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, &r)
	}
	return resources, rows.Err()
}

// DeleteResource removes a resource by id
func (s *SQLiteStorage) DeleteResource(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resource: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("resource %d: %w", id, types.ErrNotFound)
	}
	return nil
}
