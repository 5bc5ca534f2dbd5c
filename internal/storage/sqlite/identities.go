package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/pragyanai/tracker/internal/auth"
	"github.com/pragyanai/tracker/internal/types"
)

// RegisterSuperAdmin creates a super-admin account. The password is hashed
// before it touches the database; plaintext is never persisted or logged.
func (s *SQLiteStorage) RegisterSuperAdmin(ctx context.Context, username, password string) (int64, error) {
	if username == "" {
		return 0, fmt.Errorf("username is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO super_admins (username, password_hash) VALUES (?, ?)
	`, username, hash)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return 0, fmt.Errorf("super admin %q: %w", username, types.ErrDuplicate)
		}
		return 0, fmt.Errorf("failed to insert super admin: %w", err)
	}
	return res.LastInsertId()
}

// RegisterManager creates a project-manager account.
func (s *SQLiteStorage) RegisterManager(ctx context.Context, name, username, password string) (int64, error) {
	if username == "" {
		return 0, fmt.Errorf("username is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO project_managers (name, username, password_hash) VALUES (?, ?, ?)
	`, name, username, hash)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return 0, fmt.Errorf("manager %q: %w", username, types.ErrDuplicate)
		}
		return 0, fmt.Errorf("failed to insert manager: %w", err)
	}
	return res.LastInsertId()
}

// RegisterMember creates a team-member account, keyed by email.
func (s *SQLiteStorage) RegisterMember(ctx context.Context, name, email, password string) (int64, error) {
	if email == "" {
		return 0, fmt.Errorf("email is required")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO team_members (name, email, password_hash) VALUES (?, ?, ?)
	`, name, email, hash)
	if err != nil {
		if isUniqueConstraintErr(err) {
			return 0, fmt.Errorf("member %q: %w", email, types.ErrDuplicate)
		}
		return 0, fmt.Errorf("failed to insert member: %w", err)
	}
	return res.LastInsertId()
}

// authenticate looks up one credential row and verifies the password.
// Unknown identifier and wrong password produce the same error so the
// caller cannot tell which half failed.
func (s *SQLiteStorage) authenticate(ctx context.Context, query, identifier, password string, role types.Role) (*types.Identity, error) {
	var (
		id   int64
		name string
		hash string
	)
	err := s.db.QueryRowContext(ctx, query, identifier).Scan(&id, &name, &hash)
	if err == sql.ErrNoRows {
		return nil, types.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up credentials: %w", err)
	}
	if !auth.VerifyPassword(hash, password) {
		return nil, types.ErrInvalidCredentials
	}
	return &types.Identity{
		ID:    id,
		Role:  role,
		Name:  name,
		Token: uuid.NewString(),
	}, nil
}

// AuthenticateSuperAdmin authenticates against the super_admins table.
func (s *SQLiteStorage) AuthenticateSuperAdmin(ctx context.Context, username, password string) (*types.Identity, error) {
	return s.authenticate(ctx, `
		SELECT id, username, password_hash FROM super_admins WHERE username = ?
	`, username, password, types.RoleSuperAdmin)
}

// AuthenticateManager authenticates against the project_managers table.
func (s *SQLiteStorage) AuthenticateManager(ctx context.Context, username, password string) (*types.Identity, error) {
	return s.authenticate(ctx, `
		SELECT id, name, password_hash FROM project_managers WHERE username = ?
	`, username, password, types.RoleManager)
}

// AuthenticateMember authenticates against the team_members table by email.
func (s *SQLiteStorage) AuthenticateMember(ctx context.Context, email, password string) (*types.Identity, error) {
	return s.authenticate(ctx, `
		SELECT id, name, password_hash FROM team_members WHERE email = ?
	`, email, password, types.RoleMember)
}

// GetMember returns a team member by id
func (s *SQLiteStorage) GetMember(ctx context.Context, id int64) (*types.Member, error) {
	var m types.Member
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, created_at FROM team_members WHERE id = ?
	`, id).Scan(&m.ID, &m.Name, &m.Email, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("member %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &m, nil
}

// ListManagers returns all project managers ordered by name
func (s *SQLiteStorage) ListManagers(ctx context.Context) ([]*types.Manager, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, username, created_at FROM project_managers ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list managers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var managers []*types.Manager
	for rows.Next() {
		var m types.Manager
		if err := rows.Scan(&m.ID, &m.Name, &m.Username, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan manager: %w", err)
		}
		managers = append(managers, &m)
	}
	return managers, rows.Err()
}

// ListMembers returns all team members ordered by name
func (s *SQLiteStorage) ListMembers(ctx context.Context) ([]*types.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, created_at FROM team_members ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
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
