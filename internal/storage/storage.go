// Package storage defines the interface for project-tracker storage backends.
package storage

import (
	"context"
	"database/sql"

	"github.com/pragyanai/tracker/internal/types"
)

// Storage defines the interface for tracker storage backends
type Storage interface {
	// Identity store
	RegisterSuperAdmin(ctx context.Context, username, password string) (int64, error)
	RegisterManager(ctx context.Context, name, username, password string) (int64, error)
	RegisterMember(ctx context.Context, name, email, password string) (int64, error)
	AuthenticateSuperAdmin(ctx context.Context, username, password string) (*types.Identity, error)
	AuthenticateManager(ctx context.Context, username, password string) (*types.Identity, error)
	AuthenticateMember(ctx context.Context, email, password string) (*types.Identity, error)
	GetMember(ctx context.Context, id int64) (*types.Member, error)
	ListManagers(ctx context.Context) ([]*types.Manager, error)
	ListMembers(ctx context.Context) ([]*types.Member, error)

	// Project registry
	CreateProject(ctx context.Context, project *types.Project) (int64, error)
	GetProject(ctx context.Context, id int64) (*types.Project, error)
	ListProjects(ctx context.Context) ([]*types.Project, error)
	ListProjectsForManager(ctx context.Context, managerID int64) ([]*types.Project, error)
	ListProjectsForMember(ctx context.Context, memberID int64) ([]*types.Project, error)
	SetProblemStatement(ctx context.Context, projectID int64, text string) error
	AddProjectMember(ctx context.Context, projectID, memberID int64) error
	RemoveProjectMember(ctx context.Context, projectID, memberID int64) error
	ListProjectMembers(ctx context.Context, projectID int64) ([]*types.Member, error)
	DeleteProject(ctx context.Context, id int64) error

	// Planning layer
	CreateRequirement(ctx context.Context, req *types.Requirement) (int64, error)
	GetRequirement(ctx context.Context, id int64) (*types.Requirement, error)
	ListRequirements(ctx context.Context, projectID int64) ([]*types.Requirement, error)
	RefineRequirement(ctx context.Context, id int64, refined string) error
	CreateSprint(ctx context.Context, sprint *types.Sprint) (int64, error)
	ListSprints(ctx context.Context, projectID int64) ([]*types.Sprint, error)
	LinkRequirementToSprint(ctx context.Context, sprintID, requirementID int64) error
	UnlinkRequirementFromSprint(ctx context.Context, sprintID, requirementID int64) error
	ListSprintRequirements(ctx context.Context, sprintID int64) ([]*types.Requirement, error)

	// Task engine
	CreateTask(ctx context.Context, task *types.Task) (int64, error)
	GetTask(ctx context.Context, id int64) (*types.Task, error)
	ListTasks(ctx context.Context, filter types.TaskFilter) ([]*types.Task, error)
	AssignTask(ctx context.Context, taskID, memberID int64) error
	UnassignTask(ctx context.Context, taskID int64) error
	TransitionTask(ctx context.Context, taskID int64, newStatus types.TaskStatus) error
	ReassignRequirement(ctx context.Context, taskID int64, requirementID *int64) error

	// Issue threads
	RaiseIssue(ctx context.Context, issue *types.Issue) (int64, error)
	GetIssue(ctx context.Context, id int64) (*types.Issue, error)
	RespondToIssue(ctx context.Context, resp *types.IssueResponse) (int64, error)
	ResolveIssue(ctx context.Context, issueID int64) error
	ListUnresolvedIssues(ctx context.Context, projectID int64) ([]*types.Issue, error)
	ListIssuesForMember(ctx context.Context, memberID, projectID int64) ([]*types.Issue, error)
	ListResponses(ctx context.Context, issueID int64) ([]*types.IssueResponse, error)
	CountOpenIssuesForMember(ctx context.Context, memberID, projectID int64) (int, error)

	// Progress ledger (append-only: no update or delete)
	SubmitProgress(ctx context.Context, update *types.ProgressUpdate) (int64, error)
	ListProgress(ctx context.Context, filter types.ProgressFilter) ([]*types.ProgressUpdate, error)

	// Resource board
	AddResource(ctx context.Context, res *types.Resource) (int64, error)
	ListResources(ctx context.Context, projectID int64) ([]*types.Resource, error)
	DeleteResource(ctx context.Context, id int64) error

	// Lifecycle
	Close() error

	// Database path (for CLI diagnostics)
	Path() string

	// UnderlyingDB returns the underlying *sql.DB connection.
	// Provided for read-only consumers (reports, ad-hoc queries) that
	// need their own queries against the same database.
	// WARNING: Direct database access bypasses the storage layer.
	UnderlyingDB() *sql.DB
}
