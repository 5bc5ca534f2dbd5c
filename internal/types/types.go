// Package types defines the entities, status machines, and domain errors
// shared by the storage layer and the CLI.
package types

import (
	"fmt"
	"time"
)

// Role tags the three disjoint identity variants.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleManager    Role = "project_manager"
	RoleMember     Role = "team_member"
)

// IsValid checks if the role value is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleManager, RoleMember:
		return true
	}
	return false
}

// Identity is the handle produced by a successful authentication.
// The three roles live in disjoint tables; this is the only shape
// they share. Token is a per-login opaque session identifier.
type Identity struct {
	ID    int64  `json:"id"`
	Role  Role   `json:"role"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// SuperAdmin administers identities and projects across the whole system.
type SuperAdmin struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Manager owns projects and answers issue threads.
type Manager struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Member is a team member who works tasks, raises issues, and submits
// progress updates.
type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Project anchors everything: requirements, sprints, tasks, resources,
// and transitively issues, responses, and progress updates.
type Project struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	ProblemStatement string    `json:"problem_statement"`
	ManagerID        int64     `json:"manager_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// Validate checks if the project has valid field values
func (p *Project) Validate() error {
	if len(p.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if len(p.Name) > 200 {
		return fmt.Errorf("name must be 200 characters or less (got %d)", len(p.Name))
	}
	if p.ManagerID <= 0 {
		return fmt.Errorf("manager_id is required")
	}
	return nil
}

// Requirement is a per-project planning item. RefinedDescription holds the
// manager's later elaboration and stays nil until one is recorded.
type Requirement struct {
	ID                 int64   `json:"id"`
	ProjectID          int64   `json:"project_id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	RefinedDescription *string `json:"refined_description,omitempty"`
}

// Sprint is a dated iteration within a project, linked many-to-many
// with requirements.
type Sprint struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// Validate checks if the sprint has valid field values
func (s *Sprint) Validate() error {
	if len(s.Name) == 0 {
		return fmt.Errorf("name is required")
	}
	if s.EndDate.Before(s.StartDate) {
		return fmt.Errorf("end date %s precedes start date %s",
			s.EndDate.Format("2006-01-02"), s.StartDate.Format("2006-01-02"))
	}
	return nil
}

// TaskStatus is the closed status enumeration for tasks.
type TaskStatus string

const (
	StatusToDo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusBlocked    TaskStatus = "blocked"
	StatusDone       TaskStatus = "done"
)

// IsValid checks if the status value is valid
func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusBlocked, StatusDone:
		return true
	}
	return false
}

// Terminal reports whether the status is terminal. completion_date is
// non-null exactly when the status is terminal.
func (s TaskStatus) Terminal() bool {
	return s == StatusDone
}

// Display returns the human form used in CLI output.
func (s TaskStatus) Display() string {
	switch s {
	case StatusToDo:
		return "To Do"
	case StatusInProgress:
		return "In Progress"
	case StatusBlocked:
		return "Blocked"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// taskTransitions is the allowed status graph. Done is reachable from any
// non-terminal state; leaving Done reopens the task and clears its
// completion date. Self-transitions are not in the graph.
var taskTransitions = map[TaskStatus][]TaskStatus{
	StatusToDo:       {StatusInProgress, StatusDone},
	StatusInProgress: {StatusBlocked, StatusDone},
	StatusBlocked:    {StatusInProgress, StatusDone},
	StatusDone:       {StatusToDo, StatusInProgress, StatusBlocked},
}

// CanTransition reports whether from -> to is an edge of the status graph.
func CanTransition(from, to TaskStatus) bool {
	for _, next := range taskTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Task is the unit of assignable work. RequirementID is nil for tasks not
// scoped to any requirement; AssignedTo is nil for unassigned tasks.
type Task struct {
	ID             int64      `json:"id"`
	ProjectID      int64      `json:"project_id"`
	RequirementID  *int64     `json:"requirement_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	AssignedTo     *int64     `json:"assigned_to,omitempty"`
	Status         TaskStatus `json:"status"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	CompletionDate *time.Time `json:"completion_date,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Validate checks if the task has valid field values
func (t *Task) Validate() error {
	if len(t.Title) == 0 {
		return fmt.Errorf("title is required")
	}
	if len(t.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less (got %d)", len(t.Title))
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", t.Status)
	}
	if t.Status.Terminal() != (t.CompletionDate != nil) {
		return fmt.Errorf("completion date must be set exactly when status is terminal")
	}
	return nil
}

// IssueKind categorizes what a member is raising against a task.
type IssueKind string

const (
	IssueQuestion   IssueKind = "question"
	IssueDoubt      IssueKind = "doubt"
	IssueDependency IssueKind = "dependency"
	IssueBlocker    IssueKind = "blocker"
	IssueMeeting    IssueKind = "meeting_request"
)

// IsValid checks if the issue kind value is valid
func (k IssueKind) IsValid() bool {
	switch k {
	case IssueQuestion, IssueDoubt, IssueDependency, IssueBlocker, IssueMeeting:
		return true
	}
	return false
}

// Issue is a task-scoped question or blocker raised by a member.
// NeedsMeeting is an orthogonal out-of-band flag: resolution does not
// clear it.
type Issue struct {
	ID           int64     `json:"id"`
	TaskID       int64     `json:"task_id"`
	MemberID     int64     `json:"member_id"`
	Kind         IssueKind `json:"issue_type"`
	Text         string    `json:"issue_text"`
	NeedsMeeting bool      `json:"needs_meeting"`
	Resolved     bool      `json:"is_resolved"`
	CreatedAt    time.Time `json:"created_at"`
}

// ResponseKind categorizes a manager's reply on an issue thread.
// Only a resolution response flips the issue to resolved.
type ResponseKind string

const (
	ResponseAnswer        ResponseKind = "answer"
	ResponseClarification ResponseKind = "clarification"
	ResponseReference     ResponseKind = "reference"
	ResponseResolution    ResponseKind = "resolution"
)

// IsValid checks if the response kind value is valid
func (k ResponseKind) IsValid() bool {
	switch k {
	case ResponseAnswer, ResponseClarification, ResponseReference, ResponseResolution:
		return true
	}
	return false
}

// Resolves reports whether a response of this kind closes the thread.
func (k ResponseKind) Resolves() bool {
	return k == ResponseResolution
}

// IssueResponse is one entry of an issue thread, ordered by CreatedAt.
type IssueResponse struct {
	ID             int64        `json:"id"`
	IssueID        int64        `json:"issue_id"`
	ResponderID    int64        `json:"responder_id"`
	Text           string       `json:"response_text"`
	Kind           ResponseKind `json:"response_type"`
	ReferenceLinks string       `json:"reference_links,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
}

// ProgressUpdate is an append-only ledger entry. It is never edited or
// deleted; a correction is a new entry. ProjectID is denormalized so
// per-project rollups skip the task join.
type ProgressUpdate struct {
	ID          int64      `json:"id"`
	TaskID      int64      `json:"task_id"`
	MemberID    int64      `json:"member_id"`
	ProjectID   int64      `json:"project_id"`
	Summary     string     `json:"summary"`
	Status      TaskStatus `json:"status"`
	CodeLink    *string    `json:"code_link,omitempty"`
	HoursSpent  *float64   `json:"hours_spent,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
}

// Validate checks if the progress update has valid field values
func (u *ProgressUpdate) Validate() error {
	if len(u.Summary) == 0 {
		return fmt.Errorf("summary is required")
	}
	if !u.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", u.Status)
	}
	if u.HoursSpent != nil && *u.HoursSpent < 0 {
		return fmt.Errorf("hours_spent cannot be negative")
	}
	return nil
}

// Resource is a manager-curated reference link on a project.
type Resource struct {
	ID          int64  `json:"id"`
	ProjectID   int64  `json:"project_id"`
	Title       string `json:"title"`
	Link        string `json:"link"`
	Description string `json:"description"`
}

// TaskFilter is used to filter task queries
type TaskFilter struct {
	ProjectID  *int64
	AssignedTo *int64
	Status     *TaskStatus
	Limit      int
}

// ProgressFilter is used to filter progress ledger queries
type ProgressFilter struct {
	TaskID    *int64
	ProjectID *int64
	MemberID  *int64
	Since     *time.Time
	Until     *time.Time
	Limit     int
}
