package sqlite

const schema = `
-- Identity tables: one per role, deliberately disjoint. Usernames are
-- unique within a table, not across roles.
CREATE TABLE IF NOT EXISTS super_admins (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS project_managers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS team_members (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Projects anchor everything below them.
CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL CHECK(length(name) <= 200),
    description TEXT NOT NULL DEFAULT '',
    problem_statement TEXT NOT NULL DEFAULT '',
    manager_id INTEGER NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (manager_id) REFERENCES project_managers(id)
);

CREATE INDEX IF NOT EXISTS idx_projects_manager ON projects(manager_id);

CREATE TABLE IF NOT EXISTS project_members (
    project_id INTEGER NOT NULL,
    member_id INTEGER NOT NULL,
    PRIMARY KEY (project_id, member_id),
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
    FOREIGN KEY (member_id) REFERENCES team_members(id)
);

CREATE INDEX IF NOT EXISTS idx_project_members_member ON project_members(member_id);

CREATE TABLE IF NOT EXISTS requirements (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    title TEXT NOT NULL CHECK(length(title) <= 500),
    description TEXT NOT NULL DEFAULT '',
    refined_description TEXT,
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_requirements_project ON requirements(project_id);

CREATE TABLE IF NOT EXISTS sprints (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    start_date DATETIME NOT NULL,
    end_date DATETIME NOT NULL,
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_sprints_project ON sprints(project_id);

-- A requirement may sit in zero or many sprints (carry-over is allowed).
CREATE TABLE IF NOT EXISTS sprint_requirements (
    sprint_id INTEGER NOT NULL,
    requirement_id INTEGER NOT NULL,
    PRIMARY KEY (sprint_id, requirement_id),
    FOREIGN KEY (sprint_id) REFERENCES sprints(id) ON DELETE CASCADE,
    FOREIGN KEY (requirement_id) REFERENCES requirements(id) ON DELETE CASCADE
);

-- Tasks table. completion_date is set exactly when status is 'done';
-- deleting a requirement detaches its tasks instead of deleting them.
CREATE TABLE IF NOT EXISTS tasks (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    requirement_id INTEGER,
    title TEXT NOT NULL CHECK(length(title) <= 500),
    description TEXT NOT NULL DEFAULT '',
    assigned_to INTEGER,
    status TEXT NOT NULL DEFAULT 'todo',
    due_date DATETIME,
    completion_date DATETIME,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE,
    FOREIGN KEY (requirement_id) REFERENCES requirements(id) ON DELETE SET NULL,
    FOREIGN KEY (assigned_to) REFERENCES team_members(id),
    CHECK ((status = 'done') = (completion_date IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_tasks_project ON tasks(project_id);
CREATE INDEX IF NOT EXISTS idx_tasks_assigned_to ON tasks(assigned_to);
CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);

CREATE TABLE IF NOT EXISTS task_issues (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id INTEGER NOT NULL,
    member_id INTEGER NOT NULL,
    issue_type TEXT NOT NULL,
    issue_text TEXT NOT NULL,
    needs_meeting INTEGER NOT NULL DEFAULT 0,
    is_resolved INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
    FOREIGN KEY (member_id) REFERENCES team_members(id)
);

CREATE INDEX IF NOT EXISTS idx_task_issues_task ON task_issues(task_id);
CREATE INDEX IF NOT EXISTS idx_task_issues_resolved ON task_issues(is_resolved);

CREATE TABLE IF NOT EXISTS issue_responses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    issue_id INTEGER NOT NULL,
    responder_id INTEGER NOT NULL,
    response_text TEXT NOT NULL,
    response_type TEXT NOT NULL DEFAULT 'answer',
    reference_links TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (issue_id) REFERENCES task_issues(id) ON DELETE CASCADE,
    FOREIGN KEY (responder_id) REFERENCES project_managers(id)
);

CREATE INDEX IF NOT EXISTS idx_issue_responses_issue ON issue_responses(issue_id);

-- Append-only ledger. project_id is denormalized for per-project rollups.
CREATE TABLE IF NOT EXISTS progress_updates (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    task_id INTEGER NOT NULL,
    member_id INTEGER NOT NULL,
    project_id INTEGER NOT NULL,
    summary TEXT NOT NULL,
    status TEXT NOT NULL,
    code_link TEXT,
    hours_spent REAL,
    submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (task_id) REFERENCES tasks(id) ON DELETE CASCADE,
    FOREIGN KEY (member_id) REFERENCES team_members(id),
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_progress_task ON progress_updates(task_id);
CREATE INDEX IF NOT EXISTS idx_progress_project ON progress_updates(project_id);
CREATE INDEX IF NOT EXISTS idx_progress_submitted_at ON progress_updates(submitted_at);

CREATE TABLE IF NOT EXISTS resources (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    project_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    link TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (project_id) REFERENCES projects(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_resources_project ON resources(project_id);

-- Unresolved issues joined with their project, for manager dashboards.
CREATE VIEW IF NOT EXISTS unresolved_issues AS
SELECT ti.*, t.project_id
FROM task_issues ti
JOIN tasks t ON ti.task_id = t.id
WHERE ti.is_resolved = 0;
`
