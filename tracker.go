// Package tracker provides a minimal public API for embedding the
// project-tracker core in other Go programs.
//
// Most consumers should go through the pt CLI. This package exports only
// the essential types and the storage constructor needed by programs
// (dashboards, report generators, assistant-context exporters) that want
// to use the storage layer programmatically.
package tracker

import (
	"os"
	"path/filepath"

	"github.com/pragyanai/tracker/internal/storage"
	"github.com/pragyanai/tracker/internal/storage/sqlite"
	"github.com/pragyanai/tracker/internal/types"
)

// Core entity types
type (
	Project        = types.Project
	Requirement    = types.Requirement
	Sprint         = types.Sprint
	Task           = types.Task
	TaskStatus     = types.TaskStatus
	Issue          = types.Issue
	IssueResponse  = types.IssueResponse
	ProgressUpdate = types.ProgressUpdate
	Resource       = types.Resource
	TaskFilter     = types.TaskFilter
	ProgressFilter = types.ProgressFilter
)

// Task status constants
const (
	StatusToDo       = types.StatusToDo
	StatusInProgress = types.StatusInProgress
	StatusBlocked    = types.StatusBlocked
	StatusDone       = types.StatusDone
)

// Storage provides the full data-access contract
type Storage = storage.Storage

// NewSQLiteStorage opens a tracker SQLite database for programmatic access.
func NewSQLiteStorage(dbPath string) (Storage, error) {
	return sqlite.New(dbPath)
}

// FindDatabasePath discovers the tracker database path using the standard
// search order:
//  1. $PT_DB environment variable
//  2. .tracker/tracker.db in current directory or ancestors
//  3. ~/.tracker/tracker.db (fallback)
//
// Returns empty string if nothing is found at (1) or (2) and (3) doesn't exist.
func FindDatabasePath() string {
	if p := os.Getenv("PT_DB"); p != "" {
		return p
	}

	cwd, err := os.Getwd()
	if err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			candidate := filepath.Join(dir, ".tracker", "tracker.db")
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	fallback := filepath.Join(homeDir, ".tracker", "tracker.db")
	if _, err := os.Stat(fallback); err == nil {
		return fallback
	}
	return ""
}
