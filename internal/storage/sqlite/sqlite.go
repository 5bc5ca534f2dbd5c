// Package sqlite implements the storage interface using SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	// Import SQLite driver
	_ "modernc.org/sqlite"
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
	closed atomic.Bool // Tracks whether Close() has been called
}

// New creates a new SQLite storage backend
func New(path string) (*SQLiteStorage, error) {
	// Convert :memory: to shared memory URL for consistent behavior across connections.
	// SQLite creates separate in-memory databases for each connection to ":memory:",
	// but "file::memory:?cache=shared" creates a shared in-memory database.
	dbPath := path
	if path == ":memory:" {
		dbPath = "file::memory:?cache=shared"
	}

	// Ensure directory exists (skip for memory databases)
	if !strings.Contains(dbPath, ":memory:") {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Open database with WAL mode for better concurrency and busy timeout for
	// parallel writers. _pragma=foreign_keys(ON) enforces the FK and CASCADE
	// semantics the whole data model depends on; _time_format=sqlite parses
	// DATETIME columns into time.Time.
	connStr := dbPath
	if strings.Contains(dbPath, "?") {
		connStr += "&_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(30000)&_time_format=sqlite"
	} else {
		connStr += "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(30000)&_time_format=sqlite"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Migrate existing databases to add the refined_description column if missing
	if err := migrateRefinedDescriptionColumn(db); err != nil {
		return nil, fmt.Errorf("failed to migrate refined_description column: %w", err)
	}

	// Migrate existing databases to repair status/completion_date drift
	if err := migrateCompletionDateConstraint(db); err != nil {
		return nil, fmt.Errorf("failed to migrate completion_date constraint: %w", err)
	}

	// Convert to absolute path for consistency
	absPath := path
	if !strings.Contains(dbPath, ":memory:") {
		absPath, err = filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute path: %w", err)
		}
	}

	return &SQLiteStorage{
		db:     db,
		dbPath: absPath,
	}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	if s.closed.Swap(true) {
		// Already closed
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path
func (s *SQLiteStorage) Path() string {
	return s.dbPath
}

// UnderlyingDB returns the underlying *sql.DB connection
func (s *SQLiteStorage) UnderlyingDB() *sql.DB {
	return s.db
}

// inTransaction runs fn inside a single IMMEDIATE transaction on a dedicated
// connection. IMMEDIATE acquires the write lock up front, serializing
// concurrent writers instead of failing midway; database/sql's pool would
// otherwise spread statements across connections. Every mutating operation
// that touches more than one row goes through here: either all writes
// commit or none do.
func (s *SQLiteStorage) inTransaction(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("failed to begin immediate transaction: %w", err)
	}

	// Use context.Background() for ROLLBACK so cleanup happens even if ctx
	// is already canceled.
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(context.Background(), "ROLLBACK")
		}
	}()

	if err := fn(conn); err != nil {
		return err
	}

	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

// isUniqueConstraintErr reports whether err is a SQLite UNIQUE or composite
// primary-key violation. modernc.org/sqlite surfaces these as plain errors,
// so string matching is the only handle (SQLite always spells it uppercase).
func isUniqueConstraintErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyErr reports whether err is a SQLite FK violation.
func isForeignKeyErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
