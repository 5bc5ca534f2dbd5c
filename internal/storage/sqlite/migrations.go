package sqlite

import (
	"database/sql"
	"fmt"
)

// migrateRefinedDescriptionColumn checks if the refined_description column
// exists on requirements and adds it if missing. Databases created before
// requirement refinement was added get migrated automatically.
func migrateRefinedDescriptionColumn(db *sql.DB) error {
	var columnExists bool
	err := db.QueryRow(`
		SELECT COUNT(*) > 0
		FROM pragma_table_info('requirements')
		WHERE name = 'refined_description'
	`).Scan(&columnExists)
	if err != nil {
		return fmt.Errorf("failed to check refined_description column: %w", err)
	}

	if columnExists {
		// Column already exists, nothing to do
		return nil
	}

	_, err = db.Exec(`ALTER TABLE requirements ADD COLUMN refined_description TEXT`)
	if err != nil {
		return fmt.Errorf("failed to add refined_description column: %w", err)
	}

	return nil
}

// migrateCompletionDateConstraint cleans up inconsistent status/completion_date
// data. The CHECK constraint is in the schema for new databases, but we can't
// add it to existing tables without recreating them. Instead we clean the data
// and rely on the write path (TransitionTask) to maintain the invariant.
func migrateCompletionDateConstraint(db *sql.DB) error {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*)
		FROM tasks
		WHERE (CASE WHEN status = 'done' THEN 1 ELSE 0 END) <>
		      (CASE WHEN completion_date IS NOT NULL THEN 1 ELSE 0 END)
	`).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count inconsistent tasks: %w", err)
	}

	if count == 0 {
		// No inconsistent data, nothing to do
		return nil
	}

	// Clean inconsistent data: trust the status field.
	// If status != 'done' but completion_date is set, clear completion_date;
	// if status = 'done' but completion_date is not set, fall back to updated_at.
	_, err = db.Exec(`
		UPDATE tasks
		SET completion_date = NULL
		WHERE status != 'done' AND completion_date IS NOT NULL
	`)
	if err != nil {
		return fmt.Errorf("failed to clear completion_date for unfinished tasks: %w", err)
	}

	_, err = db.Exec(`
		UPDATE tasks
		SET completion_date = COALESCE(updated_at, CURRENT_TIMESTAMP)
		WHERE status = 'done' AND completion_date IS NULL
	`)
	if err != nil {
		return fmt.Errorf("failed to set completion_date for done tasks: %w", err)
	}

	return nil
}
