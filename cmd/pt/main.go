// Command pt is the project-tracker CLI: identities, projects, sprints,
// tasks, issue threads, progress updates, and resources over a SQLite store.
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pragyanai/tracker/internal/config"
	"github.com/pragyanai/tracker/internal/storage"
	"github.com/pragyanai/tracker/internal/storage/sqlite"
)

var (
	store      storage.Storage
	dbPath     string
	actor      string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "pt",
	Short: "Collaborative project tracker",
	Long: `pt tracks collaborative software-project work: projects, requirements,
sprints, tasks, task issues with manager response threads, and append-only
progress updates, across super-admin, manager, and team-member roles.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Initialize(); err != nil {
			return err
		}

		// Flags win over config/env; config.Initialize already layered
		// env over file defaults.
		if !cmd.Flags().Changed("json") {
			jsonOutput = config.GetBool("json")
		}
		if dbPath == "" {
			dbPath = config.DatabasePath()
		}
		if actor == "" {
			actor = config.GetString("actor")
		}
		if actor == "" {
			actor = os.Getenv("USER")
		}

		s, err := sqlite.New(dbPath)
		if err != nil {
			return fmt.Errorf("failed to open database %s: %w", dbPath, err)
		}
		store = s
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if store != nil {
			_ = store.Close()
		}
	},
}

// parseID parses a positional numeric id argument.
func parseID(arg, what string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}

// parseDate parses a YYYY-MM-DD flag value.
func parseDate(value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return d, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database path (default: auto-discover .tracker/tracker.db or ~/.tracker/tracker.db)")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Actor name for the operation log (default: $PT_ACTOR or $USER)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
