package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pragyanai/tracker/internal/types"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Submit and read the progress ledger",
}

var progressSubmitCmd = &cobra.Command{
	Use:   "submit [task-id] [summary]",
	Short: "Append a progress update to the ledger",
	Long: `Appends one entry to the append-only progress ledger. Entries are never
edited or deleted; to correct a mistake, submit another entry. The reported
status is the member's view and may lag the task's own status.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		memberID, _ := cmd.Flags().GetInt64("member")
		projectID, _ := cmd.Flags().GetInt64("project")
		statusStr, _ := cmd.Flags().GetString("status")
		codeLink, _ := cmd.Flags().GetString("code-link")
		hours, _ := cmd.Flags().GetFloat64("hours")
		if memberID <= 0 || projectID <= 0 {
			return fmt.Errorf("--member and --project are required")
		}

		update := &types.ProgressUpdate{
			TaskID:    taskID,
			MemberID:  memberID,
			ProjectID: projectID,
			Summary:   args[1],
			Status:    types.TaskStatus(statusStr),
		}
		if codeLink != "" {
			update.CodeLink = &codeLink
		}
		if cmd.Flags().Changed("hours") {
			update.HoursSpent = &hours
		}

		id, err := store.SubmitProgress(context.Background(), update)
		if err != nil {
			return err
		}
		opLog("submitted progress %d on task %d", id, taskID)
		if jsonOutput {
			return printJSON(update)
		}
		green.Printf("Recorded progress update %d on task %d\n", id, taskID)
		return nil
	},
}

var progressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledger entries by task, project, member, or date range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, _ := cmd.Flags().GetInt64("task")
		projectID, _ := cmd.Flags().GetInt64("project")
		memberID, _ := cmd.Flags().GetInt64("member")
		sinceStr, _ := cmd.Flags().GetString("since")
		untilStr, _ := cmd.Flags().GetString("until")

		var filter types.ProgressFilter
		if taskID > 0 {
			filter.TaskID = &taskID
		}
		if projectID > 0 {
			filter.ProjectID = &projectID
		}
		if memberID > 0 {
			filter.MemberID = &memberID
		}
		if sinceStr != "" {
			since, err := parseDate(sinceStr)
			if err != nil {
				return err
			}
			filter.Since = &since
		}
		if untilStr != "" {
			until, err := parseDate(untilStr)
			if err != nil {
				return err
			}
			filter.Until = &until
		}

		updates, err := store.ListProgress(context.Background(), filter)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(updates)
		}
		for _, u := range updates {
			hours := ""
			if u.HoursSpent != nil {
				hours = fmt.Sprintf(", %.1fh", *u.HoursSpent)
			}
			fmt.Printf("  [%d] %s task %d by member %d (%s%s): %s\n",
				u.ID, u.SubmittedAt.Format("2006-01-02"), u.TaskID, u.MemberID,
				statusColor(u.Status).Sprint(u.Status.Display()), hours, u.Summary)
		}
		return nil
	},
}

func init() {
	progressSubmitCmd.Flags().Int64("member", 0, "Submitting member id")
	progressSubmitCmd.Flags().Int64P("project", "p", 0, "Project id")
	progressSubmitCmd.Flags().String("status", string(types.StatusInProgress), "Reported status: todo, in_progress, blocked, done")
	progressSubmitCmd.Flags().String("code-link", "", "Link to the work (branch, PR, commit)")
	progressSubmitCmd.Flags().Float64("hours", 0, "Hours spent")

	progressListCmd.Flags().Int64("task", 0, "Only entries for this task")
	progressListCmd.Flags().Int64P("project", "p", 0, "Only entries for this project")
	progressListCmd.Flags().Int64("member", 0, "Only entries by this member")
	progressListCmd.Flags().String("since", "", "Only entries on or after this date (YYYY-MM-DD)")
	progressListCmd.Flags().String("until", "", "Only entries on or before this date (YYYY-MM-DD)")

	progressCmd.AddCommand(progressSubmitCmd)
	progressCmd.AddCommand(progressListCmd)
	rootCmd.AddCommand(progressCmd)
}
