package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pragyanai/tracker/internal/types"
)

var sprintCmd = &cobra.Command{
	Use:   "sprint",
	Short: "Manage sprints and their requirement links",
}

var sprintCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a dated sprint under a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetInt64("project")
		startStr, _ := cmd.Flags().GetString("start")
		endStr, _ := cmd.Flags().GetString("end")
		if projectID <= 0 {
			return fmt.Errorf("--project is required")
		}
		if startStr == "" || endStr == "" {
			return fmt.Errorf("--start and --end are required")
		}
		start, err := parseDate(startStr)
		if err != nil {
			return err
		}
		end, err := parseDate(endStr)
		if err != nil {
			return err
		}

		sprint := &types.Sprint{
			ProjectID: projectID,
			Name:      args[0],
			StartDate: start,
			EndDate:   end,
		}
		id, err := store.CreateSprint(context.Background(), sprint)
		if err != nil {
			return err
		}
		opLog("created sprint %d on project %d", id, projectID)
		if jsonOutput {
			return printJSON(sprint)
		}
		green.Printf("Created sprint %d (%s)\n", id, args[0])
		return nil
	},
}

var sprintLinkCmd = &cobra.Command{
	Use:   "link [sprint-id] [requirement-id]",
	Short: "Link a requirement into a sprint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sprintID, err := parseID(args[0], "sprint")
		if err != nil {
			return err
		}
		reqID, err := parseID(args[1], "requirement")
		if err != nil {
			return err
		}
		if err := store.LinkRequirementToSprint(context.Background(), sprintID, reqID); err != nil {
			return err
		}
		opLog("linked requirement %d into sprint %d", reqID, sprintID)
		green.Printf("Linked requirement %d into sprint %d\n", reqID, sprintID)
		return nil
	},
}

var sprintUnlinkCmd = &cobra.Command{
	Use:   "unlink [sprint-id] [requirement-id]",
	Short: "Remove a requirement from a sprint",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sprintID, err := parseID(args[0], "sprint")
		if err != nil {
			return err
		}
		reqID, err := parseID(args[1], "requirement")
		if err != nil {
			return err
		}
		if err := store.UnlinkRequirementFromSprint(context.Background(), sprintID, reqID); err != nil {
			return err
		}
		opLog("unlinked requirement %d from sprint %d", reqID, sprintID)
		green.Printf("Unlinked requirement %d from sprint %d\n", reqID, sprintID)
		return nil
	},
}

var sprintListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's sprints with their requirements",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetInt64("project")
		if projectID <= 0 {
			return fmt.Errorf("--project is required")
		}
		ctx := context.Background()
		sprints, err := store.ListSprints(ctx, projectID)
		if err != nil {
			return err
		}
		if jsonOutput {
			out := make([]map[string]interface{}, 0, len(sprints))
			for _, sp := range sprints {
				reqs, err := store.ListSprintRequirements(ctx, sp.ID)
				if err != nil {
					return err
				}
				out = append(out, map[string]interface{}{"sprint": sp, "requirements": reqs})
			}
			return printJSON(out)
		}
		for _, sp := range sprints {
			fmt.Printf("  [%d] %s (%s to %s)\n", sp.ID, bold.Sprint(sp.Name),
				sp.StartDate.Format("2006-01-02"), sp.EndDate.Format("2006-01-02"))
			reqs, err := store.ListSprintRequirements(ctx, sp.ID)
			if err != nil {
				return err
			}
			for _, r := range reqs {
				fmt.Printf("      req [%d] %s\n", r.ID, r.Title)
			}
		}
		return nil
	},
}

func init() {
	sprintCreateCmd.Flags().Int64P("project", "p", 0, "Project id")
	sprintCreateCmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	sprintCreateCmd.Flags().String("end", "", "End date (YYYY-MM-DD)")
	sprintListCmd.Flags().Int64P("project", "p", 0, "Project id")

	sprintCmd.AddCommand(sprintCreateCmd)
	sprintCmd.AddCommand(sprintLinkCmd)
	sprintCmd.AddCommand(sprintUnlinkCmd)
	sprintCmd.AddCommand(sprintListCmd)
	rootCmd.AddCommand(sprintCmd)
}
