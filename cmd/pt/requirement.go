package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pragyanai/tracker/internal/types"
)

var reqCmd = &cobra.Command{
	Use:   "req",
	Short: "Manage project requirements",
}

var reqCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a requirement under a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetInt64("project")
		description, _ := cmd.Flags().GetString("description")
		if projectID <= 0 {
			return fmt.Errorf("--project is required")
		}

		req := &types.Requirement{
			ProjectID:   projectID,
			Title:       args[0],
			Description: description,
		}
		id, err := store.CreateRequirement(context.Background(), req)
		if err != nil {
			return err
		}
		opLog("created requirement %d on project %d", id, projectID)
		if jsonOutput {
			return printJSON(req)
		}
		green.Printf("Created requirement %d (%s)\n", id, args[0])
		return nil
	},
}

var reqRefineCmd = &cobra.Command{
	Use:   "refine [id] [text]",
	Short: "Record the manager's refined description",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "requirement")
		if err != nil {
			return err
		}
		if err := store.RefineRequirement(context.Background(), id, args[1]); err != nil {
			return err
		}
		opLog("refined requirement %d", id)
		green.Printf("Refined requirement %d\n", id)
		return nil
	},
}

var reqListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's requirements",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetInt64("project")
		if projectID <= 0 {
			return fmt.Errorf("--project is required")
		}
		reqs, err := store.ListRequirements(context.Background(), projectID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(reqs)
		}
		for _, r := range reqs {
			refined := ""
			if r.RefinedDescription != nil {
				refined = cyan.Sprint(" (refined)")
			}
			fmt.Printf("  [%d] %s%s\n", r.ID, bold.Sprint(r.Title), refined)
		}
		return nil
	},
}

func init() {
	reqCreateCmd.Flags().Int64P("project", "p", 0, "Project id")
	reqCreateCmd.Flags().StringP("description", "d", "", "Requirement description")
	reqListCmd.Flags().Int64P("project", "p", 0, "Project id")

	reqCmd.AddCommand(reqCreateCmd)
	reqCmd.AddCommand(reqRefineCmd)
	reqCmd.AddCommand(reqListCmd)
	rootCmd.AddCommand(reqCmd)
}
