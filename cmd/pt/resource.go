package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pragyanai/tracker/internal/types"
)

var resourceCmd = &cobra.Command{
	Use:   "resource",
	Short: "Manage project reference links",
}

var resourceAddCmd = &cobra.Command{
	Use:   "add [title] [link]",
	Short: "Add a reference link to a project",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetInt64("project")
		description, _ := cmd.Flags().GetString("description")
		if projectID <= 0 {
			return fmt.Errorf("--project is required")
		}

		res := &types.Resource{
			ProjectID:   projectID,
			Title:       args[0],
			Link:        args[1],
			Description: description,
		}
		id, err := store.AddResource(context.Background(), res)
		if err != nil {
			return err
		}
		opLog("added resource %d to project %d", id, projectID)
		if jsonOutput {
			return printJSON(res)
		}
		green.Printf("Added resource %d (%s)\n", id, args[0])
		return nil
	},
}

var resourceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's resources",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetInt64("project")
		if projectID <= 0 {
			return fmt.Errorf("--project is required")
		}
		resources, err := store.ListResources(context.Background(), projectID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(resources)
		}
		for _, r := range resources {
			fmt.Printf("  [%d] %s - %s\n", r.ID, bold.Sprint(r.Title), r.Link)
		}
		return nil
	},
}

var resourceRmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a resource",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "resource")
		if err != nil {
			return err
		}
		if err := store.DeleteResource(context.Background(), id); err != nil {
			return err
		}
		opLog("deleted resource %d", id)
		green.Printf("Deleted resource %d\n", id)
		return nil
	},
}

func init() {
	resourceAddCmd.Flags().Int64P("project", "p", 0, "Project id")
	resourceAddCmd.Flags().StringP("description", "d", "", "What this resource is for")
	resourceListCmd.Flags().Int64P("project", "p", 0, "Project id")

	resourceCmd.AddCommand(resourceAddCmd)
	resourceCmd.AddCommand(resourceListCmd)
	resourceCmd.AddCommand(resourceRmCmd)
	rootCmd.AddCommand(resourceCmd)
}
