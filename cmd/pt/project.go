package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pragyanai/tracker/internal/types"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects and rosters",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a project owned by a manager",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		problem, _ := cmd.Flags().GetString("problem")
		managerID, _ := cmd.Flags().GetInt64("manager")
		if managerID <= 0 {
			return fmt.Errorf("--manager is required")
		}

		project := &types.Project{
			Name:             args[0],
			Description:      description,
			ProblemStatement: problem,
			ManagerID:        managerID,
		}
		id, err := store.CreateProject(context.Background(), project)
		if err != nil {
			return err
		}
		opLog("created project %d (%s)", id, args[0])
		if jsonOutput {
			return printJSON(project)
		}
		green.Printf("Created project %d (%s)\n", id, args[0])
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a project and its roster",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		ctx := context.Background()
		project, err := store.GetProject(ctx, id)
		if err != nil {
			return err
		}
		members, err := store.ListProjectMembers(ctx, id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]interface{}{"project": project, "members": members})
		}
		fmt.Printf("%s (project %d, manager %d)\n", bold.Sprint(project.Name), project.ID, project.ManagerID)
		if project.Description != "" {
			fmt.Printf("  %s\n", project.Description)
		}
		if project.ProblemStatement != "" {
			fmt.Printf("  Problem: %s\n", project.ProblemStatement)
		}
		fmt.Printf("  Members (%d):\n", len(members))
		for _, m := range members {
			fmt.Printf("    [%d] %s (%s)\n", m.ID, m.Name, m.Email)
		}
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, optionally scoped to a manager or member",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		managerID, _ := cmd.Flags().GetInt64("manager")
		memberID, _ := cmd.Flags().GetInt64("member")

		ctx := context.Background()
		var (
			projects []*types.Project
			err      error
		)
		switch {
		case managerID > 0:
			projects, err = store.ListProjectsForManager(ctx, managerID)
		case memberID > 0:
			projects, err = store.ListProjectsForMember(ctx, memberID)
		default:
			projects, err = store.ListProjects(ctx)
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(projects)
		}
		for _, p := range projects {
			fmt.Printf("  [%d] %s (manager %d)\n", p.ID, bold.Sprint(p.Name), p.ManagerID)
		}
		return nil
	},
}

var projectProblemCmd = &cobra.Command{
	Use:   "problem [id] [statement]",
	Short: "Set a project's problem statement",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		if err := store.SetProblemStatement(context.Background(), id, args[1]); err != nil {
			return err
		}
		opLog("updated problem statement of project %d", id)
		green.Printf("Updated problem statement of project %d\n", id)
		return nil
	},
}

var projectMemberCmd = &cobra.Command{
	Use:   "member",
	Short: "Manage the project roster",
}

var projectMemberAddCmd = &cobra.Command{
	Use:   "add [project-id] [member-id]",
	Short: "Add a member to a project roster",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		memberID, err := parseID(args[1], "member")
		if err != nil {
			return err
		}
		if err := store.AddProjectMember(context.Background(), projectID, memberID); err != nil {
			return err
		}
		opLog("added member %d to project %d", memberID, projectID)
		green.Printf("Added member %d to project %d\n", memberID, projectID)
		return nil
	},
}

var projectMemberRmCmd = &cobra.Command{
	Use:   "rm [project-id] [member-id]",
	Short: "Remove a member from a project roster",
	Long: `Removes the roster link only. Tasks already assigned to the member stay
assigned to them; historical ownership survives removal.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		memberID, err := parseID(args[1], "member")
		if err != nil {
			return err
		}
		if err := store.RemoveProjectMember(context.Background(), projectID, memberID); err != nil {
			return err
		}
		opLog("removed member %d from project %d", memberID, projectID)
		green.Printf("Removed member %d from project %d\n", memberID, projectID)
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a project and everything under it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "project")
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("deleting a project removes all of its requirements, sprints, tasks, issues, and progress history; re-run with --force")
		}
		if err := store.DeleteProject(context.Background(), id); err != nil {
			return err
		}
		opLog("deleted project %d", id)
		green.Printf("Deleted project %d and all dependent records\n", id)
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringP("description", "d", "", "Project description")
	projectCreateCmd.Flags().String("problem", "", "Problem statement")
	projectCreateCmd.Flags().Int64("manager", 0, "Owning manager id")

	projectListCmd.Flags().Int64("manager", 0, "Only projects owned by this manager")
	projectListCmd.Flags().Int64("member", 0, "Only projects this member is rostered on")

	projectDeleteCmd.Flags().Bool("force", false, "Skip the confirmation guard")

	projectMemberCmd.AddCommand(projectMemberAddCmd)
	projectMemberCmd.AddCommand(projectMemberRmCmd)

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectProblemCmd)
	projectCmd.AddCommand(projectMemberCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	rootCmd.AddCommand(projectCmd)
}
