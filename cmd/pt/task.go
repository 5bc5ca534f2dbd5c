package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pragyanai/tracker/internal/types"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks and their status",
}

var taskCreateCmd = &cobra.Command{
	Use:   "create [title]",
	Short: "Create a task under a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetInt64("project")
		reqID, _ := cmd.Flags().GetInt64("req")
		assignee, _ := cmd.Flags().GetInt64("assignee")
		description, _ := cmd.Flags().GetString("description")
		dueStr, _ := cmd.Flags().GetString("due")
		if projectID <= 0 {
			return fmt.Errorf("--project is required")
		}

		task := &types.Task{
			ProjectID:   projectID,
			Title:       args[0],
			Description: description,
			Status:      types.StatusToDo,
		}
		if reqID > 0 {
			task.RequirementID = &reqID
		}
		if assignee > 0 {
			task.AssignedTo = &assignee
		}
		if dueStr != "" {
			due, err := parseDate(dueStr)
			if err != nil {
				return err
			}
			task.DueDate = &due
		}

		id, err := store.CreateTask(context.Background(), task)
		if err != nil {
			return err
		}
		opLog("created task %d on project %d", id, projectID)
		if jsonOutput {
			return printJSON(task)
		}
		green.Printf("Created task %d (%s)\n", id, args[0])
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		task, err := store.GetTask(context.Background(), id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(task)
		}
		printTask(task)
		if task.Description != "" {
			fmt.Printf("      %s\n", task.Description)
		}
		if task.CompletionDate != nil {
			fmt.Printf("      completed %s\n", task.CompletionDate.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks by project, assignee, or status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetInt64("project")
		assignee, _ := cmd.Flags().GetInt64("assignee")
		statusStr, _ := cmd.Flags().GetString("status")

		var filter types.TaskFilter
		if projectID > 0 {
			filter.ProjectID = &projectID
		}
		if assignee > 0 {
			filter.AssignedTo = &assignee
		}
		if statusStr != "" {
			status := types.TaskStatus(statusStr)
			if !status.IsValid() {
				return fmt.Errorf("invalid status %q", statusStr)
			}
			filter.Status = &status
		}

		tasks, err := store.ListTasks(context.Background(), filter)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(tasks)
		}
		for _, t := range tasks {
			printTask(t)
		}
		return nil
	},
}

var taskAssignCmd = &cobra.Command{
	Use:   "assign [task-id] [member-id]",
	Short: "Assign a task to a project member",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		memberID, err := parseID(args[1], "member")
		if err != nil {
			return err
		}
		if err := store.AssignTask(context.Background(), taskID, memberID); err != nil {
			return err
		}
		opLog("assigned task %d to member %d", taskID, memberID)
		green.Printf("Assigned task %d to member %d\n", taskID, memberID)
		return nil
	},
}

var taskUnassignCmd = &cobra.Command{
	Use:   "unassign [task-id]",
	Short: "Clear a task's assignee",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		if err := store.UnassignTask(context.Background(), taskID); err != nil {
			return err
		}
		opLog("unassigned task %d", taskID)
		green.Printf("Unassigned task %d\n", taskID)
		return nil
	},
}

var taskStatusCmd = &cobra.Command{
	Use:   "status [task-id] [status]",
	Short: "Transition a task along the status graph",
	Long: `Moves a task to a new status. Valid statuses: todo, in_progress, blocked,
done. Transitions follow the graph todo -> in_progress -> {blocked, done},
blocked -> in_progress; done is reachable from any non-terminal status and
stamps the completion date. Moving a task out of done clears it.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		status := types.TaskStatus(args[1])
		if err := store.TransitionTask(context.Background(), taskID, status); err != nil {
			return err
		}
		opLog("transitioned task %d to %s", taskID, status)
		green.Printf("Task %d is now %s\n", taskID, status.Display())
		return nil
	},
}

var taskReqCmd = &cobra.Command{
	Use:   "req [task-id] [requirement-id|none]",
	Short: "Attach a task to a requirement, or detach it with 'none'",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		var reqID *int64
		if args[1] != "none" {
			id, err := parseID(args[1], "requirement")
			if err != nil {
				return err
			}
			reqID = &id
		}
		if err := store.ReassignRequirement(context.Background(), taskID, reqID); err != nil {
			return err
		}
		if reqID == nil {
			opLog("detached task %d from its requirement", taskID)
			green.Printf("Detached task %d from its requirement\n", taskID)
		} else {
			opLog("attached task %d to requirement %d", taskID, *reqID)
			green.Printf("Attached task %d to requirement %d\n", taskID, *reqID)
		}
		return nil
	},
}

func init() {
	taskCreateCmd.Flags().Int64P("project", "p", 0, "Project id")
	taskCreateCmd.Flags().Int64("req", 0, "Requirement id to scope the task under")
	taskCreateCmd.Flags().Int64("assignee", 0, "Member id to assign")
	taskCreateCmd.Flags().StringP("description", "d", "", "Task description")
	taskCreateCmd.Flags().String("due", "", "Due date (YYYY-MM-DD)")

	taskListCmd.Flags().Int64P("project", "p", 0, "Only tasks on this project")
	taskListCmd.Flags().Int64("assignee", 0, "Only tasks assigned to this member")
	taskListCmd.Flags().String("status", "", "Only tasks in this status")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskAssignCmd)
	taskCmd.AddCommand(taskUnassignCmd)
	taskCmd.AddCommand(taskStatusCmd)
	taskCmd.AddCommand(taskReqCmd)
	rootCmd.AddCommand(taskCmd)
}
