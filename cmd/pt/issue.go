package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pragyanai/tracker/internal/types"
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Raise and answer task issues",
}

var issueRaiseCmd = &cobra.Command{
	Use:   "raise [task-id] [text]",
	Short: "Raise an issue against a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID, err := parseID(args[0], "task")
		if err != nil {
			return err
		}
		memberID, _ := cmd.Flags().GetInt64("member")
		kindStr, _ := cmd.Flags().GetString("type")
		needsMeeting, _ := cmd.Flags().GetBool("meeting")
		if memberID <= 0 {
			return fmt.Errorf("--member is required")
		}

		issue := &types.Issue{
			TaskID:       taskID,
			MemberID:     memberID,
			Kind:         types.IssueKind(kindStr),
			Text:         args[1],
			NeedsMeeting: needsMeeting,
		}
		id, err := store.RaiseIssue(context.Background(), issue)
		if err != nil {
			return err
		}
		opLog("raised issue %d on task %d", id, taskID)
		if jsonOutput {
			return printJSON(issue)
		}
		green.Printf("Raised issue %d on task %d\n", id, taskID)
		return nil
	},
}

var issueRespondCmd = &cobra.Command{
	Use:   "respond [issue-id] [text]",
	Short: "Append a manager response to an issue thread",
	Long: `Appends a response to the issue's thread. --type resolution marks the
issue resolved in the same transaction; any other type leaves it open for
further back-and-forth.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		issueID, err := parseID(args[0], "issue")
		if err != nil {
			return err
		}
		responderID, _ := cmd.Flags().GetInt64("manager")
		kindStr, _ := cmd.Flags().GetString("type")
		links, _ := cmd.Flags().GetString("links")
		if responderID <= 0 {
			return fmt.Errorf("--manager is required")
		}

		resp := &types.IssueResponse{
			IssueID:        issueID,
			ResponderID:    responderID,
			Text:           args[1],
			Kind:           types.ResponseKind(kindStr),
			ReferenceLinks: links,
		}
		id, err := store.RespondToIssue(context.Background(), resp)
		if err != nil {
			return err
		}
		opLog("responded %d to issue %d", id, issueID)
		if jsonOutput {
			return printJSON(resp)
		}
		green.Printf("Recorded response %d on issue %d\n", id, issueID)
		if resp.Kind.Resolves() {
			green.Printf("Issue %d resolved\n", issueID)
		}
		return nil
	},
}

var issueResolveCmd = &cobra.Command{
	Use:   "resolve [issue-id]",
	Short: "Mark an issue resolved (idempotent)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issueID, err := parseID(args[0], "issue")
		if err != nil {
			return err
		}
		if err := store.ResolveIssue(context.Background(), issueID); err != nil {
			return err
		}
		opLog("resolved issue %d", issueID)
		green.Printf("Issue %d resolved\n", issueID)
		return nil
	},
}

var issueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a project's unresolved issues, or one member's issues",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projectID, _ := cmd.Flags().GetInt64("project")
		memberID, _ := cmd.Flags().GetInt64("member")
		if projectID <= 0 {
			return fmt.Errorf("--project is required")
		}

		ctx := context.Background()
		var (
			issues []*types.Issue
			err    error
		)
		if memberID > 0 {
			issues, err = store.ListIssuesForMember(ctx, memberID, projectID)
		} else {
			issues, err = store.ListUnresolvedIssues(ctx, projectID)
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(issues)
		}
		for _, i := range issues {
			printIssue(i)
		}
		return nil
	},
}

var issueShowCmd = &cobra.Command{
	Use:   "show [issue-id]",
	Short: "Show an issue and its response thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issueID, err := parseID(args[0], "issue")
		if err != nil {
			return err
		}
		ctx := context.Background()
		issue, err := store.GetIssue(ctx, issueID)
		if err != nil {
			return err
		}
		responses, err := store.ListResponses(ctx, issueID)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(map[string]interface{}{"issue": issue, "responses": responses})
		}
		printIssue(issue)
		for _, r := range responses {
			fmt.Printf("      [%d] %s by manager %d: %s\n", r.ID, r.Kind, r.ResponderID, r.Text)
			if r.ReferenceLinks != "" {
				fmt.Printf("          refs: %s\n", r.ReferenceLinks)
			}
		}
		return nil
	},
}

func init() {
	issueRaiseCmd.Flags().Int64("member", 0, "Raising member id")
	issueRaiseCmd.Flags().String("type", string(types.IssueQuestion), "Issue type: question, doubt, dependency, blocker, meeting_request")
	issueRaiseCmd.Flags().Bool("meeting", false, "Request a 1-on-1 meeting")

	issueRespondCmd.Flags().Int64("manager", 0, "Responding manager id")
	issueRespondCmd.Flags().String("type", string(types.ResponseAnswer), "Response type: answer, clarification, reference, resolution")
	issueRespondCmd.Flags().String("links", "", "Reference links")

	issueListCmd.Flags().Int64P("project", "p", 0, "Project id")
	issueListCmd.Flags().Int64("member", 0, "Only issues raised by this member")

	issueCmd.AddCommand(issueRaiseCmd)
	issueCmd.AddCommand(issueRespondCmd)
	issueCmd.AddCommand(issueResolveCmd)
	issueCmd.AddCommand(issueListCmd)
	issueCmd.AddCommand(issueShowCmd)
	rootCmd.AddCommand(issueCmd)
}
