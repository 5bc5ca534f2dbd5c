package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/pragyanai/tracker/internal/types"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

// printJSON writes v as indented JSON to stdout
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// statusColor picks the color used for a task status in human output
func statusColor(s types.TaskStatus) *color.Color {
	switch s {
	case types.StatusDone:
		return green
	case types.StatusBlocked:
		return red
	case types.StatusInProgress:
		return cyan
	}
	return yellow
}

// printTask renders one task line in human output
func printTask(t *types.Task) {
	assignee := "unassigned"
	if t.AssignedTo != nil {
		assignee = fmt.Sprintf("member %d", *t.AssignedTo)
	}
	due := ""
	if t.DueDate != nil {
		due = " due " + t.DueDate.Format("2006-01-02")
	}
	fmt.Printf("  [%d] %s (%s, %s%s)\n",
		t.ID, bold.Sprint(t.Title), statusColor(t.Status).Sprint(t.Status.Display()), assignee, due)
}

// printIssue renders one issue line in human output
func printIssue(i *types.Issue) {
	state := yellow.Sprint("open")
	if i.Resolved {
		state = green.Sprint("resolved")
	}
	meeting := ""
	if i.NeedsMeeting {
		meeting = red.Sprint(" [1-on-1 requested]")
	}
	fmt.Printf("  [%d] task %d, %s by member %d: %s (%s)%s\n",
		i.ID, i.TaskID, i.Kind, i.MemberID, i.Text, state, meeting)
}
