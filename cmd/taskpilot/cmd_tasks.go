package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"taskpilot/internal/clock"
	"taskpilot/internal/task"
)

var (
	addPriority    string
	addDescription string
	addDue         string
	listStatus     string
	snoozeFor      time.Duration
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Create a new task",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTaskAdd,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var taskShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one task in detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskActivateCmd = &cobra.Command{
	Use:   "activate [id]",
	Short: "Move a task to active",
	Args:  cobra.ExactArgs(1),
	RunE:  transitionRunner(func(t *task.Task, now time.Time) error { return t.ActivateByUser(now) }),
}

var taskCompleteCmd = &cobra.Command{
	Use:   "complete [id]",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE:  transitionRunner(func(t *task.Task, now time.Time) error { return t.CompleteByUser(now) }),
}

var taskRejectCmd = &cobra.Command{
	Use:   "reject [id]",
	Short: "Reject a task",
	Args:  cobra.ExactArgs(1),
	RunE:  transitionRunner(func(t *task.Task, now time.Time) error { return t.RejectByUser(now) }),
}

var taskSnoozeCmd = &cobra.Command{
	Use:   "snooze [id]",
	Short: "Snooze a task for a duration",
	Args:  cobra.ExactArgs(1),
	RunE: transitionRunner(func(t *task.Task, now time.Time) error {
		return t.SnoozeByUser(now.Add(snoozeFor), now)
	}),
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a task permanently",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

func init() {
	taskAddCmd.Flags().StringVarP(&addPriority, "priority", "p", "medium", "priority: low, medium, high, critical")
	taskAddCmd.Flags().StringVarP(&addDescription, "description", "d", "", "task description")
	taskAddCmd.Flags().StringVar(&addDue, "due", "", "due date (RFC3339 or 2006-01-02)")
	taskListCmd.Flags().StringVarP(&listStatus, "status", "s", "", "filter by status")
	taskSnoozeCmd.Flags().DurationVar(&snoozeFor, "for", 24*time.Hour, "snooze duration")

	taskCmd.AddCommand(taskAddCmd, taskListCmd, taskShowCmd, taskActivateCmd,
		taskCompleteCmd, taskSnoozeCmd, taskRejectCmd, taskDeleteCmd)
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var dueDate *time.Time
	if addDue != "" {
		due, err := parseDueDate(addDue)
		if err != nil {
			return err
		}
		dueDate = &due
	}

	now := clock.System().Now()
	t, err := task.New(strings.Join(args, " "), addDescription, task.Priority(addPriority), dueDate, now)
	if err != nil {
		return err
	}
	if err := st.InsertTask(cmd.Context(), *t); err != nil {
		return err
	}
	fmt.Printf("Created task %s\n", t.ID)
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	var filter *task.Status
	if listStatus != "" {
		s := task.Status(listStatus)
		if !s.IsValid() {
			return fmt.Errorf("invalid status %q", listStatus)
		}
		filter = &s
	}

	tasks, err := st.ListTasks(cmd.Context(), filter)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	now := clock.System().Now()
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tDUE\tTITLE")
	for _, t := range tasks {
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02 15:04")
			if t.IsOverdue(now) {
				due += " (overdue)"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", shortID(t.ID), t.Status, t.Priority, due, t.Title)
	}
	return w.Flush()
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	t, err := st.GetTask(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("ID:          %s\n", t.ID)
	fmt.Printf("Title:       %s\n", t.Title)
	if t.Description != "" {
		fmt.Printf("Description: %s\n", t.Description)
	}
	fmt.Printf("Status:      %s\n", t.Status)
	fmt.Printf("Priority:    %s\n", t.Priority)
	fmt.Printf("Created:     %s\n", t.CreatedAt.Format(time.RFC3339))
	fmt.Printf("Updated:     %s\n", t.UpdatedAt.Format(time.RFC3339))
	if t.DueDate != nil {
		fmt.Printf("Due:         %s\n", t.DueDate.Format(time.RFC3339))
	}
	if t.SnoozedUntil != nil {
		fmt.Printf("Snoozed to:  %s\n", t.SnoozedUntil.Format(time.RFC3339))
	}
	if t.CompletedAt != nil {
		fmt.Printf("Completed:   %s\n", t.CompletedAt.Format(time.RFC3339))
	}
	if t.EscalationCount > 0 {
		fmt.Printf("Escalations: %d\n", t.EscalationCount)
	}
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteTask(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted task %s\n", args[0])
	return nil
}

// transitionRunner builds a RunE that loads a task, applies a user-origin
// transition, and saves it back.
func transitionRunner(fn func(t *task.Task, now time.Time) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		t, err := st.GetTask(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := fn(&t, clock.System().Now()); err != nil {
			return err
		}
		if err := st.UpdateTask(cmd.Context(), t); err != nil {
			return err
		}
		fmt.Printf("Task %s is now %s\n", shortID(t.ID), t.Status)
		return nil
	}
}

func parseDueDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q", s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
