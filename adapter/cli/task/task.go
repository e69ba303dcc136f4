package task

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chrisracha/blazor-todo/adapter/cli"
	"github.com/chrisracha/blazor-todo/internal/todo/application/services"
	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `Add, list, update, complete, and delete your tasks.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(updateCmd)
	Cmd.AddCommand(doneCmd)
	Cmd.AddCommand(undoCmd)
	Cmd.AddCommand(deleteCmd)
}

// session runs fn with a task service for the current user.
func session(cmd *cobra.Command, fn func(ctx context.Context, svc *services.TaskService, userID string) error) error {
	app, err := cli.RequireApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return app.Tasks.WithTaskService(ctx, func(ctx context.Context, svc *services.TaskService) error {
		return fn(ctx, svc, app.CurrentUserID)
	})
}

// watchChanges prints the refreshed list summary every time svc reports a
// change and returns a func reporting how many changes were seen.
func watchChanges(ctx context.Context, cmd *cobra.Command, svc *services.TaskService, userID string) func() int {
	changes := 0
	svc.Subscribe(func() {
		changes++
		tasks, err := svc.GetForUser(ctx, userID)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: could not refresh task list: %v\n", err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), summary(tasks))
	})
	return func() int { return changes }
}

func summary(tasks []*task.Task) string {
	open := 0
	for _, t := range tasks {
		if !t.IsDone {
			open++
		}
	}
	return fmt.Sprintf("%d task(s), %d open", len(tasks), open)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid task ID %q: must be a positive number", s)
	}
	return id, nil
}

// findTask looks the task up in the user's own list, so foreign ids read
// as not found.
func findTask(ctx context.Context, svc *services.TaskService, userID string, id int64) (*task.Task, error) {
	tasks, err := svc.GetForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("task %d: %w", id, task.ErrNotFound)
}

func statusIcon(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
