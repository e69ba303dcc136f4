package task

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chrisracha/blazor-todo/internal/todo/application/services"
	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
)

var (
	showOpen bool
	showDone bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List your tasks in the order they were added.

Examples:
  todo task list           # All tasks
  todo task list --open    # Only tasks still to do
  todo task list --done    # Only finished tasks`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showOpen && showDone {
			return fmt.Errorf("--open and --done are mutually exclusive")
		}
		return session(cmd, func(ctx context.Context, svc *services.TaskService, userID string) error {
			tasks, err := svc.GetForUser(ctx, userID)
			if err != nil {
				return fmt.Errorf("failed to list tasks: %w", err)
			}

			tasks = filter(tasks, func(t *task.Task) bool {
				switch {
				case showOpen:
					return !t.IsDone
				case showDone:
					return t.IsDone
				default:
					return true
				}
			})

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}

			fmt.Fprintf(out, "Tasks (%d):\n", len(tasks))
			fmt.Fprintln(out, strings.Repeat("-", 60))
			for _, t := range tasks {
				fmt.Fprintf(out, "%s %s\n", statusIcon(t.IsDone), t.Title)
				fmt.Fprintf(out, "   ID: %d\n", t.ID)
			}
			return nil
		})
	},
}

func filter(tasks []*task.Task, keep func(*task.Task) bool) []*task.Task {
	out := tasks[:0:0]
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func init() {
	listCmd.Flags().BoolVar(&showOpen, "open", false, "show only tasks that are not done")
	listCmd.Flags().BoolVar(&showDone, "done", false, "show only tasks that are done")
}
