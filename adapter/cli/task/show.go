package task

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrisracha/blazor-todo/internal/todo/application/services"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Long: `Display a single task from your list.

Examples:
  todo task show 12`,
	Aliases: []string{"get", "view"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return session(cmd, func(ctx context.Context, svc *services.TaskService, userID string) error {
			t, err := findTask(ctx, svc, userID, id)
			if err != nil {
				return fmt.Errorf("failed to get task: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Task: %d\n", t.ID)
			fmt.Fprintf(out, "  Title:  %s\n", t.Title)
			fmt.Fprintf(out, "  Status: %s\n", formatStatus(t.IsDone))
			return nil
		})
	},
}

func formatStatus(done bool) string {
	if done {
		return "Done"
	}
	return "Open"
}
