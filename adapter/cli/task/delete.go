package task

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrisracha/blazor-todo/internal/todo/application/services"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task",
	Long: `Delete one of your tasks. Deleting a task that does not exist,
or that belongs to someone else, changes nothing.

Examples:
  todo task delete 12`,
	Aliases: []string{"rm", "remove"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return session(cmd, func(ctx context.Context, svc *services.TaskService, userID string) error {
			changes := watchChanges(ctx, cmd, svc, userID)
			if err := svc.Delete(ctx, id, userID); err != nil {
				return fmt.Errorf("failed to delete task: %w", err)
			}

			if changes() == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No task %d in your list.\n", id)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task deleted: %d\n", id)
			return nil
		})
	},
}
