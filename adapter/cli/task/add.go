package task

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrisracha/blazor-todo/internal/todo/application/services"
	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
)

var addDone bool

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task to your list.

Examples:
  todo task add "Buy milk"
  todo task add "File expenses" --done`,
	Aliases: []string{"create", "new"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return session(cmd, func(ctx context.Context, svc *services.TaskService, userID string) error {
			watchChanges(ctx, cmd, svc, userID)

			t := &task.Task{Title: args[0], OwnerID: userID, IsDone: addDone}
			if err := svc.Add(ctx, t); err != nil {
				return fmt.Errorf("failed to add task: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Task added: %d\n", t.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "  title: %s\n", t.Title)
			return nil
		})
	},
}

func init() {
	addCmd.Flags().BoolVar(&addDone, "done", false, "mark the task as done")
}
