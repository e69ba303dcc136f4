package task

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrisracha/blazor-todo/internal/todo/application/services"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as done",
	Long: `Mark one of your tasks as done.

Examples:
  todo task done 12`,
	Aliases: []string{"complete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDone(cmd, args[0], true)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo [task-id]",
	Short: "Mark a task as not done",
	Long: `Reopen one of your tasks.

Examples:
  todo task undo 12`,
	Aliases: []string{"reopen"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDone(cmd, args[0], false)
	},
}

func setDone(cmd *cobra.Command, arg string, done bool) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	return session(cmd, func(ctx context.Context, svc *services.TaskService, userID string) error {
		current, err := findTask(ctx, svc, userID, id)
		if err != nil {
			return fmt.Errorf("failed to change task: %w", err)
		}

		updated := current.Clone()
		updated.IsDone = done

		watchChanges(ctx, cmd, svc, userID)
		if err := svc.Update(ctx, updated); err != nil {
			return fmt.Errorf("failed to change task: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task %d marked %s\n", id, formatStatus(done))
		return nil
	})
}
