package task

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chrisracha/blazor-todo/internal/todo/application/services"
)

var (
	updateTitle string
	updateDone  bool
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long: `Change the title or done state of one of your tasks.
Fields that are not given keep their current value.

Examples:
  todo task update 12 --title "Buy oat milk"
  todo task update 12 --done=false`,
	Aliases: []string{"edit"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		titleSet := cmd.Flags().Changed("title")
		doneSet := cmd.Flags().Changed("done")
		if !titleSet && !doneSet {
			return fmt.Errorf("nothing to update: pass --title and/or --done")
		}

		return session(cmd, func(ctx context.Context, svc *services.TaskService, userID string) error {
			current, err := findTask(ctx, svc, userID, id)
			if err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}

			updated := current.Clone()
			if titleSet {
				updated.Title = updateTitle
			}
			if doneSet {
				updated.IsDone = updateDone
			}

			watchChanges(ctx, cmd, svc, userID)
			if err := svc.Update(ctx, updated); err != nil {
				return fmt.Errorf("failed to update task: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task updated: %d\n", updated.ID)
			return nil
		})
	},
}

func init() {
	updateCmd.Flags().StringVarP(&updateTitle, "title", "t", "", "new title")
	updateCmd.Flags().BoolVar(&updateDone, "done", false, "new done state")
}
