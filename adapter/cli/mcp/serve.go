package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/chrisracha/blazor-todo/adapter/cli"
	"github.com/chrisracha/blazor-todo/internal/app"
	mcpinternal "github.com/chrisracha/blazor-todo/internal/mcp"
	"github.com/chrisracha/blazor-todo/pkg/config"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Serve the task tools over MCP until interrupted. Tools act as
the current user (TODO_USER_ID or --user).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		logger := app.NewLogger(cfg, cmd.OutOrStdout())

		container, err := app.NewContainer(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer container.Close()

		userID := cfg.UserID
		if current := cli.GetApp(); current != nil && current.CurrentUserID != "" {
			userID = current.CurrentUserID
		}

		cliApp := mcpinternal.NewCLIApp(container, userID)
		err = mcpinternal.Serve(ctx, cfg, cliApp, app.Version, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
