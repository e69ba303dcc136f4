package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisracha/blazor-todo/adapter/cli"
	"github.com/chrisracha/blazor-todo/adapter/cli/mcp"
	"github.com/chrisracha/blazor-todo/adapter/cli/serve"
	"github.com/chrisracha/blazor-todo/adapter/cli/task"
	"github.com/chrisracha/blazor-todo/internal/app"
	"github.com/chrisracha/blazor-todo/pkg/config"
	"github.com/chrisracha/blazor-todo/pkg/observability"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		// Config is unusable, so fall back to the environment-only logger.
		observability.LoggerFromEnv().Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	cli.SetLogger(logger)

	// The serve commands build their own container; task commands share this one.
	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Warn("failed to initialize container, task commands unavailable", "error", err)
	} else {
		defer container.Close()
		cliApp = cli.NewApp(container, cfg.UserID).WithHealth(container.Health)
	}
	cli.SetApp(cliApp)

	// Register commands
	cli.AddCommand(task.Cmd)
	cli.AddCommand(serve.Cmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	if err := cli.Execute(ctx); err != nil {
		if container != nil {
			container.Close()
		}
		os.Exit(1)
	}
}
