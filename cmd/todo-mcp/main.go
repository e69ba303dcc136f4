package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisracha/blazor-todo/internal/app"
	mcpinternal "github.com/chrisracha/blazor-todo/internal/mcp"
	"github.com/chrisracha/blazor-todo/pkg/config"
	"github.com/chrisracha/blazor-todo/pkg/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		// Config is unusable, so fall back to the environment-only logger.
		observability.LoggerFromEnv().Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, os.Stdout)

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	if cfg.UserID == "" {
		logger.Error("TODO_USER_ID is required")
		os.Exit(1)
	}

	cliApp := mcpinternal.NewCLIApp(container, cfg.UserID)

	if err := mcpinternal.Serve(ctx, cfg, cliApp, app.Version, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
