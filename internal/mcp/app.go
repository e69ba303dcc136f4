package mcp

import (
	"github.com/chrisracha/blazor-todo/adapter/cli"
	"github.com/chrisracha/blazor-todo/internal/app"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container, currentUser string) *cli.App {
	return cli.NewApp(container, currentUser).WithHealth(container.Health)
}
