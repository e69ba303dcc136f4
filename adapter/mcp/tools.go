package mcp

import (
	"errors"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/chrisracha/blazor-todo/adapter/cli"
)

// ToolDependencies provides the application and current user to MCP tools.
type ToolDependencies struct {
	App *cli.App
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	tools := &taskTools{app: deps.App}

	srv.Tool("todo.health").
		Description("Check that the task service is wired and which user it acts as").
		Handler(tools.health)

	srv.Tool("task.list").
		Description("List the current user's tasks in the order they were added").
		Handler(tools.list)

	srv.Tool("task.add").
		Description("Add a task for the current user").
		Handler(tools.add)

	srv.Tool("task.update").
		Description("Replace the title and done state of one of the current user's tasks").
		Handler(tools.update)

	srv.Tool("task.delete").
		Description("Delete one of the current user's tasks; unknown ids are ignored").
		Handler(tools.delete)

	return nil
}
