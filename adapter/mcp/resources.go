package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

const (
	tasksResourceURI     = "todo://tasks"
	openTasksResourceURI = "todo://tasks/open"
)

// RegisterResources registers MCP resources that expose the current user's tasks.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	tools := &taskTools{app: deps.App}

	srv.Resource(tasksResourceURI).
		Name("Tasks").
		Description("All tasks for the current user").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return tools.resource(ctx, uri, nil)
		})

	open := false
	srv.Resource(openTasksResourceURI).
		Name("Open tasks").
		Description("Tasks the current user has not finished").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			return tools.resource(ctx, uri, &open)
		})

	return nil
}

func (t *taskTools) resource(ctx context.Context, uri string, done *bool) (*mcp.ResourceContent, error) {
	tasks, err := t.list(ctx, taskListInput{Done: done})
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, err
	}

	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
