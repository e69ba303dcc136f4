package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common task list workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("triage_tasks").
		Description("Review the open task list, close what is finished and tidy up the rest.").
		Handler(triagePrompt)

	return nil
}

func triagePrompt(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
	return &mcp.PromptResult{
		Description: "Task triage",
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: `Help me tidy my task list. Please:

1. Read my open tasks from the todo://tasks/open resource
2. Ask me which of them are already finished and mark those with task.update
3. Point out duplicates or tasks with unclear titles and suggest better titles
4. Offer to delete tasks I no longer need with task.delete

Always confirm with me before deleting anything.`,
				},
			},
		},
	}, nil
}
