package mcp

import (
	"errors"
	"strings"

	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
)

func requireID(id int64) error {
	if id <= 0 {
		return errors.New("task_id must be a positive integer")
	}
	return nil
}

func requireTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return errors.New("title is required")
	}
	return nil
}

func filterDone(tasks []*task.Task, done *bool) []*task.Task {
	if done == nil {
		return tasks
	}
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.IsDone == *done {
			out = append(out, t)
		}
	}
	return out
}
