package mcp

import (
	"context"
	"errors"

	"github.com/chrisracha/blazor-todo/adapter/cli"
	"github.com/chrisracha/blazor-todo/internal/todo/application/services"
	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
)

type taskListInput struct {
	// Done filters by state when set.
	Done *bool `json:"done,omitempty"`
}

type taskAddInput struct {
	Title  string `json:"title" jsonschema:"required"`
	IsDone bool   `json:"is_done,omitempty"`
}

type taskUpdateInput struct {
	TaskID int64  `json:"task_id" jsonschema:"required"`
	Title  string `json:"title" jsonschema:"required"`
	IsDone bool   `json:"is_done,omitempty"`
}

type taskIDInput struct {
	TaskID int64 `json:"task_id" jsonschema:"required"`
}

type taskDeleteResult struct {
	TaskID  int64 `json:"task_id"`
	Deleted bool  `json:"deleted"`
}

type taskTools struct {
	app *cli.App
}

func (t *taskTools) health(ctx context.Context, input struct{}) (map[string]string, error) {
	if t.app == nil || t.app.Tasks == nil {
		return nil, errors.New("app not initialized")
	}
	status := "ok"
	if t.app.Health != nil {
		status = string(t.app.Health.GetOverallHealth(ctx).Status)
	}
	return map[string]string{"status": status, "user_id": t.app.CurrentUserID}, nil
}

func (t *taskTools) list(ctx context.Context, input taskListInput) ([]*task.Task, error) {
	var tasks []*task.Task
	err := t.session(ctx, func(ctx context.Context, svc *services.TaskService, userID string) error {
		all, err := svc.GetForUser(ctx, userID)
		if err != nil {
			return err
		}
		tasks = filterDone(all, input.Done)
		return nil
	})
	return tasks, err
}

func (t *taskTools) add(ctx context.Context, input taskAddInput) (*task.Task, error) {
	if err := requireTitle(input.Title); err != nil {
		return nil, err
	}

	var added *task.Task
	err := t.session(ctx, func(ctx context.Context, svc *services.TaskService, userID string) error {
		added = &task.Task{Title: input.Title, IsDone: input.IsDone, OwnerID: userID}
		return svc.Add(ctx, added)
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (t *taskTools) update(ctx context.Context, input taskUpdateInput) (*task.Task, error) {
	if err := requireID(input.TaskID); err != nil {
		return nil, err
	}
	if err := requireTitle(input.Title); err != nil {
		return nil, err
	}

	var updated *task.Task
	err := t.session(ctx, func(ctx context.Context, svc *services.TaskService, userID string) error {
		updated = &task.Task{ID: input.TaskID, Title: input.Title, IsDone: input.IsDone, OwnerID: userID}
		return svc.Update(ctx, updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (t *taskTools) delete(ctx context.Context, input taskIDInput) (*taskDeleteResult, error) {
	if err := requireID(input.TaskID); err != nil {
		return nil, err
	}

	result := &taskDeleteResult{TaskID: input.TaskID}
	err := t.session(ctx, func(ctx context.Context, svc *services.TaskService, userID string) error {
		svc.Subscribe(func() { result.Deleted = true })
		return svc.Delete(ctx, input.TaskID, userID)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (t *taskTools) session(ctx context.Context, fn func(ctx context.Context, svc *services.TaskService, userID string) error) error {
	if t.app == nil || t.app.Tasks == nil {
		return errors.New("task tools require a database connection")
	}
	if t.app.CurrentUserID == "" {
		return errors.New("no current user configured")
	}
	userID := t.app.CurrentUserID
	return t.app.Tasks.WithTaskService(ctx, func(ctx context.Context, svc *services.TaskService) error {
		return fn(ctx, svc, userID)
	})
}
