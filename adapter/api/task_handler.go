package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/emicklei/go-restful/v3"

	"github.com/chrisracha/blazor-todo/internal/todo/application/services"
	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
)

// TaskSessions runs work against a task service scoped to one unit of work.
type TaskSessions interface {
	WithTaskService(ctx context.Context, fn func(ctx context.Context, svc *services.TaskService) error) error
}

// TaskHandler handles task API requests for the authenticated user.
type TaskHandler struct {
	tasks  TaskSessions
	logger *slog.Logger
}

// TaskRequest is the body of create and update requests.
type TaskRequest struct {
	Title  string `json:"title"`
	IsDone bool   `json:"is_done"`
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(tasks TaskSessions, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{tasks: tasks, logger: logger}
}

// WebService builds the /api/v1/tasks routes behind the given filters.
func (h *TaskHandler) WebService(filters ...restful.FilterFunction) *restful.WebService {
	ws := new(restful.WebService)
	ws.Path("/api/v1/tasks").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)
	for _, f := range filters {
		ws.Filter(f)
	}

	idParam := ws.PathParameter("id", "task id").DataType("integer")

	ws.Route(ws.GET("").To(h.List).
		Doc("List the current user's tasks").
		Writes([]task.Task{}))
	ws.Route(ws.POST("").To(h.Create).
		Doc("Add a task for the current user").
		Reads(TaskRequest{}).
		Writes(task.Task{}))
	ws.Route(ws.PUT("/{id}").To(h.Update).
		Doc("Replace the title and done state of a task").
		Param(idParam).
		Reads(TaskRequest{}).
		Writes(task.Task{}))
	ws.Route(ws.DELETE("/{id}").To(h.Delete).
		Doc("Delete a task; unknown or foreign ids are ignored").
		Param(idParam))
	return ws
}

// List handles GET /api/v1/tasks
func (h *TaskHandler) List(req *restful.Request, resp *restful.Response) {
	userID := currentUser(req)

	var tasks []*task.Task
	err := h.tasks.WithTaskService(req.Request.Context(), func(ctx context.Context, svc *services.TaskService) error {
		var err error
		tasks, err = svc.GetForUser(ctx, userID)
		return err
	})
	if err != nil {
		h.fail(req, resp, err)
		return
	}
	writeJSON(resp, http.StatusOK, tasks)
}

// Create handles POST /api/v1/tasks
func (h *TaskHandler) Create(req *restful.Request, resp *restful.Response) {
	var body TaskRequest
	if err := req.ReadEntity(&body); err != nil {
		writeError(resp, ErrBadRequest.withMessage("invalid JSON body"))
		return
	}

	t := &task.Task{Title: body.Title, IsDone: body.IsDone, OwnerID: currentUser(req)}
	err := h.tasks.WithTaskService(req.Request.Context(), func(ctx context.Context, svc *services.TaskService) error {
		return svc.Add(ctx, t)
	})
	if err != nil {
		h.fail(req, resp, err)
		return
	}
	writeJSON(resp, http.StatusCreated, t)
}

// Update handles PUT /api/v1/tasks/{id}
func (h *TaskHandler) Update(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req, resp)
	if !ok {
		return
	}

	var body TaskRequest
	if err := req.ReadEntity(&body); err != nil {
		writeError(resp, ErrBadRequest.withMessage("invalid JSON body"))
		return
	}
	if strings.TrimSpace(body.Title) == "" {
		writeError(resp, ErrBadRequest.withMessage(task.ErrEmptyTitle.Error()))
		return
	}

	t := &task.Task{ID: id, Title: body.Title, IsDone: body.IsDone, OwnerID: currentUser(req)}
	err := h.tasks.WithTaskService(req.Request.Context(), func(ctx context.Context, svc *services.TaskService) error {
		return svc.Update(ctx, t)
	})
	if err != nil {
		h.fail(req, resp, err)
		return
	}
	writeJSON(resp, http.StatusOK, t)
}

// Delete handles DELETE /api/v1/tasks/{id}
func (h *TaskHandler) Delete(req *restful.Request, resp *restful.Response) {
	id, ok := pathID(req, resp)
	if !ok {
		return
	}

	userID := currentUser(req)
	err := h.tasks.WithTaskService(req.Request.Context(), func(ctx context.Context, svc *services.TaskService) error {
		return svc.Delete(ctx, id, userID)
	})
	if err != nil {
		h.fail(req, resp, err)
		return
	}
	resp.WriteHeader(http.StatusNoContent)
}

// fail maps service errors onto API errors.
func (h *TaskHandler) fail(req *restful.Request, resp *restful.Response, err error) {
	switch {
	case errors.Is(err, task.ErrInvalidArgument):
		writeError(resp, ErrBadRequest.withMessage(err.Error()))
	case errors.Is(err, task.ErrNotFound):
		writeError(resp, ErrNotFound)
	default:
		h.logger.ErrorContext(req.Request.Context(), "task request failed",
			"method", req.Request.Method,
			"path", req.Request.URL.Path,
			"error", err,
		)
		writeError(resp, ErrInternalServer)
	}
}

func pathID(req *restful.Request, resp *restful.Response) (int64, bool) {
	id, err := strconv.ParseInt(req.PathParameter("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(resp, ErrBadRequest.withMessage("task id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func currentUser(req *restful.Request) string {
	userID, _ := req.Attribute(userAttribute).(string)
	return userID
}
