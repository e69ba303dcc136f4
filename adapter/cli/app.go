package cli

import (
	"context"

	"github.com/chrisracha/blazor-todo/internal/todo/application/services"
	"github.com/chrisracha/blazor-todo/pkg/observability"
)

// TaskSessions runs work against a task service scoped to one unit of work.
type TaskSessions interface {
	WithTaskService(ctx context.Context, fn func(ctx context.Context, svc *services.TaskService) error) error
}

// HealthReporter reports the state of the backing services.
type HealthReporter interface {
	GetOverallHealth(ctx context.Context) observability.OverallHealth
}

// App holds the CLI application dependencies.
type App struct {
	Tasks  TaskSessions
	Health HealthReporter

	// Current user, already verified by the identity layer.
	CurrentUserID string
}

// NewApp creates a new CLI application.
func NewApp(tasks TaskSessions, currentUserID string) *App {
	return &App{
		Tasks:         tasks,
		CurrentUserID: currentUserID,
	}
}

// WithHealth attaches a health reporter and returns the app.
func (a *App) WithHealth(h HealthReporter) *App {
	a.Health = h
	return a
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id string) {
	a.CurrentUserID = id
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
