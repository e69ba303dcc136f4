package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/eventbus"
	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
	"github.com/chrisracha/blazor-todo/pkg/observability"
)

// Operation names used in logs, metrics and PersistenceError.
const (
	OpList   = "list"
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
)

var errNilTask = fmt.Errorf("%w: task is required", task.ErrInvalidArgument)

// PersistenceError reports a failure of the underlying task store.
// Unwrap returns the store error unchanged.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("task store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistence reports whether err came from the task store.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}

// TaskService manages the tasks of individual users over one unit of work.
// It is not safe for concurrent use; create one per request or command.
type TaskService struct {
	store        task.Store
	logger       *slog.Logger
	metrics      observability.Metrics
	guardUpdates bool
	changed      *eventbus.Signal
}

// Option configures a TaskService.
type Option func(*TaskService)

func WithLogger(logger *slog.Logger) Option {
	return func(s *TaskService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(metrics observability.Metrics) Option {
	return func(s *TaskService) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithUpdateOwnershipGuard controls whether Update checks that the stored
// task belongs to the caller. Enabled by default.
func WithUpdateOwnershipGuard(enabled bool) Option {
	return func(s *TaskService) {
		s.guardUpdates = enabled
	}
}

// NewTaskService creates a TaskService over store.
func NewTaskService(store task.Store, opts ...Option) *TaskService {
	s := &TaskService{
		store:        store,
		logger:       slog.Default(),
		metrics:      observability.NoopMetrics{},
		guardUpdates: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "task_service")
	s.changed = eventbus.NewSignal("tasks",
		eventbus.WithSignalLogger(s.logger),
		eventbus.WithSignalMetrics(s.metrics),
	)
	return s
}

// Subscribe registers fn to run after every successful mutation.
func (s *TaskService) Subscribe(fn func()) (unsubscribe func()) {
	return s.changed.Subscribe(fn)
}

// SubscriberCount returns the number of registered change listeners.
func (s *TaskService) SubscriberCount() int {
	return s.changed.Len()
}

// GetForUser returns all tasks owned by ownerID in ID order.
func (s *TaskService) GetForUser(ctx context.Context, ownerID string) ([]*task.Task, error) {
	timer := s.startTimer(OpList)

	tasks, err := s.store.List(ctx, ownerID)
	if err != nil {
		err = s.persistenceFailure(ctx, OpList, err, "owner_id", ownerID)
		timer.Stop(ctx, err)
		return nil, err
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}

	timer.Stop(ctx, nil)
	return tasks, nil
}

// Add validates and persists a new task. The incoming ID is ignored and
// replaced by the one the store assigns. Listeners are notified only when
// the commit reports an affected row.
func (s *TaskService) Add(ctx context.Context, t *task.Task) error {
	if t == nil {
		return errNilTask
	}
	if err := t.Validate(); err != nil {
		return err
	}

	timer := s.startTimer(OpAdd)
	t.ID = 0

	if err := s.store.Insert(ctx, t); err != nil {
		err = s.persistenceFailure(ctx, OpAdd, err, "owner_id", t.OwnerID)
		timer.Stop(ctx, err)
		return err
	}

	affected, err := s.store.Commit(ctx)
	if err != nil {
		err = s.persistenceFailure(ctx, OpAdd, err, "owner_id", t.OwnerID)
		timer.Stop(ctx, err)
		return err
	}
	timer.Stop(ctx, nil)

	s.logger.DebugContext(ctx, "task added",
		"task_id", t.ID,
		"owner_id", t.OwnerID,
		"affected", affected,
	)
	if affected >= 1 {
		s.changed.Fire(ctx)
	}
	return nil
}

// Update overwrites the title and completion state of an existing task.
// With the ownership guard enabled, a task that does not exist or belongs to
// someone else yields task.ErrNotFound and nothing is written.
func (s *TaskService) Update(ctx context.Context, t *task.Task) error {
	if t == nil {
		return errNilTask
	}

	timer := s.startTimer(OpUpdate)

	if s.guardUpdates {
		existing, err := s.store.FindByID(ctx, t.ID)
		switch {
		case errors.Is(err, task.ErrNotFound):
			timer.Stop(ctx, nil)
			return task.ErrNotFound
		case err != nil:
			err = s.persistenceFailure(ctx, OpUpdate, err, "task_id", t.ID)
			timer.Stop(ctx, err)
			return err
		case !existing.OwnedBy(t.OwnerID):
			s.logger.WarnContext(ctx, "update rejected for task owned by another user",
				"task_id", t.ID,
				"owner_id", t.OwnerID,
			)
			timer.Stop(ctx, nil)
			return task.ErrNotFound
		}
	}

	if err := s.store.Update(ctx, t); err != nil {
		err = s.persistenceFailure(ctx, OpUpdate, err, "task_id", t.ID)
		timer.Stop(ctx, err)
		return err
	}
	if _, err := s.store.Commit(ctx); err != nil {
		err = s.persistenceFailure(ctx, OpUpdate, err, "task_id", t.ID)
		timer.Stop(ctx, err)
		return err
	}
	timer.Stop(ctx, nil)

	s.changed.Fire(ctx)
	return nil
}

// Delete removes the task with the given ID if ownerID owns it.
// Missing or foreign tasks are ignored without error or notification.
func (s *TaskService) Delete(ctx context.Context, id int64, ownerID string) error {
	timer := s.startTimer(OpDelete)

	existing, err := s.store.FindByID(ctx, id)
	if errors.Is(err, task.ErrNotFound) {
		timer.Stop(ctx, nil)
		return nil
	}
	if err != nil {
		err = s.persistenceFailure(ctx, OpDelete, err, "task_id", id)
		timer.Stop(ctx, err)
		return err
	}
	if !existing.OwnedBy(ownerID) {
		timer.Stop(ctx, nil)
		return nil
	}

	if err := s.store.Remove(ctx, existing); err != nil {
		err = s.persistenceFailure(ctx, OpDelete, err, "task_id", id)
		timer.Stop(ctx, err)
		return err
	}
	if _, err := s.store.Commit(ctx); err != nil {
		err = s.persistenceFailure(ctx, OpDelete, err, "task_id", id)
		timer.Stop(ctx, err)
		return err
	}
	timer.Stop(ctx, nil)

	s.changed.Fire(ctx)
	return nil
}

func (s *TaskService) startTimer(op string) *observability.Timer {
	return observability.StartTimer(op).WithMetrics(s.metrics)
}

func (s *TaskService) persistenceFailure(ctx context.Context, op string, err error, attrs ...any) error {
	args := append([]any{observability.OperationKey, op, observability.ErrorKey, err}, attrs...)
	s.logger.ErrorContext(ctx, "task store operation failed", args...)
	return &PersistenceError{Op: op, Err: err}
}
