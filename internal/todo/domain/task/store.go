package task

import "context"

// Store defines the persistence contract the task service relies on.
// A Store instance represents one unit of work: writes are staged until Commit.
type Store interface {
	// List returns every task owned by ownerID, ordered by ID.
	List(ctx context.Context, ownerID string) ([]*Task, error)

	// Insert stages a new task and assigns its ID.
	Insert(ctx context.Context, t *Task) error

	// Update stages new values for the mutable fields of an existing task.
	Update(ctx context.Context, t *Task) error

	// FindByID returns ErrNotFound when no task has the given ID.
	FindByID(ctx context.Context, id int64) (*Task, error)

	// Remove stages the deletion of a task.
	Remove(ctx context.Context, t *Task) error

	// Commit applies staged writes and returns how many rows they affected.
	Commit(ctx context.Context) (int64, error)
}

// UnitOfWork is a Store that must be released by its creator.
type UnitOfWork interface {
	Store

	// Close discards anything not yet committed. Safe to call more than once.
	Close(ctx context.Context) error
}
