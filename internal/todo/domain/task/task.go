package task

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidArgument is the root of all validation failures.
	ErrInvalidArgument = errors.New("invalid argument")

	ErrEmptyTitle = fmt.Errorf("%w: task title is required", ErrInvalidArgument)
	ErrEmptyOwner = fmt.Errorf("%w: task owner is required", ErrInvalidArgument)

	ErrNotFound = errors.New("task not found")
)

// Task is a single to-do item owned by one user.
type Task struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	IsDone  bool   `json:"is_done"`
	OwnerID string `json:"owner_id"`
}

// New creates a pending task for the given owner.
func New(ownerID, title string) (*Task, error) {
	t := &Task{
		Title:   title,
		OwnerID: ownerID,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks the fields required for a task to be persisted.
// Blank values count as missing; accepted values are kept verbatim.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(t.OwnerID) == "" {
		return ErrEmptyOwner
	}
	return nil
}

// OwnedBy reports whether ownerID owns the task.
func (t *Task) OwnedBy(ownerID string) bool {
	return t != nil && t.OwnerID == ownerID
}

// Clone returns a copy that can be mutated independently.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
