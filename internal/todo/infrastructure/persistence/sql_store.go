package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database"
	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
)

const (
	selectTasksByOwner = `SELECT id, title, is_done, owner_id FROM tasks WHERE owner_id = ? ORDER BY id`
	selectTaskByID     = `SELECT id, title, is_done, owner_id FROM tasks WHERE id = ?`
	insertTask         = `INSERT INTO tasks (title, is_done, owner_id) VALUES (?, ?, ?)`
	updateTask         = `UPDATE tasks SET title = ?, is_done = ? WHERE id = ?`
	deleteTask         = `DELETE FROM tasks WHERE id = ?`
)

// SQLStore is a task.UnitOfWork backed by any database.Connection.
// The first write opens a transaction that lives until Commit or Close;
// reads issued meanwhile go through it and see the staged writes.
type SQLStore struct {
	conn    database.Connection
	logger  *slog.Logger
	tx      database.Transaction
	pending int64
}

var _ task.UnitOfWork = (*SQLStore)(nil)

// NewSQLStore creates a unit of work over conn.
func NewSQLStore(conn database.Connection, logger *slog.Logger) *SQLStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLStore{conn: conn, logger: logger}
}

func (s *SQLStore) executor() database.Executor {
	if s.tx != nil {
		return s.tx
	}
	return s.conn
}

func (s *SQLStore) begin(ctx context.Context) (database.Transaction, error) {
	if s.tx == nil {
		tx, err := s.conn.BeginTx(ctx)
		if err != nil {
			return nil, fmt.Errorf("begin transaction: %w", err)
		}
		s.tx = tx
	}
	return s.tx, nil
}

// List returns the owner's tasks ordered by ID.
func (s *SQLStore) List(ctx context.Context, ownerID string) ([]*task.Task, error) {
	rows, err := s.executor().Query(ctx, selectTasksByOwner, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// FindByID returns task.ErrNotFound when no row has the given ID.
func (s *SQLStore) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	t, err := scanTask(s.executor().QueryRow(ctx, selectTaskByID, id))
	if database.IsNoRows(err) {
		return nil, task.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find task %d: %w", id, err)
	}
	return t, nil
}

// Insert stages t and sets t.ID to the key the database assigned.
func (s *SQLStore) Insert(ctx context.Context, t *task.Task) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}

	if s.conn.Driver() == database.DriverPostgres {
		var id int64
		if err := tx.QueryRow(ctx, insertTask+" RETURNING id", t.Title, t.IsDone, t.OwnerID).Scan(&id); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		t.ID = id
		s.pending++
		return nil
	}

	res, err := tx.Exec(ctx, insertTask, t.Title, t.IsDone, t.OwnerID)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	t.ID = id
	return s.count(res)
}

// Update stages new title and completion values. The owner column is never written.
func (s *SQLStore) Update(ctx context.Context, t *task.Task) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	res, err := tx.Exec(ctx, updateTask, t.Title, t.IsDone, t.ID)
	if err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return s.count(res)
}

// Remove stages the deletion of t.
func (s *SQLStore) Remove(ctx context.Context, t *task.Task) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	res, err := tx.Exec(ctx, deleteTask, t.ID)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", t.ID, err)
	}
	return s.count(res)
}

func (s *SQLStore) count(res database.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	s.pending += n
	return nil
}

// Commit applies staged writes and reports how many rows they touched.
// With nothing staged it returns 0 and does not touch the database.
func (s *SQLStore) Commit(ctx context.Context) (int64, error) {
	if s.tx == nil {
		return 0, nil
	}

	tx, n := s.tx, s.pending
	s.tx, s.pending = nil, 0

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	s.logger.DebugContext(ctx, "task changes committed", "affected", n)
	return n, nil
}

// Close rolls back anything not committed. It may be called repeatedly.
func (s *SQLStore) Close(ctx context.Context) error {
	if s.tx == nil {
		return nil
	}

	tx := s.tx
	s.tx, s.pending = nil, 0

	if err := tx.Rollback(ctx); err != nil {
		s.logger.WarnContext(ctx, "rollback of uncommitted task changes failed", "error", err)
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}

func scanTask(row database.Row) (*task.Task, error) {
	var t task.Task
	if err := row.Scan(&t.ID, &t.Title, &t.IsDone, &t.OwnerID); err != nil {
		return nil, err
	}
	return &t, nil
}
