package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database"
	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/schema"
	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
	"github.com/chrisracha/blazor-todo/internal/todo/infrastructure/persistence"
	"github.com/chrisracha/blazor-todo/pkg/observability"
)

// mapCache is a ListCache backed by a map.
type mapCache map[string][]*task.Task

func (m mapCache) Get(_ context.Context, ownerID string) ([]*task.Task, int64, bool, error) {
	tasks, ok := m[ownerID]
	return tasks, 0, ok, nil
}

func (m mapCache) Fill(_ context.Context, ownerID string, _ int64, tasks []*task.Task) (bool, error) {
	m[ownerID] = tasks
	return true, nil
}

func (m mapCache) Invalidate(_ context.Context, ownerIDs ...string) error {
	for _, id := range ownerIDs {
		delete(m, id)
	}
	return nil
}

func setupTestConn(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "tasks.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, schema.Ensure(ctx, conn))
	return conn
}

func TestUnitOfWorkFactory_OpenWithoutCache(t *testing.T) {
	f := NewUnitOfWorkFactory(setupTestConn(t), nil, nil)

	uow := f.Open()
	defer uow.Close(context.Background())

	assert.IsType(t, &persistence.SQLStore{}, uow)
	assert.False(t, f.Cached())
}

func TestUnitOfWorkFactory_OpenWithCache(t *testing.T) {
	ctx := context.Background()
	cache := mapCache{}
	guarded := persistence.NewGuardedCache(cache,
		persistence.BreakerConfig{FailureThreshold: 1, Timeout: time.Second},
		observability.DiscardLogger(), nil)
	f := NewUnitOfWorkFactory(setupTestConn(t), guarded, observability.DiscardLogger())

	uow := f.Open()
	defer uow.Close(ctx)
	assert.IsType(t, &persistence.CachedStore{}, uow)
	assert.True(t, f.Cached())

	require.NoError(t, uow.Insert(ctx, &task.Task{Title: "a", OwnerID: "u1"}))
	_, err := uow.Commit(ctx)
	require.NoError(t, err)

	reader := f.Open()
	defer reader.Close(ctx)
	tasks, err := reader.List(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
	assert.Contains(t, cache, "u1")
}
