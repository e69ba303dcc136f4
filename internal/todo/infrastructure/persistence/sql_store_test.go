package persistence_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database"
	_ "github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database/mysql"
	_ "github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database/postgres"
	_ "github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database/sqlite"
	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/schema"
	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
	"github.com/chrisracha/blazor-todo/internal/todo/infrastructure/persistence"
	"github.com/chrisracha/blazor-todo/pkg/observability"
)

// setupSQLite opens a temp-file SQLite database with the schema applied.
func setupSQLite(t *testing.T) database.Connection {
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

// setupServer connects to an external database for integration tests.
func setupServer(t *testing.T, env string) database.Connection {
	t.Helper()

	url := os.Getenv(env)
	if url == "" {
		t.Skipf("%s not set, skipping integration test", env)
	}

	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{URL: url})
	if err != nil {
		t.Skipf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, schema.Ensure(ctx, conn))
	_, _ = conn.Exec(ctx, "DELETE FROM tasks")
	return conn
}

func newStore(conn database.Connection) *persistence.SQLStore {
	return persistence.NewSQLStore(conn, observability.DiscardLogger())
}

func TestSQLStore_SQLite(t *testing.T) {
	runStoreSuite(t, setupSQLite)
}

func TestSQLStore_Postgres(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) database.Connection { return setupServer(t, "TEST_DATABASE_URL") })
}

func TestSQLStore_MySQL(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) database.Connection { return setupServer(t, "TEST_MYSQL_URL") })
}

func runStoreSuite(t *testing.T, setup func(t *testing.T) database.Connection) {
	ctx := context.Background()

	t.Run("insert assigns increasing ids", func(t *testing.T) {
		store := newStore(setup(t))
		defer store.Close(ctx)

		a := &task.Task{Title: "a", OwnerID: "u1"}
		b := &task.Task{Title: "b", OwnerID: "u1", IsDone: true}
		require.NoError(t, store.Insert(ctx, a))
		require.NoError(t, store.Insert(ctx, b))

		n, err := store.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.Positive(t, a.ID)
		assert.Greater(t, b.ID, a.ID)
	})

	t.Run("list is scoped to owner and ordered by id", func(t *testing.T) {
		conn := setup(t)
		store := newStore(conn)
		defer store.Close(ctx)

		for _, in := range []*task.Task{
			{Title: "u1-first", OwnerID: "u1"},
			{Title: "u2-only", OwnerID: "u2"},
			{Title: "u1-second", OwnerID: "u1", IsDone: true},
		} {
			require.NoError(t, store.Insert(ctx, in))
		}
		_, err := store.Commit(ctx)
		require.NoError(t, err)

		got, err := newStore(conn).List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "u1-first", got[0].Title)
		assert.Equal(t, "u1-second", got[1].Title)
		assert.True(t, got[1].IsDone)
		assert.Less(t, got[0].ID, got[1].ID)

		none, err := store.List(ctx, "nobody")
		require.NoError(t, err)
		assert.NotNil(t, none)
		assert.Empty(t, none)
	})

	t.Run("find by id", func(t *testing.T) {
		store := newStore(setup(t))
		defer store.Close(ctx)

		in := &task.Task{Title: "find me", OwnerID: "u1"}
		require.NoError(t, store.Insert(ctx, in))
		_, err := store.Commit(ctx)
		require.NoError(t, err)

		got, err := store.FindByID(ctx, in.ID)
		require.NoError(t, err)
		assert.Equal(t, in, got)

		_, err = store.FindByID(ctx, in.ID+1000)
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("update changes title and done but never owner", func(t *testing.T) {
		store := newStore(setup(t))
		defer store.Close(ctx)

		in := &task.Task{Title: "old", OwnerID: "u1"}
		require.NoError(t, store.Insert(ctx, in))
		_, err := store.Commit(ctx)
		require.NoError(t, err)

		require.NoError(t, store.Update(ctx, &task.Task{ID: in.ID, Title: "new", IsDone: true, OwnerID: "u2"}))
		n, err := store.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		got, err := store.FindByID(ctx, in.ID)
		require.NoError(t, err)
		assert.Equal(t, "new", got.Title)
		assert.True(t, got.IsDone)
		assert.Equal(t, "u1", got.OwnerID)
	})

	t.Run("blank title is rejected by the schema", func(t *testing.T) {
		store := newStore(setup(t))
		defer store.Close(ctx)

		in := &task.Task{Title: "x", OwnerID: "u1"}
		require.NoError(t, store.Insert(ctx, in))
		_, err := store.Commit(ctx)
		require.NoError(t, err)

		err = store.Update(ctx, &task.Task{ID: in.ID, Title: "", OwnerID: "u1"})
		if err == nil {
			_, err = store.Commit(ctx)
		}
		assert.Error(t, err)
	})

	t.Run("remove", func(t *testing.T) {
		store := newStore(setup(t))
		defer store.Close(ctx)

		in := &task.Task{Title: "x", OwnerID: "u1"}
		require.NoError(t, store.Insert(ctx, in))
		_, err := store.Commit(ctx)
		require.NoError(t, err)

		require.NoError(t, store.Remove(ctx, in))
		n, err := store.Commit(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		_, err = store.FindByID(ctx, in.ID)
		assert.ErrorIs(t, err, task.ErrNotFound)
	})

	t.Run("commit without writes", func(t *testing.T) {
		store := newStore(setup(t))
		defer store.Close(ctx)

		n, err := store.Commit(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("staged writes are visible inside the unit of work only", func(t *testing.T) {
		conn := setup(t)
		store := newStore(conn)

		require.NoError(t, store.Insert(ctx, &task.Task{Title: "staged", OwnerID: "u1"}))

		inside, err := store.List(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, inside, 1)

		require.NoError(t, store.Close(ctx))
		require.NoError(t, store.Close(ctx))

		after, err := newStore(conn).List(ctx, "u1")
		require.NoError(t, err)
		assert.Empty(t, after)
	})
}

func TestSQLStore_CancelledContext(t *testing.T) {
	conn := setupSQLite(t)
	store := newStore(conn)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.List(ctx, "u1")
	assert.Error(t, err)
}
