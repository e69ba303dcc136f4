package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database"
)

func openTemp(t *testing.T) database.Connection {
	t.Helper()
	conn, err := NewConnection(context.Background(), database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "nested", "tasks.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestNewConnection(t *testing.T) {
	conn := openTemp(t)

	assert.NoError(t, conn.Ping(context.Background()))
	assert.Equal(t, database.DriverSQLite, conn.Driver())
}

func TestNewConnection_ViaFactory(t *testing.T) {
	conn, err := database.NewConnection(context.Background(), database.Config{SQLitePath: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, database.DriverSQLite, conn.Driver())
}

func TestNewConnection_RejectsDSNCharacters(t *testing.T) {
	_, err := NewConnection(context.Background(), database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "tasks.db?_pragma=foreign_keys(0)"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid SQLite path")
}

func TestConnection_ExecAndQuery(t *testing.T) {
	ctx := context.Background()
	conn := openTemp(t)

	_, err := conn.Exec(ctx, `CREATE TABLE notes (id INTEGER PRIMARY KEY AUTOINCREMENT, body TEXT NOT NULL)`)
	require.NoError(t, err)

	res, err := conn.Exec(ctx, `INSERT INTO notes (body) VALUES (?)`, "first")
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	n, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = conn.Exec(ctx, `INSERT INTO notes (body) VALUES (?)`, "second")
	require.NoError(t, err)

	var body string
	require.NoError(t, conn.QueryRow(ctx, `SELECT body FROM notes WHERE id = ?`, 2).Scan(&body))
	assert.Equal(t, "second", body)

	rows, err := conn.Query(ctx, `SELECT body FROM notes ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()
	var bodies []string
	for rows.Next() {
		require.NoError(t, rows.Scan(&body))
		bodies = append(bodies, body)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []string{"first", "second"}, bodies)

	err = conn.QueryRow(ctx, `SELECT body FROM notes WHERE id = ?`, 99).Scan(&body)
	assert.True(t, database.IsNoRows(err))
}

func TestConnection_Transaction(t *testing.T) {
	ctx := context.Background()
	conn := openTemp(t)
	_, err := conn.Exec(ctx, `CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)`)
	require.NoError(t, err)

	t.Run("rollback discards writes", func(t *testing.T) {
		tx, err := conn.BeginTx(ctx)
		require.NoError(t, err)
		_, err = tx.Exec(ctx, `INSERT INTO notes (id, body) VALUES (?, ?)`, 1, "draft")
		require.NoError(t, err)

		var count int
		require.NoError(t, tx.QueryRow(ctx, `SELECT COUNT(*) FROM notes`).Scan(&count))
		assert.Equal(t, 1, count)

		require.NoError(t, tx.Rollback(ctx))
		require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM notes`).Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("commit keeps writes", func(t *testing.T) {
		tx, err := conn.BeginTx(ctx)
		require.NoError(t, err)
		_, err = tx.Exec(ctx, `INSERT INTO notes (id, body) VALUES (?, ?)`, 2, "kept")
		require.NoError(t, err)
		require.NoError(t, tx.Commit(ctx))

		var body string
		require.NoError(t, conn.QueryRow(ctx, `SELECT body FROM notes WHERE id = 2`).Scan(&body))
		assert.Equal(t, "kept", body)
	})
}

func TestBuildDSN(t *testing.T) {
	assert.Contains(t, buildDSN("/tmp/a.db"), "/tmp/a.db?_pragma=journal_mode(WAL)&")
	assert.Contains(t, buildDSN("file:a.db?mode=rwc"), "file:a.db?mode=rwc&_pragma=")
}
