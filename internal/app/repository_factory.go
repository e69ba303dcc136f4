package app

import (
	"log/slog"

	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database"
	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
	"github.com/chrisracha/blazor-todo/internal/todo/infrastructure/persistence"
)

// UnitOfWorkFactory opens task units of work over one shared connection.
type UnitOfWorkFactory struct {
	conn   database.Connection
	cache  *persistence.GuardedCache
	logger *slog.Logger
}

// NewUnitOfWorkFactory creates a factory. A nil cache disables list caching.
func NewUnitOfWorkFactory(conn database.Connection, cache *persistence.GuardedCache, logger *slog.Logger) *UnitOfWorkFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &UnitOfWorkFactory{
		conn:   conn,
		cache:  cache,
		logger: logger,
	}
}

// Driver returns the driver of the underlying connection.
func (f *UnitOfWorkFactory) Driver() database.Driver {
	return f.conn.Driver()
}

// Cached reports whether opened units of work read through the list cache.
func (f *UnitOfWorkFactory) Cached() bool {
	return f.cache != nil
}

// Open starts a new unit of work. The caller must Close it.
func (f *UnitOfWorkFactory) Open() task.UnitOfWork {
	store := persistence.NewSQLStore(f.conn, f.logger)
	if f.cache == nil {
		return store
	}
	return f.cache.Wrap(store)
}
