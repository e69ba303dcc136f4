package database

import (
	"context"
	"database/sql"
)

// Row is a single result row (pgx.Row or *sql.Row).
type Row interface {
	Scan(dest ...any) error
}

// Rows is a result cursor (pgx.Rows or *sql.Rows).
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result describes the outcome of Exec.
type Result interface {
	RowsAffected() (int64, error)
	LastInsertId() (int64, error)
}

// Executor runs queries regardless of driver. Queries use '?' placeholders;
// implementations rebind them for their driver.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that must be committed or rolled back.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a pooled handle that can start transactions.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
	Ping(ctx context.Context) error
	Driver() Driver
}

// SQLConnection adapts a *sql.DB to Connection. SQLite and MySQL share it.
type SQLConnection struct {
	db     *sql.DB
	driver Driver
}

// NewSQLConnection wraps db for the given driver.
func NewSQLConnection(db *sql.DB, driver Driver) *SQLConnection {
	return &SQLConnection{db: db, driver: driver}
}

// DB returns the underlying pool.
func (c *SQLConnection) DB() *sql.DB {
	return c.db
}

func (c *SQLConnection) Driver() Driver {
	return c.driver
}

func (c *SQLConnection) Close() error {
	return c.db.Close()
}

func (c *SQLConnection) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}

func (c *SQLConnection) BeginTx(ctx context.Context) (Transaction, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqlTransaction{tx: tx, driver: c.driver}, nil
}

func (c *SQLConnection) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	return c.db.ExecContext(ctx, Rebind(c.driver, query), args...)
}

func (c *SQLConnection) QueryRow(ctx context.Context, query string, args ...any) Row {
	return c.db.QueryRowContext(ctx, Rebind(c.driver, query), args...)
}

func (c *SQLConnection) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.db.QueryContext(ctx, Rebind(c.driver, query), args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type sqlTransaction struct {
	tx     *sql.Tx
	driver Driver
}

func (t *sqlTransaction) Commit(context.Context) error {
	return t.tx.Commit()
}

func (t *sqlTransaction) Rollback(context.Context) error {
	return t.tx.Rollback()
}

func (t *sqlTransaction) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	return t.tx.ExecContext(ctx, Rebind(t.driver, query), args...)
}

func (t *sqlTransaction) QueryRow(ctx context.Context, query string, args ...any) Row {
	return t.tx.QueryRowContext(ctx, Rebind(t.driver, query), args...)
}

func (t *sqlTransaction) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := t.tx.QueryContext(ctx, Rebind(t.driver, query), args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
