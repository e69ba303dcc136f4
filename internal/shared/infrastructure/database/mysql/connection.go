// Package mysql registers the MySQL backend built on go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database"
)

func init() {
	database.Register(database.DriverMySQL, NewConnection)
}

// NewConnection opens a MySQL pool from cfg.URL, which may be either a
// mysql:// URL or a native DSN such as "user:pass@tcp(host:3306)/todo".
func NewConnection(ctx context.Context, cfg database.Config) (database.Connection, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("database URL is required for MySQL")
	}

	dsn, err := DSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}
	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
		db.SetMaxIdleConns(cfg.MaxConns)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL database: %w", err)
	}

	return database.NewSQLConnection(db, database.DriverMySQL), nil
}

// DSN converts a mysql:// URL into the driver's DSN format. Native DSNs are
// validated and returned normalised.
func DSN(raw string) (string, error) {
	if !strings.HasPrefix(raw, "mysql://") {
		c, err := mysql.ParseDSN(raw)
		if err != nil {
			return "", err
		}
		c.ParseTime = true
		return c.FormatDSN(), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	c := mysql.NewConfig()
	c.Net = "tcp"
	c.Addr = u.Host
	if u.Port() == "" {
		c.Addr = u.Host + ":3306"
	}
	c.DBName = strings.TrimPrefix(u.Path, "/")
	if u.User != nil {
		c.User = u.User.Username()
		c.Passwd, _ = u.User.Password()
	}
	c.ParseTime = true

	params := u.Query()
	if len(params) > 0 {
		c.Params = make(map[string]string, len(params))
		for k := range params {
			c.Params[k] = params.Get(k)
		}
	}

	return c.FormatDSN(), nil
}
