// Package schema creates the tasks table on startup. It only bootstraps a
// fresh database; there is no versioned migration history.
package schema

import (
	"context"
	"embed"
	"fmt"
	"strings"

	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database"
)

//go:embed sql/*.sql
var files embed.FS

// Statements returns the DDL for driver, one statement per element.
func Statements(driver database.Driver) ([]string, error) {
	if !driver.IsValid() {
		return nil, fmt.Errorf("no schema for database driver %q", driver)
	}

	raw, err := files.ReadFile("sql/" + driver.String() + ".sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read %s schema: %w", driver, err)
	}

	var stmts []string
	for _, part := range strings.Split(string(raw), ";") {
		if s := strings.TrimSpace(part); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts, nil
}

// Ensure creates the tasks table and its indexes if they are missing.
// Running it against an up-to-date database is a no-op.
func Ensure(ctx context.Context, conn database.Connection) error {
	stmts, err := Statements(conn.Driver())
	if err != nil {
		return err
	}
	for i, stmt := range stmts {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply %s schema statement %d: %w", conn.Driver(), i+1, err)
		}
	}
	return nil
}
