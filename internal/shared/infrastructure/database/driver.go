package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Driver identifies a database backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverMySQL    Driver = "mysql"

	// DriverAuto asks NewConnection to infer the driver from the URL.
	DriverAuto Driver = "auto"
)

func (d Driver) String() string {
	return string(d)
}

// IsValid reports whether d names a concrete backend.
func (d Driver) IsValid() bool {
	switch d {
	case DriverPostgres, DriverSQLite, DriverMySQL:
		return true
	default:
		return false
	}
}

// ParseDriver converts a configuration value into a Driver.
// Empty input means DriverAuto.
func ParseDriver(s string) (Driver, error) {
	d := Driver(strings.ToLower(strings.TrimSpace(s)))
	if d == "" || d == DriverAuto {
		return DriverAuto, nil
	}
	if !d.IsValid() {
		return "", fmt.Errorf("unsupported database driver: %q", s)
	}
	return d, nil
}

// DetectDriver infers the backend from a connection string.
// An empty URL selects SQLite so the service runs with zero configuration.
func DetectDriver(url string) Driver {
	switch {
	case url == "":
		return DriverSQLite
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return DriverPostgres
	case strings.HasPrefix(url, "mysql://"), strings.Contains(url, "@tcp("), strings.Contains(url, "@unix("):
		return DriverMySQL
	case strings.HasPrefix(url, "sqlite://"),
		strings.HasPrefix(url, "file:"),
		strings.HasSuffix(url, ".db"),
		strings.HasSuffix(url, ".sqlite"),
		strings.HasSuffix(url, ".sqlite3"):
		return DriverSQLite
	default:
		return DriverPostgres
	}
}

// Rebind rewrites '?' placeholders into the style the driver expects.
// Postgres uses $1..$n; SQLite and MySQL keep '?'. Placeholders inside
// single-quoted literals are left alone.
func Rebind(driver Driver, query string) string {
	if driver != DriverPostgres || !strings.Contains(query, "?") {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	quoted := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			quoted = !quoted
			b.WriteByte(c)
		case c == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
