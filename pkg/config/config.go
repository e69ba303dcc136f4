package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/convert"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv    string
	LogLevel  string
	LogFormat string
	// UserID is the already-verified caller used by the CLI and MCP server.
	UserID string

	// Database
	DatabaseURL      string
	DatabaseDriver   string
	SQLitePath       string
	DatabaseMaxConns int

	// Cache
	RedisURL             string
	CacheTTL             time.Duration
	CacheBreakerFailures int
	CacheBreakerTimeout  time.Duration

	// HTTP API
	HTTPAddr       string
	HTTPUserHeader string

	// MCP
	MCPAddr      string
	MCPAuthToken string

	// Task rules
	UpdateOwnershipGuard bool
}

// Load reads configuration from the environment, after loading a .env file
// when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		LogLevel:  getEnv("TODO_LOG_LEVEL", "info"),
		LogFormat: getEnv("TODO_LOG_FORMAT", "text"),
		UserID:    getEnv("TODO_USER_ID", "local-user"),

		DatabaseURL:      getEnv("DATABASE_URL", ""),
		DatabaseDriver:   strings.ToLower(getEnv("DATABASE_DRIVER", "auto")),
		SQLitePath:       getEnv("SQLITE_PATH", ""),
		DatabaseMaxConns: getIntEnv("DATABASE_MAX_CONNS", 10),

		RedisURL:             getEnv("REDIS_URL", ""),
		CacheTTL:             getDurationEnv("CACHE_TTL", 5*time.Minute),
		CacheBreakerFailures: getIntEnv("CACHE_BREAKER_FAILURES", 5),
		CacheBreakerTimeout:  getDurationEnv("CACHE_BREAKER_TIMEOUT", 30*time.Second),

		HTTPAddr:       getEnv("HTTP_ADDR", "127.0.0.1:8080"),
		HTTPUserHeader: getEnv("HTTP_USER_HEADER", "X-User-ID"),

		MCPAddr:      getEnv("MCP_ADDR", "0.0.0.0:8082"),
		MCPAuthToken: getEnv("MCP_AUTH_TOKEN", ""),

		UpdateOwnershipGuard: getBoolEnv("UPDATE_OWNERSHIP_GUARD", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case "", "auto", "sqlite", "postgres", "mysql":
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER: unsupported driver %q", c.DatabaseDriver))
	}
	if c.DatabaseMaxConns < 0 {
		errs = append(errs, errors.New("DATABASE_MAX_CONNS: must not be negative"))
	} else if _, err := convert.IntToInt32(c.DatabaseMaxConns); err != nil {
		errs = append(errs, fmt.Errorf("DATABASE_MAX_CONNS: %w", err))
	}
	if c.CacheTTL <= 0 {
		errs = append(errs, errors.New("CACHE_TTL: must be positive"))
	}
	if c.CacheBreakerFailures <= 0 {
		errs = append(errs, errors.New("CACHE_BREAKER_FAILURES: must be positive"))
	} else if _, err := convert.IntToUint32(c.CacheBreakerFailures); err != nil {
		errs = append(errs, fmt.Errorf("CACHE_BREAKER_FAILURES: %w", err))
	}
	if c.CacheBreakerTimeout <= 0 {
		errs = append(errs, errors.New("CACHE_BREAKER_TIMEOUT: must be positive"))
	}
	if strings.TrimSpace(c.HTTPUserHeader) == "" {
		errs = append(errs, errors.New("HTTP_USER_HEADER: must not be empty"))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("TODO_LOG_FORMAT: unsupported format %q", c.LogFormat))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// CacheEnabled reports whether a Redis list cache is configured.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
