package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/convert"
	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database"
	_ "github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database/mysql"    // Register MySQL driver
	_ "github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/chrisracha/blazor-todo/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/chrisracha/blazor-todo/internal/shared/infrastructure/schema"
	"github.com/chrisracha/blazor-todo/internal/todo/application/services"
	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
	"github.com/chrisracha/blazor-todo/internal/todo/infrastructure/persistence"
	"github.com/chrisracha/blazor-todo/pkg/config"
	"github.com/chrisracha/blazor-todo/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis (nil when the list cache is disabled)
	RedisClient *redis.Client
	ListCache   *persistence.GuardedCache

	UnitOfWork *UnitOfWorkFactory
}

// Option configures a Container.
type Option func(*Container)

// WithMetrics replaces the no-op metrics sink.
func WithMetrics(metrics observability.Metrics) Option {
	return func(c *Container) {
		if metrics != nil {
			c.Metrics = metrics
		}
	}
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NoopMetrics{},
		Health:  observability.NewHealthRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}

	dbCfg := DatabaseConfig(cfg)
	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	logger.Debug("connected to database", "driver", c.DBDriver)

	if err := schema.Ensure(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to prepare schema: %w", err)
	}

	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))

	// Connect to Redis (optional in development)
	if cfg.CacheEnabled() {
		if err := c.initCache(ctx); err != nil {
			if !cfg.IsDevelopment() {
				conn.Close()
				return nil, err
			}
			logger.Warn("Redis not available, task lists will not be cached", "error", err)
		}
	}

	c.UnitOfWork = NewUnitOfWorkFactory(conn, c.ListCache, logger)

	logger.Debug("container initialized",
		"driver", c.DBDriver,
		"cache", c.ListCache != nil,
		"update_ownership_guard", cfg.UpdateOwnershipGuard,
	)
	return c, nil
}

func (c *Container) initCache(ctx context.Context) error {
	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := persistence.NewRedisListCache(client, c.Config.CacheTTL)
	c.RedisClient = client
	c.ListCache = persistence.NewGuardedCache(cache, breakerConfig(c.Config), c.Logger, c.Metrics)
	c.Health.Register("cache", observability.CacheHealthChecker(cache.Ping))
	c.Logger.Debug("connected to Redis", "ttl", c.Config.CacheTTL)
	return nil
}

// DatabaseConfig maps application configuration onto the connection factory.
func DatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.DatabaseMaxConns,
	}
}

func breakerConfig(cfg *config.Config) persistence.BreakerConfig {
	bc := persistence.DefaultBreakerConfig()
	if cfg.CacheBreakerFailures > 0 {
		bc.FailureThreshold = convert.IntToUint32Clamped(cfg.CacheBreakerFailures)
	}
	if cfg.CacheBreakerTimeout > 0 {
		bc.Timeout = cfg.CacheBreakerTimeout
	}
	return bc
}

// NewTaskService builds a task service over one unit of work with the
// container's logging, metrics and ownership settings.
func (c *Container) NewTaskService(uow task.Store) *services.TaskService {
	return services.NewTaskService(uow,
		services.WithLogger(c.Logger),
		services.WithMetrics(c.Metrics),
		services.WithUpdateOwnershipGuard(c.Config.UpdateOwnershipGuard),
	)
}

// WithTaskService runs fn with a task service scoped to a fresh unit of
// work. The unit of work is closed when fn returns; anything fn did not
// commit is rolled back.
func (c *Container) WithTaskService(ctx context.Context, fn func(ctx context.Context, svc *services.TaskService) error) (err error) {
	uow := c.UnitOfWork.Open()
	defer func() {
		if cerr := uow.Close(ctx); cerr != nil {
			c.Logger.WarnContext(ctx, "failed to close unit of work", "error", cerr)
			if err == nil {
				err = cerr
			}
		}
	}()
	return fn(ctx, c.NewTaskService(uow))
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		} else {
			c.Logger.Debug("Redis connection closed")
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err, "driver", c.DBDriver)
		} else {
			c.Logger.Debug("database connection closed", "driver", c.DBDriver)
		}
	}
}
