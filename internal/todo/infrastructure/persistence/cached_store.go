package persistence

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
	"github.com/chrisracha/blazor-todo/pkg/observability"
)

// BreakerConfig tunes the circuit breaker in front of the list cache.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
}

// DefaultBreakerConfig returns the settings used when none are configured.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, Timeout: 30 * time.Second}
}

// GuardedCache puts a circuit breaker in front of a ListCache. It is shared
// by all units of work so the breaker state survives between requests.
// Cache failures are logged and never reach callers.
//
// An owner whose invalidation failed is suspect: its cached list may be
// stale, so lookups for it skip the cache until an invalidation succeeds.
type GuardedCache struct {
	cache   ListCache
	breaker *gobreaker.CircuitBreaker[any]
	logger  *slog.Logger
	metrics observability.Metrics

	mu      sync.Mutex
	suspect map[string]struct{}
}

// NewGuardedCache wraps cache with a breaker built from cfg.
func NewGuardedCache(cache ListCache, cfg BreakerConfig, logger *slog.Logger, metrics observability.Metrics) *GuardedCache {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultBreakerConfig().Timeout
	}

	g := &GuardedCache{
		cache:   cache,
		logger:  logger,
		metrics: metrics,
		suspect: map[string]struct{}{},
	}
	g.breaker = gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "task-list-cache",
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return g
}

// State exposes the breaker state for health reporting.
func (g *GuardedCache) State() gobreaker.State {
	return g.breaker.State()
}

// Suspect reports whether ownerID's cached list is distrusted after a
// failed invalidation.
func (g *GuardedCache) Suspect(ownerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.suspect[ownerID]
	return ok
}

// Wrap returns a unit of work that reads lists through the cache.
func (g *GuardedCache) Wrap(inner task.UnitOfWork) *CachedStore {
	return &CachedStore{
		inner:  inner,
		cache:  g,
		dirty:  map[string]struct{}{},
		owners: map[int64]string{},
	}
}

// lookup is the outcome of one cache read. fillable is false when the
// generation is unknown, in which case the caller must not fill.
type lookup struct {
	tasks    []*task.Task
	gen      int64
	hit      bool
	fillable bool
}

func (g *GuardedCache) get(ctx context.Context, ownerID string) lookup {
	if g.Suspect(ownerID) && !g.invalidate(ctx, []string{ownerID}) {
		return lookup{}
	}

	res, err := g.breaker.Execute(func() (any, error) {
		tasks, gen, ok, err := g.cache.Get(ctx, ownerID)
		return lookup{tasks: tasks, gen: gen, hit: ok, fillable: true}, err
	})
	if err != nil {
		g.failed(ctx, "get", err)
		return lookup{}
	}
	l := res.(lookup)
	if l.hit {
		g.metrics.Counter(observability.MetricCacheHits, 1)
	} else {
		g.metrics.Counter(observability.MetricCacheMisses, 1)
	}
	return l
}

func (g *GuardedCache) fill(ctx context.Context, ownerID string, gen int64, tasks []*task.Task) {
	res, err := g.breaker.Execute(func() (any, error) {
		return g.cache.Fill(ctx, ownerID, gen, tasks)
	})
	if err != nil {
		g.failed(ctx, "fill", err)
		return
	}
	if stored, _ := res.(bool); !stored {
		g.logger.DebugContext(ctx, "stale task list fill skipped", "owner_id", ownerID, "generation", gen)
	}
}

// invalidate reports whether the owners' entries were dropped. Owners it
// could not invalidate become suspect; owners it did are cleared.
func (g *GuardedCache) invalidate(ctx context.Context, ownerIDs []string) bool {
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, g.cache.Invalidate(ctx, ownerIDs...)
	})

	g.mu.Lock()
	for _, id := range ownerIDs {
		if err != nil {
			g.suspect[id] = struct{}{}
		} else {
			delete(g.suspect, id)
		}
	}
	g.mu.Unlock()

	if err != nil {
		g.failed(ctx, "invalidate", err)
		return false
	}
	return true
}

func (g *GuardedCache) failed(ctx context.Context, op string, err error) {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		g.logger.DebugContext(ctx, "task list cache bypassed", "cache_op", op, "error", err)
		return
	}
	g.metrics.Counter(observability.MetricCacheErrors, 1, observability.T("cache_op", op))
	g.logger.WarnContext(ctx, "task list cache failed", "cache_op", op, "error", err)
}

// CachedStore is a task.UnitOfWork that serves List from the cache.
// Owners written in the current unit of work bypass the cache until
// Commit, after which their entries are invalidated.
type CachedStore struct {
	inner task.UnitOfWork
	cache *GuardedCache

	dirty  map[string]struct{}
	owners map[int64]string
}

var _ task.UnitOfWork = (*CachedStore)(nil)

func (s *CachedStore) List(ctx context.Context, ownerID string) ([]*task.Task, error) {
	if _, ok := s.dirty[ownerID]; ok {
		return s.inner.List(ctx, ownerID)
	}

	l := s.cache.get(ctx, ownerID)
	if l.hit {
		return l.tasks, nil
	}

	tasks, err := s.inner.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if l.fillable {
		s.cache.fill(ctx, ownerID, l.gen, tasks)
	}
	return tasks, nil
}

func (s *CachedStore) FindByID(ctx context.Context, id int64) (*task.Task, error) {
	t, err := s.inner.FindByID(ctx, id)
	if err == nil {
		s.owners[id] = t.OwnerID
	}
	return t, err
}

func (s *CachedStore) Insert(ctx context.Context, t *task.Task) error {
	s.markDirty(t.OwnerID)
	return s.inner.Insert(ctx, t)
}

// Update marks both the claimed owner and the stored owner dirty, so an
// unguarded update by another identity still invalidates the right list.
func (s *CachedStore) Update(ctx context.Context, t *task.Task) error {
	s.markDirty(t.OwnerID)
	owner, ok := s.owners[t.ID]
	if !ok {
		if existing, err := s.inner.FindByID(ctx, t.ID); err == nil {
			owner, ok = existing.OwnerID, true
		}
	}
	if ok {
		s.markDirty(owner)
	}
	return s.inner.Update(ctx, t)
}

func (s *CachedStore) Remove(ctx context.Context, t *task.Task) error {
	s.markDirty(t.OwnerID)
	if owner, ok := s.owners[t.ID]; ok {
		s.markDirty(owner)
	}
	return s.inner.Remove(ctx, t)
}

func (s *CachedStore) Commit(ctx context.Context) (int64, error) {
	n, err := s.inner.Commit(ctx)
	if err == nil && len(s.dirty) > 0 {
		s.cache.invalidate(ctx, s.dirtyOwners())
	}
	s.reset()
	return n, err
}

func (s *CachedStore) Close(ctx context.Context) error {
	s.reset()
	return s.inner.Close(ctx)
}

func (s *CachedStore) markDirty(ownerID string) {
	if ownerID != "" {
		s.dirty[ownerID] = struct{}{}
	}
}

func (s *CachedStore) dirtyOwners() []string {
	owners := make([]string, 0, len(s.dirty))
	for o := range s.dirty {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	return owners
}

func (s *CachedStore) reset() {
	clear(s.dirty)
	clear(s.owners)
}
