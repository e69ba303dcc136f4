package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
)

// DefaultCacheTTL bounds how long a cached list may outlive a missed invalidation.
const DefaultCacheTTL = 5 * time.Minute

// generationTTL keeps an owner's generation counter far longer than any
// single read, so a fill never compares against a counter that expired
// and restarted mid-read.
const generationTTL = 24 * time.Hour

// ListCache caches each owner's full task list.
//
// Every owner has a generation that Invalidate advances. Get returns the
// generation current at lookup time and Fill stores a list only while the
// generation is unchanged, so a list read before a concurrent commit is
// never cached after that commit's invalidation.
type ListCache interface {
	// Get reports ok=false on a miss. gen is valid on hits and misses.
	Get(ctx context.Context, ownerID string) (tasks []*task.Task, gen int64, ok bool, err error)
	// Fill stores tasks if ownerID's generation is still gen and reports whether it did.
	Fill(ctx context.Context, ownerID string, gen int64, tasks []*task.Task) (bool, error)
	Invalidate(ctx context.Context, ownerIDs ...string) error
}

// RedisListCache stores owner lists as JSON in Redis.
// Keys are namespaced and hash-tagged per owner:
// todo:tasks:{owner_id}:list and todo:tasks:{owner_id}:gen
type RedisListCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ListCache = (*RedisListCache)(nil)

// fillScript sets KEYS[1] only when the generation in KEYS[2] equals ARGV[1].
var fillScript = redis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// NewRedisListCache creates a cache whose entries expire after ttl
// (DefaultCacheTTL when ttl is not positive).
func NewRedisListCache(client *redis.Client, ttl time.Duration) *RedisListCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisListCache{client: client, ttl: ttl}
}

// OwnerKey returns the Redis key holding ownerID's list.
func OwnerKey(ownerID string) string {
	return "todo:tasks:{" + ownerID + "}:list"
}

// GenerationKey returns the Redis key holding ownerID's generation.
func GenerationKey(ownerID string) string {
	return "todo:tasks:{" + ownerID + "}:gen"
}

func (c *RedisListCache) Get(ctx context.Context, ownerID string) ([]*task.Task, int64, bool, error) {
	vals, err := c.client.MGet(ctx, OwnerKey(ownerID), GenerationKey(ownerID)).Result()
	if err != nil {
		return nil, 0, false, err
	}

	gen, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, false, fmt.Errorf("decode generation for %s: %w", ownerID, err)
	}

	raw, ok := vals[0].(string)
	if !ok {
		return nil, gen, false, nil
	}

	var tasks []*task.Task
	if err := json.Unmarshal([]byte(raw), &tasks); err != nil {
		return nil, 0, false, fmt.Errorf("decode cached tasks for %s: %w", ownerID, err)
	}
	if tasks == nil {
		tasks = []*task.Task{}
	}
	return tasks, gen, true, nil
}

func (c *RedisListCache) Fill(ctx context.Context, ownerID string, gen int64, tasks []*task.Task) (bool, error) {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	val, err := json.Marshal(tasks)
	if err != nil {
		return false, fmt.Errorf("encode tasks for %s: %w", ownerID, err)
	}

	stored, err := fillScript.Run(ctx, c.client,
		[]string{OwnerKey(ownerID), GenerationKey(ownerID)},
		strconv.FormatInt(gen, 10), val, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

// Invalidate drops the owners' lists and advances their generations in one
// MULTI/EXEC so no fill based on an older read can land afterwards.
func (c *RedisListCache) Invalidate(ctx context.Context, ownerIDs ...string) error {
	if len(ownerIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range ownerIDs {
			pipe.Del(ctx, OwnerKey(id))
			pipe.Incr(ctx, GenerationKey(id))
			pipe.Expire(ctx, GenerationKey(id), generationTTL)
		}
		return nil
	})
	return err
}

// Ping checks connectivity for the health registry.
func (c *RedisListCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func parseGeneration(v any) (int64, error) {
	if v == nil {
		return 0, nil
	}
	s, ok := v.(string)
	if !ok {
		return 0, errors.New("unexpected generation type")
	}
	return strconv.ParseInt(s, 10, 64)
}
