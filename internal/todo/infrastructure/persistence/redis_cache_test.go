package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisracha/blazor-todo/internal/todo/domain/task"
	"github.com/chrisracha/blazor-todo/internal/todo/infrastructure/persistence"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set, skipping Redis integration test")
	}
	opt, err := redis.ParseURL(url)
	require.NoError(t, err)

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("Failed to ping Redis: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "todo:tasks:{user-1}:list", persistence.OwnerKey("user-1"))
	assert.Equal(t, "todo:tasks:{user-1}:gen", persistence.GenerationKey("user-1"))
}

func TestRedisListCache(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	owner := "redis-test-" + time.Now().Format("150405.000000")
	cache := persistence.NewRedisListCache(client, time.Minute)
	t.Cleanup(func() { client.Del(ctx, persistence.OwnerKey(owner), persistence.GenerationKey(owner)) })

	require.NoError(t, cache.Ping(ctx))

	_, gen, ok, err := cache.Get(ctx, owner)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, gen)

	want := []*task.Task{{ID: 1, Title: "a", OwnerID: owner, IsDone: true}}
	stored, err := cache.Fill(ctx, owner, gen, want)
	require.NoError(t, err)
	assert.True(t, stored)

	got, gen, ok, err := cache.Get(ctx, owner)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
	assert.Zero(t, gen)

	ttl, err := client.TTL(ctx, persistence.OwnerKey(owner)).Result()
	require.NoError(t, err)
	assert.Positive(t, ttl)

	require.NoError(t, cache.Invalidate(ctx, owner))
	_, gen, ok, err = cache.Get(ctx, owner)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(1), gen)

	assert.NoError(t, cache.Invalidate(ctx))
}

func TestRedisListCache_FillRejectsOldGeneration(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	owner := "redis-gen-" + time.Now().Format("150405.000000")
	cache := persistence.NewRedisListCache(client, time.Minute)
	t.Cleanup(func() { client.Del(ctx, persistence.OwnerKey(owner), persistence.GenerationKey(owner)) })

	_, gen, _, err := cache.Get(ctx, owner)
	require.NoError(t, err)

	// A commit lands between the read and the fill.
	require.NoError(t, cache.Invalidate(ctx, owner))

	stored, err := cache.Fill(ctx, owner, gen, []*task.Task{})
	require.NoError(t, err)
	assert.False(t, stored)

	_, _, ok, err := cache.Get(ctx, owner)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err = cache.Fill(ctx, owner, gen+1, nil)
	require.NoError(t, err)
	assert.True(t, stored)

	empty, _, ok, err := cache.Get(ctx, owner)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, empty)
}
