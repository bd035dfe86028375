package llm

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestMultiLevelCacheSetGet(t *testing.T) {
	cache := NewMultiLevelCache(newTestRedis(t), nil, nil)
	ctx := context.Background()

	req := &GenerateRequest{Model: "gpt-4o", Prompt: "what is consideration", Temperature: 0.2}
	key := cache.GenerateKey(req)

	_, err := cache.Get(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)

	entry := &CacheEntry{
		Response:    &GenerateResponse{Model: "gpt-4o", Text: "a bargained-for exchange"},
		TokensSaved: 42,
	}
	require.NoError(t, cache.Set(ctx, key, entry))

	got, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "a bargained-for exchange", got.Response.Text)
	assert.Equal(t, 42, got.TokensSaved)
}

func TestMultiLevelCacheRedisFallback(t *testing.T) {
	rdb := newTestRedis(t)
	ctx := context.Background()

	writer := NewMultiLevelCache(rdb, nil, nil)
	key := writer.GenerateKey(&GenerateRequest{Model: "gpt-4o", Prompt: "q"})
	require.NoError(t, writer.Set(ctx, key, &CacheEntry{
		Response: &GenerateResponse{Text: "cached"},
	}))

	// 新实例本地缓存为空，应从 Redis 命中并回填。
	reader := NewMultiLevelCache(rdb, nil, nil)
	got, err := reader.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "cached", got.Response.Text)
}

func TestGenerateKeyDeterministic(t *testing.T) {
	cache := NewMultiLevelCache(nil, &CacheConfig{EnableLocal: true, LocalMaxSize: 10, LocalTTL: time.Minute}, nil)

	a := cache.GenerateKey(&GenerateRequest{Model: "gpt-4o", System: "s", Prompt: "p"})
	b := cache.GenerateKey(&GenerateRequest{Model: "gpt-4o", System: "s", Prompt: "p"})
	c := cache.GenerateKey(&GenerateRequest{Model: "gpt-4o", System: "s", Prompt: "p2"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestIsCacheable(t *testing.T) {
	cache := NewMultiLevelCache(nil, nil, nil)

	assert.True(t, cache.IsCacheable(&GenerateRequest{Temperature: 0}))
	assert.True(t, cache.IsCacheable(&GenerateRequest{Temperature: 0.3}))
	assert.False(t, cache.IsCacheable(&GenerateRequest{Temperature: 0.7}))
}

func TestLRUCacheEviction(t *testing.T) {
	lru := NewLRUCache(2, time.Minute)

	lru.Set("a", &CacheEntry{TokensSaved: 1})
	lru.Set("b", &CacheEntry{TokensSaved: 2})

	// 访问 a 使其成为最近使用。
	_, ok := lru.Get("a")
	require.True(t, ok)

	lru.Set("c", &CacheEntry{TokensSaved: 3})

	_, ok = lru.Get("b")
	assert.False(t, ok, "b should have been evicted")
	_, ok = lru.Get("a")
	assert.True(t, ok)
	_, ok = lru.Get("c")
	assert.True(t, ok)
}

func TestLRUCacheTTL(t *testing.T) {
	lru := NewLRUCache(10, time.Millisecond)

	lru.Set("a", &CacheEntry{})
	time.Sleep(5 * time.Millisecond)

	_, ok := lru.Get("a")
	assert.False(t, ok)
}
