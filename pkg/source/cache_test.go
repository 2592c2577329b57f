package source

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis creates a test Redis client.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewCached_Validation(t *testing.T) {
	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer redisClient.Close()

	base := NewMemory(intRange(10))

	tests := []struct {
		name        string
		next        DataSource[int]
		redis       *redis.Client
		config      CacheConfig
		expectError bool
	}{
		{
			name:        "valid config",
			next:        base,
			redis:       redisClient,
			config:      CacheConfig{Name: "test", TTL: time.Minute},
			expectError: false,
		},
		{
			name:        "nil source",
			next:        nil,
			redis:       redisClient,
			config:      CacheConfig{Name: "test", TTL: time.Minute},
			expectError: true,
		},
		{
			name:        "nil redis",
			next:        base,
			redis:       nil,
			config:      CacheConfig{Name: "test", TTL: time.Minute},
			expectError: true,
		},
		{
			name:        "empty name",
			next:        base,
			redis:       redisClient,
			config:      CacheConfig{TTL: time.Minute},
			expectError: true,
		},
		{
			name:        "zero TTL",
			next:        base,
			redis:       redisClient,
			config:      CacheConfig{Name: "test"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCached(tt.next, tt.redis, tt.config)
			if tt.expectError && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCached_MissThenHit(t *testing.T) {
	redisClient := setupTestRedis(t)

	base := NewMemory(intRange(45))
	c, err := NewCached[int](base, redisClient, CacheConfig{Name: "hits", TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewCached failed: %v", err)
	}

	ctx := context.Background()

	// First fetch misses and goes to the backing source.
	items, err := c.FetchPage(ctx, 0, 20)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(items) != 20 {
		t.Fatalf("len = %d, want 20", len(items))
	}
	if base.Calls(0) != 1 {
		t.Fatalf("base calls = %d, want 1", base.Calls(0))
	}

	// Second fetch is served from Redis.
	items, err = c.FetchPage(ctx, 0, 20)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(items) != 20 {
		t.Fatalf("len = %d, want 20", len(items))
	}
	if base.Calls(0) != 1 {
		t.Errorf("base hit again despite cache: calls = %d", base.Calls(0))
	}
}

func TestCached_DistinctPagesAndSizes(t *testing.T) {
	redisClient := setupTestRedis(t)

	base := NewMemory(intRange(45))
	c, err := NewCached[int](base, redisClient, CacheConfig{Name: "keys", TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewCached failed: %v", err)
	}

	ctx := context.Background()

	first, err := c.FetchPage(ctx, 1, 20)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if first[0] != 20 {
		t.Errorf("page 1 starts at %d, want 20", first[0])
	}

	// A different page size is a different cache key, not a stale hit.
	other, err := c.FetchPage(ctx, 1, 10)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if other[0] != 10 {
		t.Errorf("page 1 (size 10) starts at %d, want 10", other[0])
	}
}

func TestCached_Invalidate(t *testing.T) {
	redisClient := setupTestRedis(t)

	base := NewMemory(intRange(45))
	c, err := NewCached[int](base, redisClient, CacheConfig{Name: "inv", TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewCached failed: %v", err)
	}

	ctx := context.Background()

	if _, err := c.FetchPage(ctx, 0, 20); err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if err := c.Invalidate(ctx, 0, 20); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, err := c.FetchPage(ctx, 0, 20); err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}

	if base.Calls(0) != 2 {
		t.Errorf("base calls = %d, want 2 after invalidation", base.Calls(0))
	}
}

func TestCached_SourceErrorNotCached(t *testing.T) {
	redisClient := setupTestRedis(t)

	base := NewMemory(intRange(45))
	base.FailPage(0, context.DeadlineExceeded)

	c, err := NewCached[int](base, redisClient, CacheConfig{Name: "err", TTL: time.Minute})
	if err != nil {
		t.Fatalf("NewCached failed: %v", err)
	}

	ctx := context.Background()

	if _, err := c.FetchPage(ctx, 0, 20); err == nil {
		t.Fatal("expected the injected failure to propagate")
	}

	// The failure was not cached; the retry hits the source and succeeds.
	items, err := c.FetchPage(ctx, 0, 20)
	if err != nil {
		t.Fatalf("FetchPage failed: %v", err)
	}
	if len(items) != 20 {
		t.Errorf("len = %d, want 20", len(items))
	}
}
