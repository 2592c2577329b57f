package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrCacheMiss indicates the requested page was not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// cacheEntry is the serialized form of a cached page.
type cacheEntry[T any] struct {
	Items    []T       `json:"items"`
	CachedAt time.Time `json:"cached_at"`
}

// CacheConfig holds the page cache configuration.
type CacheConfig struct {
	// Name namespaces the cache keys; required so that multiple cached
	// sources can share one Redis instance.
	Name string

	// TTL is the lifetime of a cached page; required.
	TTL time.Duration
}

// Cached is a DataSource decorator that serves pages from Redis when
// available and falls back to the wrapped source on a miss. Cache
// failures degrade to a direct fetch; they never fail the page load.
type Cached[T any] struct {
	next   DataSource[T]
	redis  *redis.Client
	config CacheConfig
	logger zerolog.Logger
}

// NewCached creates a cached decorator around next.
func NewCached[T any](next DataSource[T], redisClient *redis.Client, config CacheConfig) (*Cached[T], error) {
	if next == nil {
		return nil, fmt.Errorf("wrapped data source is required")
	}
	if redisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if config.Name == "" {
		return nil, fmt.Errorf("cache name is required")
	}
	if config.TTL <= 0 {
		return nil, fmt.Errorf("cache TTL must be positive (got %s)", config.TTL)
	}

	return &Cached[T]{
		next:   next,
		redis:  redisClient,
		config: config,
		logger: log.With().Str("component", "source-cache").Str("cache", config.Name).Logger(),
	}, nil
}

// key generates a deterministic cache key for a page.
// Format: pageflow:<name>:page:<n>:size:<s>
func (c *Cached[T]) key(page, pageSize int) string {
	return fmt.Sprintf("pageflow:%s:page:%d:size:%d", c.config.Name, page, pageSize)
}

// FetchPage implements DataSource.
func (c *Cached[T]) FetchPage(ctx context.Context, page, pageSize int) ([]T, error) {
	items, err := c.lookup(ctx, page, pageSize)
	if err == nil {
		cacheHits.Inc()
		c.logger.Debug().Int("page", page).Msg("Page cache hit")
		return items, nil
	}
	if err == ErrCacheMiss {
		cacheMisses.Inc()
	}

	items, err = c.next.FetchPage(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	c.store(ctx, page, pageSize, items)
	return items, nil
}

// Invalidate removes a cached page.
func (c *Cached[T]) Invalidate(ctx context.Context, page, pageSize int) error {
	if err := c.redis.Del(ctx, c.key(page, pageSize)).Err(); err != nil {
		cacheErrors.WithLabelValues("delete").Inc()
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// lookup fetches and decodes a cached page.
// Returns ErrCacheMiss if the key doesn't exist.
func (c *Cached[T]) lookup(ctx context.Context, page, pageSize int) ([]T, error) {
	data, err := c.redis.Get(ctx, c.key(page, pageSize)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		cacheErrors.WithLabelValues("get").Inc()
		c.logger.Warn().Err(err).Int("page", page).Msg("Page cache get failed")
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var entry cacheEntry[T]
	if err := json.Unmarshal(data, &entry); err != nil {
		cacheErrors.WithLabelValues("decode").Inc()
		c.logger.Warn().Err(err).Int("page", page).Msg("Discarding corrupt cache entry")
		return nil, fmt.Errorf("unmarshal cache entry: %w", err)
	}

	return entry.Items, nil
}

// store writes a fetched page to the cache. Failures are logged and
// counted but do not affect the fetch result.
func (c *Cached[T]) store(ctx context.Context, page, pageSize int, items []T) {
	entry := cacheEntry[T]{
		Items:    items,
		CachedAt: time.Now(),
	}

	data, err := json.Marshal(entry)
	if err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		c.logger.Warn().Err(err).Int("page", page).Msg("Failed to encode cache entry")
		return
	}

	if err := c.redis.Set(ctx, c.key(page, pageSize), data, c.config.TTL).Err(); err != nil {
		cacheErrors.WithLabelValues("set").Inc()
		c.logger.Warn().Err(err).Int("page", page).Msg("Failed to cache page")
		return
	}

	c.logger.Debug().
		Int("page", page).
		Int("items", len(items)).
		Dur("ttl", c.config.TTL).
		Msg("Cached page")
}
