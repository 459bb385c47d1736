// Package query is the process-wide request cache and fetch dispatcher.
// Results are cached by key until the staleness TTL passes, concurrent
// identical fetches collapse into one backend call, and consumers only ever
// read: the cache map is mutated here and nowhere else.
package query

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/gridsight/forecast-dashboard/internal/metrics"
)

// FetchFunc produces a fresh value for a key.
type FetchFunc[T any] func(ctx context.Context) (T, error)

type Client struct {
	cache Cache
	ttl   time.Duration
	group singleflight.Group
}

func NewClient(cache Cache, ttl time.Duration) *Client {
	return &Client{cache: cache, ttl: ttl}
}

// Key joins path segments into a normalized cache key.
func Key(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			trimmed = append(trimmed, p)
		}
	}
	return strings.Join(trimmed, "/")
}

// Lookup returns the cached value for key, fetching it at most once across
// concurrent callers when the cache is cold or stale.
func Lookup[T any](ctx context.Context, c *Client, key string, fetch FetchFunc[T]) (T, error) {
	var zero T

	if raw, ok, err := c.cache.Get(ctx, key); err == nil && ok {
		var v T
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			metrics.CacheHits.Inc()
			return v, nil
		}
		// A corrupt entry is dropped and refetched.
		c.cache.Delete(ctx, key)
	} else if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	metrics.CacheMisses.Inc()
	v, err, _ := c.group.Do(key, func() (any, error) {
		fresh, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, fresh)
		return fresh, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// Refresh bypasses the cache: it always issues a fetch and replaces the
// cached value on success. One call, one fetch.
func Refresh[T any](ctx context.Context, c *Client, key string, fetch FetchFunc[T]) (T, error) {
	var zero T
	c.cache.Delete(ctx, key)
	v, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	c.store(ctx, key, v)
	return v, nil
}

func (c *Client) Invalidate(ctx context.Context, key string) {
	c.cache.Delete(ctx, key)
}

func (c *Client) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return
	}
	if err := c.cache.Set(ctx, key, string(raw), c.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Poll refetches key every interval and hands each fresh value to onUpdate.
// A failed tick is skipped; the loop exits when ctx is cancelled. Only the
// alerts feed uses this, everything else fetches on demand.
func Poll[T any](ctx context.Context, c *Client, key string, interval time.Duration, fetch FetchFunc[T], onUpdate func(T)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v, err := Refresh(ctx, c, key, fetch)
			if err != nil {
				log.Error().Err(err).Str("key", key).Msg("poll refetch failed")
				continue
			}
			onUpdate(v)
		}
	}
}
