package cache

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"
)

// Cache couples a Store with logging and metrics. Store failures never surface to
// callers: a failed lookup is a miss and a failed write or delete is logged.
type Cache struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics
}

// New creates a Cache. logger and metrics may be nil.
func New(store Store, logger *slog.Logger, metrics *Metrics) *Cache {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Cache{store: store, logger: logger, metrics: metrics}
}

// TTL converts a number of seconds to a duration.
func TTL(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

// ReadThrough returns the value cached under key, or calls compute exactly once,
// caches its result for ttl and returns it. If compute fails nothing is cached and
// the error is returned unchanged. A non-positive ttl bypasses the cache entirely.
//
// Concurrent callers racing on the same key may each recompute; there is no
// cross-request coordination.
func ReadThrough[V any](ctx context.Context, c *Cache, key string, ttl time.Duration, compute func(context.Context) (V, error)) (V, error) {
	if ttl <= 0 {
		return compute(ctx)
	}

	if v, ok := lookup[V](ctx, c, key); ok {
		return v, nil
	}

	v, err := compute(ctx)
	if err != nil {
		return v, err
	}
	c.populate(ctx, key, v, ttl)
	return v, nil
}

func lookup[V any](ctx context.Context, c *Cache, key string) (V, bool) {
	var v V
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.metrics.lookup(resultError)
		c.logger.Warn("cache lookup failed, treating as miss", "key", key, "error", err)
		return v, false
	}
	if !ok {
		c.metrics.lookup(resultMiss)
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		c.metrics.lookup(resultError)
		c.logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return v, false
	}
	c.metrics.lookup(resultHit)
	return v, true
}

func (c *Cache) populate(ctx context.Context, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		c.metrics.populate(resultError)
		c.logger.Warn("cache value not encodable", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, ttl); err != nil {
		c.metrics.populate(resultError)
		c.logger.Warn("cache populate failed", "key", key, "error", err)
		return
	}
	c.metrics.populate(resultOK)
}
