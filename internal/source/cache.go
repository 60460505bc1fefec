package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Adithya-Monish-Kumar-K/advocate-directory/internal/advocate"
	"github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/advocate-directory/pkg/redis"
)

const cacheKey = "advocates:all"

// cacheStore is the subset of the redis client the cache uses.
type cacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// Cached keeps the JSON-encoded full record set in redis for ttl. Concurrent
// misses share one load of the underlying source. Redis errors are logged and
// the underlying source answers instead.
type Cached struct {
	next    Source
	store   cacheStore
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewCached(next Source, client *pkgredis.Client, ttl time.Duration, m *metrics.Metrics) *Cached {
	return newCached(next, client, ttl, m)
}

func newCached(next Source, store cacheStore, ttl time.Duration, m *metrics.Metrics) *Cached {
	return &Cached{
		next:    next,
		store:   store,
		ttl:     ttl,
		metrics: m,
		logger:  slog.Default().With("component", "record-cache"),
	}
}

func (c *Cached) ListAll(ctx context.Context) ([]advocate.Advocate, error) {
	if records, ok := c.get(ctx); ok {
		return records, nil
	}
	val, err, shared := c.group.Do(cacheKey, func() (any, error) {
		if records, ok := c.get(ctx); ok {
			return records, nil
		}
		records, err := c.next.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		c.set(ctx, records)
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	records := val.([]advocate.Advocate)
	if shared {
		// Callers that joined an in-flight load must not share slices.
		out := make([]advocate.Advocate, len(records))
		for i, a := range records {
			out[i] = a.Clone()
		}
		return out, nil
	}
	return records, nil
}

func (c *Cached) get(ctx context.Context) ([]advocate.Advocate, bool) {
	data, err := c.store.Get(ctx, cacheKey)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", cacheKey, "error", err)
		}
		c.miss()
		return nil, false
	}
	var records []advocate.Advocate
	if err := json.Unmarshal(data, &records); err != nil {
		c.logger.Error("cache unmarshal failed", "key", cacheKey, "error", err)
		c.miss()
		return nil, false
	}
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
	c.logger.Debug("cache hit", "count", len(records))
	return records, true
}

func (c *Cached) set(ctx context.Context, records []advocate.Advocate) {
	data, err := json.Marshal(records)
	if err != nil {
		c.logger.Error("cache marshal failed", "error", err)
		return
	}
	if err := c.store.Set(ctx, cacheKey, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", cacheKey, "error", err)
	}
}

func (c *Cached) miss() {
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

// Invalidate drops the cached set so the next load reads the source.
func (c *Cached) Invalidate(ctx context.Context) error {
	if err := c.store.Del(ctx, cacheKey); err != nil {
		return fmt.Errorf("invalidating record cache: %w", err)
	}
	c.logger.Info("record cache invalidated")
	return nil
}
