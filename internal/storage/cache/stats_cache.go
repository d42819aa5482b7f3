package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/letspunt/adpage/internal/domain"
	"github.com/redis/go-redis/v9"
)

const statsKeyPrefix = "adpage:stats:listings:"

// StatsSource computes listing counters from the primary store.
type StatsSource interface {
	Stats(ctx context.Context, location string, now time.Time) (domain.ListingStats, error)
}

// ListingStats caches listing counters per location in Redis. With a nil
// client every call goes to the source. Redis failures are logged and never
// fail the request.
type ListingStats struct {
	rdb    *redis.Client
	source StatsSource
	ttl    time.Duration
	now    func() time.Time
}

func NewListingStats(rdb *redis.Client, source StatsSource, ttl time.Duration) *ListingStats {
	return &ListingStats{
		rdb:    rdb,
		source: source,
		ttl:    ttl,
		now:    time.Now,
	}
}

func statsKey(location string) string {
	return statsKeyPrefix + location
}

func (c *ListingStats) Get(ctx context.Context, location string) (domain.ListingStats, error) {
	if c.rdb == nil {
		return c.source.Stats(ctx, location, c.now())
	}

	key := statsKey(location)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var st domain.ListingStats
		if jerr := json.Unmarshal(raw, &st); jerr == nil {
			return st, nil
		}
		slog.Warn("Discarding corrupt stats cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		slog.Warn("Stats cache read failed", "key", key, "error", err)
	}

	st, err := c.source.Stats(ctx, location, c.now())
	if err != nil {
		return domain.ListingStats{}, err
	}

	if payload, jerr := json.Marshal(st); jerr == nil {
		if serr := c.rdb.Set(ctx, key, payload, c.ttl).Err(); serr != nil {
			slog.Warn("Stats cache write failed", "key", key, "error", serr)
		}
	}
	return st, nil
}

// Invalidate drops every cached counter. Called after writes that change
// listing counts.
func (c *ListingStats) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}

	var keys []string
	iter := c.rdb.Scan(ctx, 0, statsKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Warn("Stats cache scan failed", "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("Stats cache invalidation failed", "error", err)
		return
	}
	slog.Debug("Invalidated stats cache", "keys", len(keys))
}
