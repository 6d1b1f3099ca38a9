package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const scanBatch = 100

// Gateway is the look-aside cache in front of read queries. It is never a
// source of truth: every method swallows transport errors after logging them,
// so a misbehaving cache degrades reads to the store of record instead of
// failing the request.
type Gateway struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func New(rdb *redis.Client, logger ...*zap.Logger) *Gateway {
	l := zap.L().Named("cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cache")
	}
	return &Gateway{rdb: rdb, logger: l}
}

// Get unmarshals the cached value into dest and reports whether it was a hit.
// Misses and cache failures both report false.
func (g *Gateway) Get(ctx context.Context, key string, dest any) bool {
	if g == nil || g.rdb == nil {
		return false
	}
	raw, err := g.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			g.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		g.logger.Warn("cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set stores value under key for ttl. Failures are logged and dropped.
func (g *Gateway) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	if g == nil || g.rdb == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		g.logger.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := g.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		g.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes the given keys.
func (g *Gateway) Delete(ctx context.Context, keys ...string) {
	if g == nil || g.rdb == nil || len(keys) == 0 {
		return
	}
	if err := g.rdb.Del(ctx, keys...).Err(); err != nil {
		g.logger.Warn("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// DeleteByPattern removes every key matching the glob pattern and returns the
// number removed. SCAN is used instead of KEYS so invalidation never blocks
// the cache tier.
func (g *Gateway) DeleteByPattern(ctx context.Context, pattern string) int {
	if g == nil || g.rdb == nil {
		return 0
	}

	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := g.rdb.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			g.logger.Warn("cache scan failed", zap.String("pattern", pattern), zap.Error(err))
			return removed
		}
		if len(keys) > 0 {
			if err := g.rdb.Del(ctx, keys...).Err(); err != nil {
				g.logger.Warn("cache delete failed", zap.String("pattern", pattern), zap.Error(err))
				return removed
			}
			removed += len(keys)
		}
		cursor = next
		if cursor == 0 {
			return removed
		}
	}
}
