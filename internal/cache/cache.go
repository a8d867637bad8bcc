package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every response cache key.
const KeyPrefix = "reporting:"

// Cache is a best-effort JSON response cache backed by redis. A nil client
// means caching is disabled; every method degrades to a miss.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func New(cfg config.Config, log *zap.Logger) *Cache {
	c := &Cache{
		ttl: cfg.CacheTTL,
		log: log.Named("cache"),
	}
	if cfg.RedisAddr == "" {
		return c
	}
	c.rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if c.ttl <= 0 {
		c.ttl = time.Minute
	}
	return c
}

func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// GetJSON loads the cached value into dst. Redis failures count as misses.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) bool {
	if !c.Enabled() {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache payload corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SetJSON stores v best-effort. Failures are logged, never surfaced.
func (c *Cache) SetJSON(ctx context.Context, key string, v any) {
	if !c.Enabled() {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Invalidate drops every key under the given prefix. The pipeline calls it
// after a snapshot write so the API stops serving the replaced rows before
// their TTL runs out.
func (c *Cache) Invalidate(ctx context.Context, prefix string) {
	if !c.Enabled() || prefix == "" {
		return
	}
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache scan failed", zap.String("prefix", prefix), zap.Error(err))
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache invalidate failed", zap.Error(err))
		return
	}
	c.log.Info("cache invalidated", zap.String("prefix", prefix), zap.Int("keys", len(keys)))
}

var Module = fx.Module("cache",
	fx.Provide(New),
	fx.Invoke(registerHooks),
)

func registerHooks(lc fx.Lifecycle, c *Cache) {
	if !c.Enabled() {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return c.rdb.Close()
		},
	})
}
