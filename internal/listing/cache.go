package listing

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix  = "listings:"
	defaultCacheTTL = 5 * time.Minute
)

// Cache is a read-through redis cache for the public therapist directory.
// A nil *Cache disables caching entirely; misses and redis faults are treated
// as misses, never as request failures.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

func NewCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Cache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{rdb: rdb, ttl: ttl, log: log}
}

func (c *Cache) Get(ctx context.Context, key string) ([]Listing, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.rdb.Get(ctx, cacheKeyPrefix+key).Result()
	if err != nil {
		return nil, false
	}
	var out []Listing
	if err := json.Unmarshal([]byte(val), &out); err != nil {
		return nil, false
	}
	return out, true
}

func (c *Cache) Set(ctx context.Context, key string, listings []Listing) {
	if c == nil {
		return
	}
	b, err := json.Marshal(listings)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKeyPrefix+key, b, c.ttl).Err(); err != nil {
		c.log.Warn("listing cache set failed", zap.Error(err))
	}
}

// Invalidate drops every cached directory view. Called after any write that
// changes a listing's status or denormalized fields.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	keys, err := c.rdb.Keys(ctx, cacheKeyPrefix+"*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("listing cache invalidate failed", zap.Error(err))
	}
}
