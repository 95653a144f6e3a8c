package remote

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// listCache is an optional Redis read cache for the four remote list
// endpoints. It stores the raw JSON body the backend returned, so a cache
// hit decodes exactly like a fresh response. The dashboard fetches all four
// collections on every refresh, so even a short TTL takes real load off the
// shared backend. Everything here is best-effort: a cache failure never
// fails the remote call.
type listCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func newListCache(rdb *redis.Client, ttl time.Duration) *listCache {
	if rdb == nil || ttl <= 0 {
		return nil
	}
	return &listCache{rdb: rdb, ttl: ttl}
}

// get returns the cached response body, or nil on miss.
func (c *listCache) get(ctx context.Context, key string) []byte {
	if c == nil {
		return nil
	}
	b, err := c.rdb.Get(ctx, "cache:"+key).Bytes()
	if err != nil {
		return nil
	}
	return b
}

// set stores a response body, best effort. Errors are only logged.
func (c *listCache) set(ctx context.Context, key string, body []byte) {
	if c == nil {
		return
	}
	if err := c.rdb.Set(ctx, "cache:"+key, body, c.ttl).Err(); err != nil {
		log.Warn().Str("key", key).Err(err).Msg("cache: no se pudo guardar")
	}
}

// invalidar drops cached listings after a write to their resource.
func (c *listCache) invalidar(ctx context.Context, keys ...string) {
	if c == nil {
		return
	}
	for _, k := range keys {
		_ = c.rdb.Del(ctx, "cache:"+k).Err()
	}
}
