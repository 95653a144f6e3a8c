package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis connects the optional listing cache. The panel runs fine without
// it; callers treat a connection error as "no cache", not as fatal.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Fail here rather than on the first cached listing
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
