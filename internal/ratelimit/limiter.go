// Package ratelimit throttles write requests per caller.
package ratelimit

import (
	"time"

	redis "github.com/redis/go-redis/v9"
	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	limiterredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

const storePrefix = "ratelimit"

// NewRedisLimiter builds a fixed-window limiter shared across instances through Redis.
func NewRedisLimiter(client *redis.Client, limit int64, period time.Duration) (*limiter.Limiter, error) {
	store, err := limiterredis.NewStoreWithOptions(client, limiter.StoreOptions{Prefix: storePrefix})
	if err != nil {
		return nil, err
	}
	return limiter.New(store, limiter.Rate{Period: period, Limit: limit}), nil
}

// NewMemoryLimiter builds a process-local limiter.
func NewMemoryLimiter(limit int64, period time.Duration) *limiter.Limiter {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{Prefix: storePrefix, CleanUpInterval: time.Minute})
	return limiter.New(store, limiter.Rate{Period: period, Limit: limit})
}
