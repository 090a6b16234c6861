// Package redisx provides the shared Redis client used for session storage,
// account identity links, and the price cache.
package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/demirdoven/fluxa-analytics-service/internal/config"
)

// Client is an alias for a Redis client
type Client = redis.Client

// Open creates a new Redis client and verifies connectivity.
func Open(cfg config.Redis) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}
