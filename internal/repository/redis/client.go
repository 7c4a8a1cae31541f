package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/calbyte/sessiongraph/internal/config"
)

// Client is the shared Redis connection behind the narrative cache and
// the rate limiter. Everything Redis-backed in this service is optional,
// so construction fails fast and callers decide whether to run without.
type Client struct {
	rdb *redis.Client
}

// NewClient connects to Redis and pings it once.
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
