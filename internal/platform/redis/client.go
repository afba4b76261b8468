package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client wraps the go-redis client with health checking capabilities.
type Client struct {
	*redis.Client
}

// ErrNotConfigured is returned when no connection URL is supplied. Callers
// decide whether an unconfigured Redis is an error for them.
var ErrNotConfigured = errors.New("redis: no URL configured")

// New creates a Redis client from a connection URL.
func New(ctx context.Context, url string) (*Client, error) {
	if url == "" {
		return nil, ErrNotConfigured
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health checks if the Redis connection is healthy.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}
