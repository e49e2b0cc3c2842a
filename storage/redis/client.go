package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is the subset of Redis commands the driver needs.
type Cache interface {
	Set(ctx context.Context, key string, value []byte, expiration time.Duration) error
	// Get returns false with a nil error when key does not exist.
	Get(ctx context.Context, key string) (bool, []byte, error)
	Delete(ctx context.Context, keys ...string) error
	// Keys returns the keys matching a glob style pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)
	Ping(ctx context.Context) error
}

type client struct {
	conn *Connection
}

// NewClient returns a Cache over the singleton connection, opening it when needed.
func NewClient(options Options) Cache {
	return &client{conn: OpenConnection(options)}
}

// NewConnectionClient returns a Cache over a dedicated connection.
func NewConnectionClient(conn *Connection) Cache {
	return &client{conn: conn}
}

var errNotOpen = fmt.Errorf("Redis connection is not open, can't use client")

func (c client) Ping(ctx context.Context) error {
	if c.conn == nil {
		return errNotOpen
	}
	return c.conn.Client.Ping(ctx).Err()
}

func (c client) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	if c.conn == nil {
		return errNotOpen
	}
	return c.conn.Client.Set(ctx, key, value, expiration).Err()
}

func (c client) Get(ctx context.Context, key string) (bool, []byte, error) {
	if c.conn == nil {
		return false, nil, errNotOpen
	}
	ba, err := c.conn.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil, nil
	}
	return err == nil, ba, err
}

func (c client) Delete(ctx context.Context, keys ...string) error {
	if c.conn == nil {
		return errNotOpen
	}
	return c.conn.Client.Del(ctx, keys...).Err()
}

// Keys walks the key space with SCAN rather than the blocking KEYS command.
func (c client) Keys(ctx context.Context, pattern string) ([]string, error) {
	if c.conn == nil {
		return nil, errNotOpen
	}
	var r []string
	iter := c.conn.Client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		r = append(r, iter.Val())
	}
	return r, iter.Err()
}
