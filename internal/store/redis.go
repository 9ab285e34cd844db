package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "eunoia:"

// RedisOptions locates the remote per-user document store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// Redis keeps each key as a string value in Redis.
type Redis struct {
	rdb *redis.Client
}

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(ctx context.Context, opts RedisOptions) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", opts.Addr, err)
	}
	return &Redis{rdb: rdb}, nil
}

// NewRedis wraps an existing client.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

// Get returns the value under key.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set overwrites the value under key with no expiry.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, redisKeyPrefix+key, value, 0).Err()
}

// Remove deletes key.
func (r *Redis) Remove(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, redisKeyPrefix+key).Err()
}

// Close closes the client.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
