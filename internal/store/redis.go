package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisMedium keeps values in Redis string keys
type RedisMedium struct {
	client *redis.Client
}

// NewRedisMedium wraps an existing Redis client
func NewRedisMedium(client *redis.Client) *RedisMedium {
	return &RedisMedium{client: client}
}

// DialRedis connects to the Redis server at addr and verifies it responds
func DialRedis(ctx context.Context, addr, password string, db int) (*RedisMedium, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}
	return NewRedisMedium(client), nil
}

// Read returns the value stored under key
func (m *RedisMedium) Read(ctx context.Context, key string) (string, bool, error) {
	value, err := m.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	return value, true, nil
}

// Write stores value under key without expiry
func (m *RedisMedium) Write(ctx context.Context, key, value string) error {
	if err := m.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s to redis: %w", key, err)
	}
	return nil
}

// Close closes the Redis client
func (m *RedisMedium) Close() error {
	return m.client.Close()
}
