// ItemSim - Content-Based Item Similarity Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/itemsim

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores models in Redis, so several replicas can share one
// trained model.
type RedisBackend struct {
	client    *redis.Client
	keyPrefix string
}

// RedisOptions configures a RedisBackend.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisBackend connects to Redis and verifies the connection.
//
//nolint:gocritic // opts passed by value for simplicity
func NewRedisBackend(ctx context.Context, opts RedisOptions) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() //nolint:errcheck // ping error takes precedence
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	return &RedisBackend{client: client, keyPrefix: opts.KeyPrefix}, nil
}

// Name implements Backend.
func (r *RedisBackend) Name() string { return "redis" }

func (r *RedisBackend) key(k string) string {
	return r.keyPrefix + k
}

// Get implements Backend.
func (r *RedisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set implements Backend.
func (r *RedisBackend) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close implements Backend.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}
