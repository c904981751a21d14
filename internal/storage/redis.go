// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisStore keeps keys in Redis under a fixed prefix.
type redisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func newRedisStore(client *redis.Client, prefix string, ttl time.Duration) *redisStore {
	return &redisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *redisStore) key(k string) string {
	return s.prefix + k
}

// Get implements Store.
func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %q: %w", key, err)
	}

	// Sliding expiry, refreshed on read.
	if s.ttl > 0 {
		_ = s.client.Expire(ctx, s.key(key), s.ttl).Err()
	}
	return val, true, nil
}

// Set implements Store.
func (s *redisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Remove implements Store.
func (s *redisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis remove %q: %w", key, err)
	}
	return nil
}

// Close implements Store.
func (s *redisStore) Close() error {
	return s.client.Close()
}
