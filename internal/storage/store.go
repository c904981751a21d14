// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionKey is the well-known key holding the backend session identifier.
const SessionKey = "chat_session_id"

// Driver names a storage backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
	DriverRedis  Driver = "redis"
)

// Drivers lists every supported driver name.
var Drivers = []Driver{DriverMemory, DriverFile, DriverSQLite, DriverRedis}

var (
	// ErrInvalidDriver indicates an unknown driver name.
	ErrInvalidDriver = errors.New("invalid storage driver")

	// ErrInvalidConfig indicates the options are insufficient for the driver.
	ErrInvalidConfig = errors.New("invalid storage configuration")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = errors.New("storage closed")
)

// Store is a string key/value store.
type Store interface {
	// Get returns the value for key. ok is false when the key is absent;
	// absence is not an error.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// =============================================================================
// OPTIONS
// =============================================================================

type storeConfig struct {
	path        string
	redisClient *redis.Client
	redisURL    string
	redisPrefix string
	redisTTL    time.Duration
}

// Option configures NewStore.
type Option func(*storeConfig)

// WithPath sets the file or database path for the file and sqlite drivers.
func WithPath(path string) Option {
	return func(c *storeConfig) {
		c.path = path
	}
}

// WithRedisClient supplies an existing Redis client. The store takes
// ownership and closes it on Close.
func WithRedisClient(client *redis.Client) Option {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisURL configures the Redis driver from a redis:// URL.
func WithRedisURL(url string) Option {
	return func(c *storeConfig) {
		c.redisURL = url
	}
}

// WithRedisPrefix overrides the key prefix (default "chatterm:kv:").
func WithRedisPrefix(prefix string) Option {
	return func(c *storeConfig) {
		c.redisPrefix = prefix
	}
}

// WithRedisTTL expires Redis keys after ttl. Zero keeps keys forever.
func WithRedisTTL(ttl time.Duration) Option {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}

// =============================================================================
// FACTORY
// =============================================================================

// ParseDriver converts a config string into a Driver.
func ParseDriver(s string) (Driver, error) {
	d := Driver(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Drivers {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDriver, s)
}

// NewStore opens a Store for the given driver.
func NewStore(driver Driver, opts ...Option) (Store, error) {
	cfg := &storeConfig{redisPrefix: "chatterm:kv:"}
	for _, opt := range opts {
		opt(cfg)
	}

	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil

	case DriverFile:
		if cfg.path == "" {
			return nil, fmt.Errorf("%w: file driver requires a path", ErrInvalidConfig)
		}
		return newFileStore(cfg.path)

	case DriverSQLite:
		if cfg.path == "" {
			return nil, fmt.Errorf("%w: sqlite driver requires a path", ErrInvalidConfig)
		}
		return newSQLiteStore(cfg.path)

	case DriverRedis:
		client := cfg.redisClient
		if client == nil {
			if cfg.redisURL == "" {
				return nil, fmt.Errorf("%w: redis driver requires a client or URL", ErrInvalidConfig)
			}
			redisOpts, err := redis.ParseURL(cfg.redisURL)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
			}
			client = redis.NewClient(redisOpts)
		}
		return newRedisStore(client, cfg.redisPrefix, cfg.redisTTL), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDriver, driver)
	}
}
