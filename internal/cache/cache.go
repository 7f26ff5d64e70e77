// Package cache stores serialized assessment results keyed by request digest.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jonathan/skill-passport/internal/logger"
)

// ErrMiss is returned by Get when the key is absent.
var ErrMiss = errors.New("cache miss")

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Close() error
}

// Noop never stores anything. Used when no Redis address is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error) { return nil, ErrMiss }

func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (Noop) Close() error { return nil }

// Redis is a Cache backed by a Redis server.
type Redis struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

// NewRedis connects to addr and verifies the connection with a ping.
func NewRedis(ctx context.Context, log *logger.Logger, addr, prefix string) (*Redis, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Redis{
		log:    log.With("service", "RedisCache"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

// Get returns the stored value or ErrMiss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.rdb.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Set stores value under key for ttl.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.rdb.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
