// Package cache holds short-lived JSON payloads for upstream lookups (weather,
// market prices). Redis backs it in production; Memory is used when no Redis
// address is configured and in tests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// GetJSON decodes a cached value into dst. A miss or an undecodable entry
// both report false.
func GetJSON(ctx context.Context, c Cache, key string, dst any) bool {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok || len(raw) == 0 {
		return false
	}
	return json.Unmarshal(raw, dst) == nil
}

func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttl)
}

type Redis struct {
	Conn *redis.Client
}

func NewRedis(addr, password string, db int) *Redis {
	return &Redis{Conn: redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})}
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.Conn.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.Conn.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return r.Conn.Set(ctx, key, val, ttl).Err()
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.Conn.Del(ctx, keys...).Err()
}

func (r *Redis) Close() error {
	return r.Conn.Close()
}

// Memory is a process-local Cache backed by go-cache. Expired entries are
// hidden on read and removed by the cleanup sweep when one is running.
type Memory struct {
	items *gocache.Cache
}

// NewMemory returns a Memory without a background sweep.
func NewMemory() *Memory {
	return NewMemoryWithCleanup(0)
}

// NewMemoryWithCleanup starts a sweep every interval. A zero interval runs no
// goroutine.
func NewMemoryWithCleanup(interval time.Duration) *Memory {
	return &Memory{items: gocache.New(gocache.NoExpiration, interval)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	val, ok := v.([]byte)
	return val, ok, nil
}

func (m *Memory) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.items.Set(key, append([]byte(nil), val...), ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.items.Delete(k)
	}
	return nil
}
