// Package redisx adapts a Redis client to the cache KV port, for deployments
// where entity caches must survive process restarts or be shared between
// gateway replicas.
package redisx

import (
	"context"
	"errors"

	"github.com/PharmInc/media-gateway/internal/cache"
	"github.com/redis/go-redis/v9"
)

// Config carries Redis connection details.
type Config struct {
	Addr     string
	DB       int
	Password string
}

// KV implements cache.KV on a Redis client.
type KV struct {
	rdb *redis.Client
}

// New constructs a Redis-backed KV.
func New(cfg Config) *KV {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	return &KV{rdb: rdb}
}

func (k *KV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := k.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, cache.ErrMiss
		}
		return nil, err
	}
	return val, nil
}

func (k *KV) Set(ctx context.Context, key string, val []byte) error {
	// no expiry: the entity caches define no TTL
	return k.rdb.Set(ctx, key, val, 0).Err()
}

func (k *KV) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return k.rdb.Del(ctx, keys...).Err()
}

// Ping verifies connectivity, used by the readiness endpoint.
func (k *KV) Ping(ctx context.Context) error {
	return k.rdb.Ping(ctx).Err()
}

// Close releases the underlying client.
func (k *KV) Close() error {
	return k.rdb.Close()
}
