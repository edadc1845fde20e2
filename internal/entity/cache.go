// Package entity caches server-of-record data from the upstream REST
// services, avoiding redundant round-trips for entities already fetched.
// Caches are explicitly constructed and injected; there are no module-level
// singletons and no TTLs. Staleness persists until an explicit replace.
package entity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/PharmInc/media-gateway/internal/cache"
)

// FetchFunc loads an entity from its service of record on a cache miss.
type FetchFunc[T any] func(ctx context.Context, key string) (T, error)

// Cache is a get-or-fetch mirror of one entity type keyed by id. Concurrent
// identical fetches are not deduplicated; a second caller issued before the
// first resolves triggers a second upstream call.
type Cache[T any] struct {
	kv     cache.KV
	prefix string
	fetch  FetchFunc[T]
}

// NewCache constructs a cache over the given KV backend.
func NewCache[T any](kv cache.KV, prefix string, fetch FetchFunc[T]) *Cache[T] {
	return &Cache[T]{kv: kv, prefix: prefix, fetch: fetch}
}

// GetOrFetch returns the cached value when present, otherwise fetches from
// the service of record and stores the result. A failed cache write does not
// fail the read.
func (c *Cache[T]) GetOrFetch(ctx context.Context, key string) (T, error) {
	var val T

	raw, err := c.kv.Get(ctx, c.key(key))
	if err == nil {
		if unmarshalErr := json.Unmarshal(raw, &val); unmarshalErr == nil {
			return val, nil
		}
		// corrupt entry: drop it and refetch
		_ = c.kv.Del(ctx, c.key(key))
	}

	val, err = c.fetch(ctx, key)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("fetch %s %q: %w", c.prefix, key, err)
	}

	if raw, marshalErr := json.Marshal(val); marshalErr == nil {
		_ = c.kv.Set(ctx, c.key(key), raw)
	}

	return val, nil
}

// Replace overwrites the cache entry, used after a mutating call to keep the
// cache consistent with the just-written value.
func (c *Cache[T]) Replace(ctx context.Context, key string, val T) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal %s %q: %w", c.prefix, key, err)
	}
	return c.kv.Set(ctx, c.key(key), raw)
}

// Invalidate removes the cache entry so the next read refetches.
func (c *Cache[T]) Invalidate(ctx context.Context, key string) error {
	return c.kv.Del(ctx, c.key(key))
}

func (c *Cache[T]) key(key string) string {
	return c.prefix + ":" + key
}

// Caches groups the per-entity caches the page layer reads through.
type Caches struct {
	Users         *Cache[User]
	Institutions  *Cache[Institution]
	Jobs          *Cache[[]Job]
	Notifications *Cache[[]Notification]
}

// NewCaches wires all entity caches over one KV backend and client set.
func NewCaches(kv cache.KV, clients *Clients) *Caches {
	return &Caches{
		Users:         NewCache(kv, "user", clients.GetUser),
		Institutions:  NewCache(kv, "institution", clients.GetInstitution),
		Jobs:          NewCache(kv, "jobs", clients.ListJobs),
		Notifications: NewCache(kv, "notifications", clients.ListNotifications),
	}
}
