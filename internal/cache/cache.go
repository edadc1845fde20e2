// Package cache defines the byte-level key-value port backing the entity
// caches, with an in-memory default implementation.
package cache

import (
	"context"
	"errors"
	"sync"
)

// ErrMiss is returned when a key has no cached value.
var ErrMiss = errors.New("cache miss")

// KV is the minimal store contract shared by the memory and Redis backends.
// Entries have no TTL; staleness persists until an explicit overwrite or
// delete.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte) error
	Del(ctx context.Context, keys ...string) error
}

// Memory is a process-wide in-memory KV.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory constructs an empty in-memory KV.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	val, ok := m.entries[key]
	if !ok {
		return nil, ErrMiss
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *Memory) Set(_ context.Context, key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]byte, len(val))
	copy(stored, val)
	m.entries[key] = stored
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}
