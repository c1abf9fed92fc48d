package cache

import (
	"context"
	"sync"
	"time"
)

// Package cache holds small TTL'd key stores used by the auth layer. The
// store is injected rather than kept as module-level state so its lifecycle
// is visible and swappable in tests.

// TokenBlacklist records revoked access tokens until they would have expired
// anyway.
type TokenBlacklist interface {
	// Contains reports whether the key is currently blacklisted.
	Contains(ctx context.Context, key string) (bool, error)
	// Add blacklists the key for the given TTL.
	Add(ctx context.Context, key string, ttl time.Duration) error
}

// memoryBlacklist is the in-process fallback used when Redis is not
// configured. Entries are pruned lazily on lookup.
type memoryBlacklist struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

// NewMemoryBlacklist creates an in-process TokenBlacklist.
func NewMemoryBlacklist() TokenBlacklist {
	return &memoryBlacklist{
		entries: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (b *memoryBlacklist) Contains(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	exp, ok := b.entries[key]
	if !ok {
		return false, nil
	}
	if b.now().After(exp) {
		delete(b.entries, key)
		return false, nil
	}
	return true, nil
}

func (b *memoryBlacklist) Add(_ context.Context, key string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = b.now().Add(ttl)
	return nil
}
