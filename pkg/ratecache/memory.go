package ratecache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryCache is an in-process Cache.
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	now  func() time.Time
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

// Get returns the value stored under key unless it is missing or expired.
// An expired entry is removed only if no Set replaced it in the meantime.
func (m *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return "", false
	}
	now := m.now()
	if !entry.expired(now) {
		return entry.value, true
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.data[key]
	if !ok {
		return "", false
	}
	if !current.expired(now) {
		return current.value, true
	}
	delete(m.data, key)
	return "", false
}

// Set stores value under key. A ttl of zero keeps the entry until replaced.
func (m *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.data[key] = entry
	m.mu.Unlock()
	return nil
}
