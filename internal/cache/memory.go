package cache

import (
	"context"
	"slices"
	"sync"
	"time"
)

// Entry is a single cached value.
type Entry struct {
	Key       string
	Value     []byte
	ExpiresAt time.Time
}

// expired reports whether the entry is stale at now. The freshness window is
// exclusive: an entry whose expiry equals now is already gone.
func (e Entry) expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// MemoryStore is an in-process Store. It is used when no cache server is
// configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (m *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	m.mu.Lock()
	m.now = now
	m.mu.Unlock()
	return m
}

// Get returns a copy of the value stored under key.
func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	now := m.now()
	m.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	if entry.expired(now) {
		m.mu.Lock()
		// Only drop it if nobody replaced it in the meantime.
		if current, still := m.entries[key]; still && current.expired(m.now()) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return nil, false, nil
	}
	return slices.Clone(entry.Value), true, nil
}

// Set stores a copy of value. A non-positive ttl stores nothing.
func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = Entry{
		Key:       key,
		Value:     slices.Clone(value),
		ExpiresAt: m.now().Add(ttl),
	}
	return nil
}

// Delete removes the given keys.
func (m *MemoryStore) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

// Sweep drops every expired entry and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for key, entry := range m.entries {
		if entry.expired(now) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of entries held, including expired ones not yet swept.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// StartJanitor sweeps expired entries every interval until ctx is done.
func (m *MemoryStore) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}
