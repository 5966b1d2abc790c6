// Package cache provides result caches: an in-process TTL map for single
// instances and a Redis cache for shared deployments. Both fail open — a
// cache problem costs a recomputation, never a request.
package cache

import (
	"context"
	"sync"
	"time"

	"ledgerlens/internal/domain/analysis"
)

// Memory is an in-process TTL cache for analysis results.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	result    *analysis.Result
	expiresAt time.Time
}

// NewMemory creates an empty in-process cache.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]memoryEntry)}
}

// Get returns a cached result if present and not expired.
func (m *Memory) Get(ctx context.Context, key string) (*analysis.Result, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, false
	}
	return entry.result, true
}

// Set stores a result for ttl. Expired siblings are swept opportunistically.
func (m *Memory) Set(ctx context.Context, key string, result *analysis.Result, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}
	m.entries[key] = memoryEntry{result: result, expiresAt: now.Add(ttl)}
}

// Len reports the number of live entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
