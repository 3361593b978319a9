package cache

import (
	"context"
	"sync"
	"time"

	"jobprep-backend/resume/model"
)

// DefaultMaxEntries bounds a Memory cache built with NewMemory.
const DefaultMaxEntries = 1000

type memoryEntry struct {
	result    model.AnalysisResult
	expiresAt time.Time
}

// Memory is an in-process cache with a fixed TTL and a bounded number of
// entries. Expired entries are swept on Set; when the cache is full the entry
// closest to expiry is evicted.
type Memory struct {
	mu         sync.RWMutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]memoryEntry
	lastSweep  time.Time
	now        func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return NewMemoryWithLimit(ttl, DefaultMaxEntries)
}

// NewMemoryWithLimit builds a Memory cache holding at most maxEntries results.
func NewMemoryWithLimit(ttl time.Duration, maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Memory{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]memoryEntry),
		now:        time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (model.AnalysisResult, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return model.AnalysisResult{}, false, nil
	}
	if m.expired(entry, m.now()) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return model.AnalysisResult{}, false, nil
	}
	return entry.result, true, nil
}

func (m *Memory) Set(_ context.Context, key string, result model.AnalysisResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.entries[key]; !exists {
		if now.Sub(m.lastSweep) >= m.sweepInterval() || len(m.entries) >= m.maxEntries {
			m.sweepLocked(now)
		}
		if len(m.entries) >= m.maxEntries {
			m.evictLocked()
		}
	}
	m.entries[key] = memoryEntry{result: result, expiresAt: now.Add(m.ttl)}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Memory) expired(e memoryEntry, now time.Time) bool {
	return m.ttl > 0 && now.After(e.expiresAt)
}

func (m *Memory) sweepInterval() time.Duration {
	if m.ttl > 0 && m.ttl < time.Minute {
		return m.ttl
	}
	return time.Minute
}

// sweepLocked must be called with mu held.
func (m *Memory) sweepLocked(now time.Time) {
	for k, e := range m.entries {
		if m.expired(e, now) {
			delete(m.entries, k)
		}
	}
	m.lastSweep = now
}

// evictLocked drops the entry closest to expiry. mu must be held.
func (m *Memory) evictLocked() {
	var (
		victim string
		oldest time.Time
		found  bool
	)
	for k, e := range m.entries {
		if !found || e.expiresAt.Before(oldest) {
			victim, oldest, found = k, e.expiresAt, true
		}
	}
	if found {
		delete(m.entries, victim)
	}
}
