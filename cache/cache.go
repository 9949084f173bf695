// Package cache provides the key-value store used to memoize dashboard reads.
// Admin mutations and validation side effects clear entries so displayed
// state never lags behind storage.
package cache

import (
	"sync"
	"time"
)

// Store is the cache abstraction injected into handlers and services.
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
	Delete(key string)
	Clear()
	Close()
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

// MemoryStore is an in-process TTL cache with a background janitor.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  map[string]entry
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a store and starts its janitor.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		entries:  make(map[string]entry),
		stopChan: make(chan struct{}),
	}

	go s.cleanup()

	return s
}

// Get returns the cached value if present and unexpired.
func (s *MemoryStore) Get(key string) (interface{}, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl.
func (s *MemoryStore) Set(key string, value interface{}, ttl time.Duration) {
	if ttl <= 0 {
		ttl = time.Hour
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
}

// Delete removes a single entry.
func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Clear removes every entry.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// Close stops the janitor.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
	})
}

func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopChan:
			return
		}
	}
}
