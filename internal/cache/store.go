package cache

import (
	"context"
	"sync"
	"time"
)

// Store holds serialized values with a per-entry expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

const maxEntries = 4096

// MemoryStore is a process-local Store. Expired entries are swept on every
// Set and the store never holds more than maxEntries values.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

type entry struct {
	value   []byte
	expires time.Time
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the value for key if it has not expired.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	now := s.now()

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.After(now) {
		s.mu.Lock()
		if current, still := s.entries[key]; still && !current.expires.After(now) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.value, true, nil
}

// Set stores value until now+ttl. A non-positive ttl is ignored.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweepLocked(now)
	if _, exists := s.entries[key]; !exists && len(s.entries) >= maxEntries {
		s.evictSoonestLocked()
	}
	s.entries[key] = entry{value: value, expires: now.Add(ttl)}
	return nil
}

// Len reports the number of stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) sweepLocked(now time.Time) {
	for key, e := range s.entries {
		if !e.expires.After(now) {
			delete(s.entries, key)
		}
	}
}

func (s *MemoryStore) evictSoonestLocked() {
	var victim string
	var soonest time.Time
	for key, e := range s.entries {
		if victim == "" || e.expires.Before(soonest) {
			victim, soonest = key, e.expires
		}
	}
	delete(s.entries, victim)
}
