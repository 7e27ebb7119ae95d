package cache

import (
	"sync"
	"time"
)

// entry is a cached report value with its absolute expiry. Entries are
// replaced wholesale on re-fetch, never updated in place.
type entry struct {
	value     any
	expiresAt time.Time
}

// Store is a process-lifetime in-memory cache keyed by request shape.
// It is safe for concurrent use from arbitrarily many requests; the map is
// the only shared mutable state in the service.
//
// Expired entries are evicted lazily on the next read of the same key; there
// is no background sweep. That is fine for this key space, which is bounded
// by the distinct date ranges the dashboard actually requests.
//
// Concurrent misses for the same key are not coalesced: each caller fetches
// independently and the last writer wins.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry

	// now is the time source, swappable in tests.
	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock creates an empty store with a custom time source, so
// tests can drive entries past their expiry.
func NewStoreWithClock(now func() time.Time) *Store {
	return &Store{
		entries: make(map[string]entry),
		now:     now,
	}
}

// Get returns the value for key if present and not expired. An expired
// entry is deleted on the way out and reported as a miss.
func (s *Store) Get(key Key) (any, bool) {
	k := key.String()

	s.mu.RLock()
	e, ok := s.entries[k]
	s.mu.RUnlock()

	if !ok {
		cacheMisses.Inc()
		return nil, false
	}

	if s.now().After(e.expiresAt) {
		s.mu.Lock()
		// Re-check under the write lock: another request may have replaced
		// the entry with a fresh one in the meantime.
		if cur, ok := s.entries[k]; ok && s.now().After(cur.expiresAt) {
			delete(s.entries, k)
			cacheEvictions.Inc()
			cacheEntries.Set(float64(len(s.entries)))
		}
		s.mu.Unlock()
		cacheMisses.Inc()
		return nil, false
	}

	cacheHits.Inc()
	return e.value, true
}

// Set unconditionally overwrites any existing entry for key with value and
// a fresh expiry of now + ttl.
func (s *Store) Set(key Key, value any, ttl time.Duration) {
	k := key.String()

	s.mu.Lock()
	s.entries[k] = entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
	cacheEntries.Set(float64(len(s.entries)))
	s.mu.Unlock()
}

// Len reports the number of entries currently held, including any expired
// entries that have not been read since expiring.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
