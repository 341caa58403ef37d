package cache

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"amlyspay/internal/kv"
)

// Ensure interface conformance
var (
	_ kv.Store       = (*Store)(nil)
	_ kv.Invalidator = (*Store)(nil)
)

type storeEntry struct {
	value string
	found bool
}

// Store is a read-through, write-through cache in front of a kv.Store.
// Concurrent misses on the same key share a single backend read.
type Store struct {
	next  kv.Store
	cache *LRUCache[storeEntry]
	group singleflight.Group
}

// NewStore wraps next with an LRU cache holding at most maxSize keys for ttl.
func NewStore(next kv.Store, maxSize int, ttl time.Duration) *Store {
	return &Store{
		next:  next,
		cache: NewLRUCache[storeEntry](maxSize, ttl),
	}
}

// Cleaner exposes the underlying cache so a Manager can expire entries.
func (s *Store) Cleaner() Cleaner {
	return s.cache
}

// Get serves key from the cache, loading it from the backend on a miss.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if e, ok := s.cache.Get(key); ok {
		return e.value, e.found, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		if e, ok := s.cache.Get(key); ok {
			return e, nil
		}
		value, found, err := s.next.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		e := storeEntry{value: value, found: found}
		s.cache.Set(key, e)
		return e, nil
	})
	if err != nil {
		return "", false, err
	}
	e := v.(storeEntry)
	return e.value, e.found, nil
}

// Invalidate forgets key so the next Get goes to the backend.
func (s *Store) Invalidate(key string) {
	s.group.Forget(key)
	s.cache.Delete(key)
}

// Set writes to the backend first and only caches the value once it is stored.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.next.Set(ctx, key, value); err != nil {
		s.cache.Delete(key)
		return err
	}
	s.cache.Set(key, storeEntry{value: value, found: true})
	return nil
}
