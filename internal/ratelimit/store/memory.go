package store

import (
	"context"
	"sync"
	"time"
)

// entry represents a stored counter with expiration.
type entry struct {
	value      int64
	expiration time.Time
}

// MemoryStore implements Store using in-memory storage. It is used in tests
// and single-process deployments that opt into the distributed limiter shape.
type MemoryStore struct {
	mu     sync.Mutex
	data   map[string]*entry
	done   chan struct{}
	closed bool
}

// NewMemoryStore creates a new in-memory store with a background sweep.
func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWithCleanupInterval(time.Minute)
}

// NewMemoryStoreWithCleanupInterval creates a new in-memory store with a
// custom sweep interval.
func NewMemoryStoreWithCleanupInterval(interval time.Duration) *MemoryStore {
	s := &MemoryStore{
		data: make(map[string]*entry),
		done: make(chan struct{}),
	}

	go s.sweep(interval)

	return s
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, key string) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[key]
	if !ok {
		return 0, &ErrKeyNotFound{Key: key}
	}

	if !e.expiration.IsZero() && time.Now().After(e.expiration) {
		delete(s.data, key)
		return 0, &ErrKeyNotFound{Key: key}
	}

	return e.value, nil
}

// IncrementWithExpiry implements Store.
func (s *MemoryStore) IncrementWithExpiry(ctx context.Context, key string, delta int64, expiration time.Duration) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	e, ok := s.data[key]
	if ok && !e.expiration.IsZero() && now.After(e.expiration) {
		ok = false
	}

	if !ok {
		e = &entry{value: delta}
		if expiration > 0 {
			e.expiration = now.Add(expiration)
		}
		s.data[key] = e
		return e.value, nil
	}

	e.value += delta
	return e.value, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	return nil
}

// sweep periodically removes expired entries.
func (s *MemoryStore) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, e := range s.data {
				if !e.expiration.IsZero() && now.After(e.expiration) {
					delete(s.data, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
