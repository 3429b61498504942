package store

import (
	"context"
	"sync"
	"time"

	"github.com/easyseas/pointtracker/internal/domain"
)

// memoryItem is a stored value with an optional expiration
type memoryItem struct {
	Value      string
	Expiration time.Time // zero means never expires
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.Expiration.IsZero() && now.After(i.Expiration)
}

// MemoryStore is a thread-safe in-memory key-value store.
// A positive TTL expires entries; a janitor goroutine removes them until Close.
type MemoryStore struct {
	data  map[string]memoryItem
	mutex sync.RWMutex
	ttl   time.Duration

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates a new in-memory store.
// ttl <= 0 keeps entries until they are overwritten or deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		data: make(map[string]memoryItem),
		ttl:  ttl,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	if ttl > 0 {
		go s.cleanupExpired(janitorInterval(ttl))
	} else {
		close(s.done)
	}

	return s
}

// janitorInterval sweeps at most every 10 minutes, more often for short TTLs
func janitorInterval(ttl time.Duration) time.Duration {
	interval := 10 * time.Minute
	if ttl < interval {
		interval = ttl
	}
	return interval
}

// Get retrieves a value from the store
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.data[key]
	if !exists || item.expired(time.Now()) {
		return "", domain.ErrNotFound
	}

	return item.Value, nil
}

// Set stores a value, replacing any previous one
func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	item := memoryItem{Value: value}
	if s.ttl > 0 {
		item.Expiration = time.Now().Add(s.ttl)
	}
	s.data[key] = item

	return nil
}

// Delete removes a value from the store
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, key)
	return nil
}

// Close stops the janitor goroutine. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
	return nil
}

// cleanupExpired removes expired entries periodically
func (s *MemoryStore) cleanupExpired(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mutex.Lock()
			now := time.Now()
			for key, item := range s.data {
				if item.expired(now) {
					delete(s.data, key)
				}
			}
			s.mutex.Unlock()
		}
	}
}

// Size returns the current number of items in the store (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}
