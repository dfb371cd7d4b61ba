package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[T any] struct {
	value     T
	updatedAt time.Time
}

// MemoryStore is an in-process Store backed by a synchronized map with lazy
// TTL expiry. Concurrent webhook deliveries for the same phone go through
// the mutex, so reads never observe a torn write.
type MemoryStore[T any] struct {
	mu      sync.Mutex
	entries map[string]memoryEntry[T]
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore returns a MemoryStore with the standard session TTL.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{
		entries: make(map[string]memoryEntry[T]),
		ttl:     TTL,
		now:     time.Now,
	}
}

func (s *MemoryStore[T]) Get(_ context.Context, phone string) (T, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	entry, ok := s.entries[NormalizePhone(phone)]
	if !ok {
		return zero, false, nil
	}
	if s.now().Sub(entry.updatedAt) > s.ttl {
		delete(s.entries, NormalizePhone(phone))
		return zero, false, nil
	}
	return entry.value, true, nil
}

func (s *MemoryStore[T]) Set(_ context.Context, phone string, value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[NormalizePhone(phone)] = memoryEntry[T]{value: value, updatedAt: s.now()}
	return nil
}

func (s *MemoryStore[T]) Clear(_ context.Context, phone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, NormalizePhone(phone))
	return nil
}

func (s *MemoryStore[T]) HasActive(ctx context.Context, phone string) (bool, error) {
	_, ok, err := s.Get(ctx, phone)
	return ok, err
}
