package cache

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	entries map[Key]string
	mu      sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Key]string)}
}

func (s *MemoryStore) Get(ctx context.Context, key Key) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	text, ok := s.entries[key]
	return text, ok, nil
}

func (s *MemoryStore) Set(ctx context.Context, key Key, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = text
	return nil
}

func (s *MemoryStore) Flush(ctx context.Context, kind string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if kind == "" {
		s.entries = make(map[Key]string)
		return nil
	}

	for key := range s.entries {
		if key.Kind == kind {
			delete(s.entries, key)
		}
	}
	return nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *MemoryStore) Health() map[string]interface{} {
	return map[string]interface{}{
		"status":    "healthy",
		"type":      "memory",
		"key_count": s.Len(),
	}
}

func (s *MemoryStore) Close() error {
	return nil
}
