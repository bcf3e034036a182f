package storage

import (
	"context"
	"sync"
)

// MemoryStorage keeps slots in a map. It is lost when the process exits.
type MemoryStorage struct {
	mu    sync.RWMutex
	slots map[string]string
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		slots: make(map[string]string),
	}
}

// Get returns the value of key and whether it is present.
func (s *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.slots[key]

	return value, ok, nil
}

// Set stores value under key.
func (s *MemoryStorage) Set(_ context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	s.slots[key] = value
	s.mu.Unlock()

	return nil
}

// Remove deletes key.
func (s *MemoryStorage) Remove(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	delete(s.slots, key)
	s.mu.Unlock()

	return nil
}
