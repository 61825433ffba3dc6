// Package memory provides a thread-safe in-memory implementation of storage.TokenStore.
package memory

import (
	"fmt"
	"sync"

	"github.com/kmorse/paddlebot/storage"
)

// Store is a thread-safe in-memory implementation of storage.TokenStore.
// Suitable for testing and ephemeral sessions that should not outlive the
// process.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ storage.TokenStore = (*Store)(nil)

// NewStore creates a new empty in-memory Store.
func NewStore() *Store {
	return &Store{data: make(map[string]string)}
}

func (s *Store) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return "", fmt.Errorf("%s: %w", key, storage.ErrNotFound)
	}
	return value, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) Delete(keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}
