package memkv

// Package memkv is the in-memory KV backing used in development and tests.

import (
	"context"
	"sync"

	"github.com/driftline/driftline/internal/ports"
)

// Store is a mutex-guarded map implementing ports.KV. Multi-key writes are
// atomic with respect to concurrent readers.
type Store struct {
	mu   sync.RWMutex
	data map[string]string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

var _ ports.KV = (*Store)(nil)

func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", ports.ErrKeyNotFound
	}
	return v, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *Store) SetMulti(_ context.Context, pairs map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range pairs {
		s.data[k] = v
	}
	return nil
}

func (s *Store) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

// Len reports the number of stored keys. Test helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
