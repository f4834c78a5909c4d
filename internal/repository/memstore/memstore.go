// Package memstore is a process-local SlotRepository. Nothing survives a restart.
package memstore

import (
	"context"
	"sync"

	"psrental-backend/internal/repository"
)

type Store struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

var _ repository.SlotRepository = (*Store)(nil)

func New() *Store {
	return &Store{slots: make(map[string][]byte)}
}

func (s *Store) LoadSlots(_ context.Context, keys []string) (map[string][]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]byte, len(keys))
	for _, k := range keys {
		if v, ok := s.slots[k]; ok {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (s *Store) SaveSlots(_ context.Context, slots map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range slots {
		s.slots[k] = append([]byte(nil), v...)
	}
	return nil
}

// Put seeds a raw slot value.
func (s *Store) Put(key string, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = value
}

// Get returns the raw value of a slot.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.slots[key]
	return v, ok
}

func (s *Store) Close() error {
	return nil
}
