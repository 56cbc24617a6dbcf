// Package store implements ports.ObjectStore backends.
package store

import (
	"context"
	"slices"
	"sync"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/zerr"
)

// MemoryStore implements ports.ObjectStore in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[domain.Ref][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[domain.Ref][]byte)}
}

// Put stores a copy of data under ref.
func (s *MemoryStore) Put(_ context.Context, ref domain.Ref, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[ref] = slices.Clone(data)
	return nil
}

// Get returns a copy of the data stored under ref.
func (s *MemoryStore) Get(_ context.Context, ref domain.Ref) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[ref]
	if !ok {
		return nil, zerr.With(zerr.Wrap(domain.ErrObjectNotFound, "memory store"), "ref", ref.String())
	}
	return slices.Clone(data), nil
}

// Has reports whether ref is stored.
func (s *MemoryStore) Has(_ context.Context, ref domain.Ref) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[ref]
	return ok, nil
}

// Delete removes ref.
func (s *MemoryStore) Delete(_ context.Context, ref domain.Ref) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, ref)
	return nil
}

// List returns every stored ref, sorted.
func (s *MemoryStore) List(_ context.Context) ([]domain.Ref, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	refs := make([]domain.Ref, 0, len(s.objects))
	for ref := range s.objects {
		refs = append(refs, ref)
	}
	slices.Sort(refs)
	return refs, nil
}
