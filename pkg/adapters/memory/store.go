package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/modfsm/pkg/domain"
)

// Store implements ports.AutomatonStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[int]*domain.Definition
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[int]*domain.Definition),
	}
}

// Save keeps a private copy of the definition.
func (s *Store) Save(ctx context.Context, modulus int, def *domain.Definition) error {
	copied := def.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[modulus] = copied
	return nil
}

// Load returns a copy so callers can't mutate the stored table by pointer.
func (s *Store) Load(ctx context.Context, modulus int) (*domain.Definition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	def, ok := s.data[modulus]
	if !ok {
		return nil, domain.ErrAutomatonNotFound
	}
	return def.Clone(), nil
}

// Delete removes the definition.
func (s *Store) Delete(ctx context.Context, modulus int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, modulus)
	return nil
}

// List returns the stored moduli.
func (s *Store) List(ctx context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	moduli := make([]int, 0, len(s.data))
	for m := range s.data {
		moduli = append(moduli, m)
	}
	sort.Ints(moduli)
	return moduli, nil
}
