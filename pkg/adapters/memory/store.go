package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/aretw0/fsnt/pkg/domain"
	"github.com/aretw0/fsnt/pkg/fst"
	"github.com/aretw0/fsnt/pkg/schema"
	"github.com/cockroachdb/errors"
)

// Store implements ports.TransducerStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*schema.Document
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*schema.Document),
	}
}

// NewFromTransducers creates a store pre-populated with the given transducers.
// Handy for tests and for serving a fixed library.
func NewFromTransducers(named map[string]*fst.Transducer) (*Store, error) {
	s := NewStore()
	for name, t := range named {
		if err := s.Save(context.Background(), name, t); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Save persists the transducer in memory.
// The document form acts as the deep copy, the same as a serializing store would.
func (s *Store) Save(ctx context.Context, name string, t *fst.Transducer) error {
	if name == "" {
		return errors.New("transducer name is empty")
	}
	doc := schema.FromTransducer(t)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[name] = doc
	return nil
}

// Load retrieves a fresh transducer built from the stored document.
func (s *Store) Load(ctx context.Context, name string) (*fst.Transducer, error) {
	s.mu.RLock()
	doc, ok := s.data[name]
	s.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(domain.ErrTransducerNotFound, "%s", name)
	}
	return doc.Transducer()
}

// Delete removes the transducer from memory.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, name)
	return nil
}

// List returns all stored names in order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.data)), nil
}
