package inmem

import (
	"context"
	"fmt"

	"github.com/dekarrin/rowjam"
	"github.com/dekarrin/rowjam/internal/rowsort"
	"github.com/google/uuid"
)

// The CRUD operations below take a context.Context for interface parity with
// the sqlite store, but nothing in an in-memory store blocks long enough to
// honor cancellation.

// Create marshals the entity to a row and stores it under a freshly generated
// ID, which is returned.
func (s *Store) Create(ctx context.Context, ent rowjam.Entity) (string, error) {
	if ent == nil {
		return "", fmt.Errorf("%w: entity cannot be nil", rowjam.ErrBadArgument)
	}

	newUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("could not generate ID: %w", err)
	}
	id := newUUID.String()

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return "", fmt.Errorf("operation called on closed *Store")
	}
	if s.rows == nil {
		s.rows = map[string]rowjam.Row{}
	}

	s.rows[id] = s.Mapper.ToRow(ent, s.Spec)
	return id, nil
}

// Get unmarshals the row stored under the given ID into an entity constructed
// from proto.
func (s *Store) Get(ctx context.Context, id string, proto rowjam.Entity) (rowjam.Entity, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("operation called on closed *Store")
	}

	row, ok := s.rows[id]
	if !ok {
		return nil, rowjam.ErrNotFound
	}

	return s.Mapper.FromRow(proto, row, s.Spec), nil
}

// GetAll unmarshals every stored row, ordered by ID.
func (s *Store) GetAll(ctx context.Context, proto rowjam.Entity) ([]rowjam.Entity, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	if s.closed {
		return nil, fmt.Errorf("operation called on closed *Store")
	}

	ids := make([]string, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	ids = rowsort.By(ids, func(l, r string) bool {
		return l < r
	})

	all := make([]rowjam.Entity, len(ids))
	for i, id := range ids {
		all[i] = s.Mapper.FromRow(proto, s.rows[id], s.Spec)
	}

	return all, nil
}

// Update re-marshals the entity and replaces the row stored under the given
// ID with it.
func (s *Store) Update(ctx context.Context, id string, ent rowjam.Entity) error {
	if ent == nil {
		return fmt.Errorf("%w: entity cannot be nil", rowjam.ErrBadArgument)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return fmt.Errorf("operation called on closed *Store")
	}

	if _, ok := s.rows[id]; !ok {
		return rowjam.ErrNotFound
	}

	s.rows[id] = s.Mapper.ToRow(ent, s.Spec)
	return nil
}

// Delete removes the row stored under the given ID, returning the entity that
// was stored there.
func (s *Store) Delete(ctx context.Context, id string, proto rowjam.Entity) (rowjam.Entity, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.closed {
		return nil, fmt.Errorf("operation called on closed *Store")
	}

	row, ok := s.rows[id]
	if !ok {
		return nil, rowjam.ErrNotFound
	}

	delete(s.rows, id)
	return s.Mapper.FromRow(proto, row, s.Spec), nil
}
