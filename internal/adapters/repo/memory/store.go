// Package memory keeps the back-office collections in process memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/phenrril/backoffice/internal/domain"
	"github.com/phenrril/backoffice/internal/ids"
)

// hooks adapts the generic store to one entity type.
type hooks[T domain.Entity] struct {
	clone func(T) T
	setID func(*T, string)
	// stamp runs before a record is written; created is true on Create.
	stamp func(v *T, created bool)
}

type Store[T domain.Entity] struct {
	mu    sync.RWMutex
	items []T
	ids   ids.Generator
	h     hooks[T]
}

func newStore[T domain.Entity](gen ids.Generator, h hooks[T], seed []T) *Store[T] {
	s := &Store[T]{ids: gen, h: h}
	for _, v := range seed {
		s.items = append(s.items, h.clone(v))
	}
	return s
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	for i, v := range s.items {
		out[i] = s.h.clone(v)
	}
	return out, nil
}

func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		var zero T
		return zero, fmt.Errorf("%s: %w", id, domain.ErrNotFound)
	}
	return s.h.clone(s.items[i]), nil
}

// Create appends v, issuing an id when it has none.
func (s *Store[T]) Create(ctx context.Context, v T) (T, error) {
	v = s.h.clone(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.Key() == "" {
		s.h.setID(&v, s.ids.New())
	} else if s.indexOf(v.Key()) >= 0 {
		var zero T
		return zero, fmt.Errorf("%s: %w", v.Key(), domain.ErrConflict)
	}
	if s.h.stamp != nil {
		s.h.stamp(&v, true)
	}
	s.items = append(s.items, v)
	return s.h.clone(v), nil
}

// Update replaces the record with the same id in place.
func (s *Store[T]) Update(ctx context.Context, v T) (T, error) {
	v = s.h.clone(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(v.Key())
	if i < 0 {
		var zero T
		return zero, fmt.Errorf("%s: %w", v.Key(), domain.ErrNotFound)
	}
	if s.h.stamp != nil {
		s.h.stamp(&v, false)
	}
	s.items[i] = v
	return s.h.clone(v), nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%s: %w", id, domain.ErrNotFound)
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return nil
}

func (s *Store[T]) indexOf(id string) int {
	for i, v := range s.items {
		if v.Key() == id {
			return i
		}
	}
	return -1
}
