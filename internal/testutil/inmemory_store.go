package testutil

import (
	"context"
	"sync"

	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/types"
)

// InMemoryStore keeps items in insertion order and pages through them the
// way the remote API does: a page holds up to limit items after the
// StartingAfter id.
type InMemoryStore[T types.Identifiable] struct {
	mu    sync.RWMutex
	items map[string]T
	order []string
}

func NewInMemoryStore[T types.Identifiable]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[string]T),
	}
}

func (s *InMemoryStore[T]) Create(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ierr.NewError("item already exists").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrValidation)
	}
	s.items[id] = item
	s.order = append(s.order, id)
	return nil
}

func (s *InMemoryStore[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		var zero T
		return zero, ierr.NewError("item not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	return item, nil
}

func (s *InMemoryStore[T]) Update(_ context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ierr.NewError("item not found").
			WithReportableDetails(map[string]interface{}{
				"id": id,
			}).
			Mark(ierr.ErrNotFound)
	}
	s.items[id] = item
	return nil
}

// List returns the page of items accepted by filterFn that follows the
// cursor in query. A nil filterFn accepts everything.
func (s *InMemoryStore[T]) List(_ context.Context, query *types.QueryFilter, filterFn func(T) bool) (*types.ListResponse[T], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matching := make([]T, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if filterFn == nil || filterFn(item) {
			matching = append(matching, item)
		}
	}

	start := 0
	if after := query.GetStartingAfter(); after != "" {
		start = len(matching)
		for i, item := range matching {
			if item.GetID() == after {
				start = i + 1
				break
			}
		}
	}

	end := start + query.GetLimit()
	if end > len(matching) {
		end = len(matching)
	}

	return &types.ListResponse[T]{
		Items:   append([]T(nil), matching[start:end]...),
		HasMore: end < len(matching),
	}, nil
}

// All returns every stored item in insertion order.
func (s *InMemoryStore[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]T, 0, len(s.order))
	for _, id := range s.order {
		all = append(all, s.items[id])
	}
	return all
}

func (s *InMemoryStore[T]) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
