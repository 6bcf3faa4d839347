package testutil

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/domain/product"
	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/types"
)

// InMemoryProductStore implements product.Repository
type InMemoryProductStore struct {
	*InMemoryStore[*product.Product]
	ops *operationLog
}

func NewInMemoryProductStore(ops *operationLog) *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*product.Product](),
		ops:           ops,
	}
}

// Seed stores p without counting a write and returns the stored copy.
func (s *InMemoryProductStore) Seed(p *product.Product) *product.Product {
	stored := p.Clone()
	if stored.ID == "" {
		stored.ID = s.ops.nextID("prod")
	}
	_ = s.InMemoryStore.Create(context.Background(), stored.ID, stored)
	return stored.Clone()
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	if err := s.ops.call(OpProductGet, id); err != nil {
		return nil, err
	}
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Product not found").
			Mark(ierr.ErrRemoteAPI)
	}
	return p.Clone(), nil
}

func (s *InMemoryProductStore) List(ctx context.Context, filter *types.ProductFilter) (*types.ListResponse[*product.Product], error) {
	if filter == nil {
		filter = &types.ProductFilter{}
	}
	if err := s.ops.call(OpProductList, ""); err != nil {
		return nil, err
	}

	resp, err := s.InMemoryStore.List(ctx, filter.QueryFilter, func(p *product.Product) bool {
		return filter.Active == nil || p.Active == *filter.Active
	})
	if err != nil {
		return nil, err
	}
	for i, p := range resp.Items {
		resp.Items[i] = p.Clone()
	}
	return resp, nil
}

func (s *InMemoryProductStore) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	if p == nil {
		return nil, ierr.NewError("product cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.ops.call(OpProductCreate, p.Name); err != nil {
		return nil, err
	}

	stored := p.Clone()
	stored.ID = s.ops.nextID("prod")
	if stored.Metadata == nil {
		stored.Metadata = types.Metadata{}
	}
	if err := s.InMemoryStore.Create(ctx, stored.ID, stored); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

// Update merges req.Metadata into the stored metadata.
func (s *InMemoryProductStore) Update(ctx context.Context, id string, req *product.UpdateRequest) (*product.Product, error) {
	if err := s.ops.call(OpProductUpdate, id); err != nil {
		return nil, err
	}
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Product not found").
			Mark(ierr.ErrRemoteAPI)
	}

	updated := p.Clone()
	updated.Metadata = updated.Metadata.Merge(req.Metadata)
	if err := s.InMemoryStore.Update(ctx, id, updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}
