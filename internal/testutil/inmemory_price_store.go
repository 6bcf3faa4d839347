package testutil

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/domain/price"
	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/types"
)

// InMemoryPriceStore implements price.Repository. Get expands the owning
// product, List leaves it as a bare id like the remote API does.
type InMemoryPriceStore struct {
	*InMemoryStore[*price.Price]
	ops      *operationLog
	products *InMemoryProductStore
}

func NewInMemoryPriceStore(ops *operationLog, products *InMemoryProductStore) *InMemoryPriceStore {
	return &InMemoryPriceStore{
		InMemoryStore: NewInMemoryStore[*price.Price](),
		ops:           ops,
		products:      products,
	}
}

func (s *InMemoryPriceStore) Seed(p *price.Price) *price.Price {
	stored := bare(p)
	if stored.ID == "" {
		stored.ID = s.ops.nextID("price")
	}
	_ = s.InMemoryStore.Create(context.Background(), stored.ID, stored)
	return stored.Clone()
}

func bare(p *price.Price) *price.Price {
	c := p.Clone()
	c.Product = nil
	return c
}

func (s *InMemoryPriceStore) expand(ctx context.Context, p *price.Price) *price.Price {
	c := p.Clone()
	if prod, err := s.products.InMemoryStore.Get(ctx, p.ProductID); err == nil {
		c.Product = prod.Clone()
	}
	return c
}

func (s *InMemoryPriceStore) Get(ctx context.Context, id string) (*price.Price, error) {
	if err := s.ops.call(OpPriceGet, id); err != nil {
		return nil, err
	}
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Price not found").
			Mark(ierr.ErrRemoteAPI)
	}
	return s.expand(ctx, p), nil
}

func (s *InMemoryPriceStore) List(ctx context.Context, filter *types.PriceFilter) (*types.ListResponse[*price.Price], error) {
	if filter == nil {
		filter = &types.PriceFilter{}
	}
	if err := s.ops.call(OpPriceList, filter.ProductID); err != nil {
		return nil, err
	}

	resp, err := s.InMemoryStore.List(ctx, filter.QueryFilter, func(p *price.Price) bool {
		return filter.ProductID == "" || p.ProductID == filter.ProductID
	})
	if err != nil {
		return nil, err
	}
	for i, p := range resp.Items {
		resp.Items[i] = p.Clone()
	}
	return resp, nil
}

func (s *InMemoryPriceStore) Create(ctx context.Context, p *price.Price) (*price.Price, error) {
	if p == nil {
		return nil, ierr.NewError("price cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.ops.call(OpPriceCreate, p.ProductID); err != nil {
		return nil, err
	}
	if _, err := s.products.InMemoryStore.Get(ctx, p.ProductID); err != nil {
		return nil, ierr.NewError("no such product").
			WithReportableDetails(map[string]interface{}{
				"product_id": p.ProductID,
			}).
			Mark(ierr.ErrRemoteAPI)
	}

	stored := bare(p)
	stored.ID = s.ops.nextID("price")
	if err := s.InMemoryStore.Create(ctx, stored.ID, stored); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

func (s *InMemoryPriceStore) Update(ctx context.Context, id string, req *price.UpdateRequest) (*price.Price, error) {
	if err := s.ops.call(OpPriceUpdate, id); err != nil {
		return nil, err
	}
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Price not found").
			Mark(ierr.ErrRemoteAPI)
	}

	updated := p.Clone()
	updated.Metadata = updated.Metadata.Merge(req.Metadata)
	if err := s.InMemoryStore.Update(ctx, id, updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}
