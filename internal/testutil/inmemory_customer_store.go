package testutil

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/domain/customer"
	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/types"
)

// InMemoryCustomerStore implements customer.Repository
type InMemoryCustomerStore struct {
	*InMemoryStore[*customer.Customer]
	ops *operationLog
}

func NewInMemoryCustomerStore(ops *operationLog) *InMemoryCustomerStore {
	return &InMemoryCustomerStore{
		InMemoryStore: NewInMemoryStore[*customer.Customer](),
		ops:           ops,
	}
}

func copyCustomer(c *customer.Customer) *customer.Customer {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

func (s *InMemoryCustomerStore) Seed(c *customer.Customer) *customer.Customer {
	stored := copyCustomer(c)
	if stored.ID == "" {
		stored.ID = s.ops.nextID("cus")
	}
	_ = s.InMemoryStore.Create(context.Background(), stored.ID, stored)
	return copyCustomer(stored)
}

func (s *InMemoryCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	if err := s.ops.call(OpCustomerGet, id); err != nil {
		return nil, err
	}
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Customer not found").
			Mark(ierr.ErrRemoteAPI)
	}
	return copyCustomer(c), nil
}

func (s *InMemoryCustomerStore) List(ctx context.Context, filter *types.CustomerFilter) (*types.ListResponse[*customer.Customer], error) {
	if filter == nil {
		filter = &types.CustomerFilter{}
	}
	if err := s.ops.call(OpCustomerList, filter.Email); err != nil {
		return nil, err
	}

	resp, err := s.InMemoryStore.List(ctx, filter.QueryFilter, func(c *customer.Customer) bool {
		return filter.Email == "" || c.Email == filter.Email
	})
	if err != nil {
		return nil, err
	}
	for i, c := range resp.Items {
		resp.Items[i] = copyCustomer(c)
	}
	return resp, nil
}
