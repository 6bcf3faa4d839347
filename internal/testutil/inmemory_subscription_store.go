package testutil

import (
	"context"
	"sync"

	"github.com/flexprice/stripe-migrate/internal/domain/subscription"
	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/samber/lo"
)

// InMemorySubscriptionStore implements subscription.Repository. Get expands
// customer, item prices and their products. List expands item prices only.
type InMemorySubscriptionStore struct {
	*InMemoryStore[*subscription.Subscription]
	ops       *operationLog
	prices    *InMemoryPriceStore
	customers *InMemoryCustomerStore

	mu             sync.Mutex
	createRequests []*subscription.CreateRequest
}

func NewInMemorySubscriptionStore(ops *operationLog, prices *InMemoryPriceStore, customers *InMemoryCustomerStore) *InMemorySubscriptionStore {
	return &InMemorySubscriptionStore{
		InMemoryStore: NewInMemoryStore[*subscription.Subscription](),
		ops:           ops,
		prices:        prices,
		customers:     customers,
	}
}

// stripped drops every expanded reference, which is how subscriptions are
// stored.
func stripped(sub *subscription.Subscription) *subscription.Subscription {
	c := sub.Clone()
	if c.Customer != nil && c.CustomerID == "" {
		c.CustomerID = c.Customer.ID
	}
	c.Customer = nil
	for _, item := range c.Items {
		if item.Price != nil && item.PriceID == "" {
			item.PriceID = item.Price.ID
		}
		item.Price = nil
	}
	return c
}

func (s *InMemorySubscriptionStore) Seed(sub *subscription.Subscription) *subscription.Subscription {
	stored := stripped(sub)
	if stored.ID == "" {
		stored.ID = s.ops.nextID("sub")
	}
	for _, item := range stored.Items {
		if item.ID == "" {
			item.ID = s.ops.nextID("si")
		}
	}
	_ = s.InMemoryStore.Create(context.Background(), stored.ID, stored)
	return stored.Clone()
}

// CreateRequests returns every create request received, in order.
func (s *InMemorySubscriptionStore) CreateRequests() []*subscription.CreateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*subscription.CreateRequest(nil), s.createRequests...)
}

func (s *InMemorySubscriptionStore) expand(ctx context.Context, sub *subscription.Subscription, withCustomer, withProducts bool) *subscription.Subscription {
	c := sub.Clone()
	if withCustomer {
		if cust, err := s.customers.InMemoryStore.Get(ctx, c.CustomerID); err == nil {
			c.Customer = copyCustomer(cust)
		}
	}
	for _, item := range c.Items {
		p, err := s.prices.InMemoryStore.Get(ctx, item.PriceID)
		if err != nil {
			continue
		}
		if withProducts {
			item.Price = s.prices.expand(ctx, p)
		} else {
			item.Price = p.Clone()
		}
	}
	return c
}

func (s *InMemorySubscriptionStore) Get(ctx context.Context, id string) (*subscription.Subscription, error) {
	if err := s.ops.call(OpSubscriptionGet, id); err != nil {
		return nil, err
	}
	sub, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Subscription not found").
			Mark(ierr.ErrRemoteAPI)
	}
	return s.expand(ctx, sub, true, true), nil
}

func (s *InMemorySubscriptionStore) List(ctx context.Context, filter *types.SubscriptionFilter) (*types.ListResponse[*subscription.Subscription], error) {
	if filter == nil {
		filter = &types.SubscriptionFilter{}
	}
	if err := s.ops.call(OpSubscriptionList, filter.CustomerID); err != nil {
		return nil, err
	}

	resp, err := s.InMemoryStore.List(ctx, filter.QueryFilter, func(sub *subscription.Subscription) bool {
		if filter.CustomerID != "" && sub.CustomerID != filter.CustomerID {
			return false
		}
		return filter.Status == "" || sub.Status == filter.Status
	})
	if err != nil {
		return nil, err
	}
	for i, sub := range resp.Items {
		resp.Items[i] = s.expand(ctx, sub, false, false)
	}
	return resp, nil
}

func (s *InMemorySubscriptionStore) Create(ctx context.Context, req *subscription.CreateRequest) (*subscription.Subscription, error) {
	if req == nil {
		return nil, ierr.NewError("subscription request cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := s.ops.call(OpSubscriptionCreate, req.CustomerID); err != nil {
		return nil, err
	}
	if _, err := s.customers.InMemoryStore.Get(ctx, req.CustomerID); err != nil {
		return nil, ierr.NewError("no such customer").
			WithReportableDetails(map[string]interface{}{
				"customer_id": req.CustomerID,
			}).
			Mark(ierr.ErrRemoteAPI)
	}
	for _, item := range req.Items {
		if _, err := s.prices.InMemoryStore.Get(ctx, item.PriceID); err != nil {
			return nil, ierr.NewError("no such price").
				WithReportableDetails(map[string]interface{}{
					"price_id": item.PriceID,
				}).
				Mark(ierr.ErrRemoteAPI)
		}
	}

	s.mu.Lock()
	s.createRequests = append(s.createRequests, req)
	s.mu.Unlock()

	stored := &subscription.Subscription{
		ID:                 s.ops.nextID("sub"),
		CustomerID:         req.CustomerID,
		Status:             types.SubscriptionStatusActive,
		CurrentPeriodStart: types.NowFunc(),
		CurrentPeriodEnd:   req.BillingCycleAnchor,
		Description:        lo.FromPtr(req.Description),
		Metadata:           req.Metadata.Clone(),
		Items: lo.Map(req.Items, func(item subscription.ItemRequest, _ int) *subscription.LineItem {
			return &subscription.LineItem{
				ID:       s.ops.nextID("si"),
				PriceID:  item.PriceID,
				Quantity: item.Quantity,
			}
		}),
	}
	if err := s.InMemoryStore.Create(ctx, stored.ID, stored); err != nil {
		return nil, err
	}
	return stored.Clone(), nil
}

func (s *InMemorySubscriptionStore) Update(ctx context.Context, id string, req *subscription.UpdateRequest) (*subscription.Subscription, error) {
	if err := s.ops.call(OpSubscriptionUpdate, id); err != nil {
		return nil, err
	}
	sub, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Subscription not found").
			Mark(ierr.ErrRemoteAPI)
	}

	updated := sub.Clone()
	if req.CancelAtPeriodEnd != nil {
		updated.CancelAtPeriodEnd = *req.CancelAtPeriodEnd
	}
	updated.Metadata = updated.Metadata.Merge(req.Metadata)
	if err := s.InMemoryStore.Update(ctx, id, updated); err != nil {
		return nil, err
	}
	return updated.Clone(), nil
}
