package subscription

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/types"
)

// Repository is the subscription slice of the remote billing gateway for one
// account.
type Repository interface {
	// Get returns the subscription with customer, items, prices and products
	// expanded.
	Get(ctx context.Context, id string) (*Subscription, error)
	// List returns subscriptions with item prices expanded; products may be
	// bare ids.
	List(ctx context.Context, filter *types.SubscriptionFilter) (*types.ListResponse[*Subscription], error)
	Create(ctx context.Context, req *CreateRequest) (*Subscription, error)
	Update(ctx context.Context, id string, req *UpdateRequest) (*Subscription, error)
}
