package price

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/types"
)

// Repository is the price slice of the remote billing gateway for one account.
type Repository interface {
	// Get returns the price with its owning product expanded.
	Get(ctx context.Context, id string) (*Price, error)
	List(ctx context.Context, filter *types.PriceFilter) (*types.ListResponse[*Price], error)
	Create(ctx context.Context, p *Price) (*Price, error)
	Update(ctx context.Context, id string, req *UpdateRequest) (*Price, error)
}
