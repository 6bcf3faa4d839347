package product

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/types"
)

// Repository is the product slice of the remote billing gateway for one
// account.
type Repository interface {
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter *types.ProductFilter) (*types.ListResponse[*Product], error)
	Create(ctx context.Context, p *Product) (*Product, error)
	Update(ctx context.Context, id string, req *UpdateRequest) (*Product, error)
}
