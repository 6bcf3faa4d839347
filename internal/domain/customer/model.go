package customer

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/types"
)

// Customer is read only here. Email is the cross-account matching key.
type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

func (c *Customer) GetID() string {
	return c.ID
}

// Repository is the customer slice of the remote billing gateway. Customers
// are never created by the migration.
type Repository interface {
	Get(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, filter *types.CustomerFilter) (*types.ListResponse[*Customer], error)
}
