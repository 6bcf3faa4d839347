package stripe

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/domain/customer"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/stripe/stripe-go/v82"
)

type customerRepository struct {
	client *Client
}

func NewCustomerRepository(client *Client) customer.Repository {
	return &customerRepository{client: client}
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	c, err := r.client.sc.V1Customers.Retrieve(ctx, id, &stripe.CustomerRetrieveParams{})
	if err != nil {
		return nil, remoteError(err, "Could not retrieve customer from Stripe", map[string]interface{}{
			"account":     r.client.role.String(),
			"customer_id": id,
		})
	}
	return toCustomer(c), nil
}

func (r *customerRepository) List(ctx context.Context, filter *types.CustomerFilter) (*types.ListResponse[*customer.Customer], error) {
	if filter == nil {
		filter = &types.CustomerFilter{}
	}
	params := &stripe.CustomerListParams{
		ListParams: listParams(filter.QueryFilter),
	}
	if filter.Email != "" {
		params.Email = stripe.String(filter.Email)
	}

	resp, err := collectPage(r.client.sc.V1Customers.List(ctx, params), filter.QueryFilter.GetLimit(), toCustomer)
	if err != nil {
		return nil, remoteError(err, "Could not list customers from Stripe", map[string]interface{}{
			"account": r.client.role.String(),
			"email":   filter.Email,
		})
	}
	return resp, nil
}
