package stripe

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/domain/price"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/stripe/stripe-go/v82"
)

type priceRepository struct {
	client *Client
}

func NewPriceRepository(client *Client) price.Repository {
	return &priceRepository{client: client}
}

func (r *priceRepository) Get(ctx context.Context, id string) (*price.Price, error) {
	params := &stripe.PriceRetrieveParams{
		Expand: []*string{stripe.String("product")},
	}

	p, err := r.client.sc.V1Prices.Retrieve(ctx, id, params)
	if err != nil {
		return nil, remoteError(err, "Could not retrieve price from Stripe", map[string]interface{}{
			"account":  r.client.role.String(),
			"price_id": id,
		})
	}
	return toPrice(p), nil
}

func (r *priceRepository) List(ctx context.Context, filter *types.PriceFilter) (*types.ListResponse[*price.Price], error) {
	if filter == nil {
		filter = &types.PriceFilter{}
	}
	params := &stripe.PriceListParams{
		ListParams: listParams(filter.QueryFilter),
	}
	if filter.ProductID != "" {
		params.Product = stripe.String(filter.ProductID)
	}

	resp, err := collectPage(r.client.sc.V1Prices.List(ctx, params), filter.QueryFilter.GetLimit(), toPrice)
	if err != nil {
		return nil, remoteError(err, "Could not list prices from Stripe", map[string]interface{}{
			"account":        r.client.role.String(),
			"product_id":     filter.ProductID,
			"starting_after": filter.QueryFilter.GetStartingAfter(),
		})
	}
	return resp, nil
}

func (r *priceRepository) Create(ctx context.Context, p *price.Price) (*price.Price, error) {
	created, err := r.client.sc.V1Prices.Create(ctx, priceCreateParams(p))
	if err != nil {
		return nil, remoteError(err, "Could not create price in Stripe", map[string]interface{}{
			"account":    r.client.role.String(),
			"product_id": p.ProductID,
			"amount":     p.DisplayAmount(),
		})
	}
	r.client.logger.Debugw("created stripe price", "account", r.client.role, "price_id", created.ID)
	return toPrice(created), nil
}

func (r *priceRepository) Update(ctx context.Context, id string, req *price.UpdateRequest) (*price.Price, error) {
	params := &stripe.PriceUpdateParams{}
	for _, k := range req.Metadata.Keys() {
		params.AddMetadata(k, req.Metadata[k])
	}

	updated, err := r.client.sc.V1Prices.Update(ctx, id, params)
	if err != nil {
		return nil, remoteError(err, "Could not update price in Stripe", map[string]interface{}{
			"account":  r.client.role.String(),
			"price_id": id,
		})
	}
	return toPrice(updated), nil
}
