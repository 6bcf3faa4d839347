package stripe

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/domain/product"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/stripe/stripe-go/v82"
)

type productRepository struct {
	client *Client
}

func NewProductRepository(client *Client) product.Repository {
	return &productRepository{client: client}
}

func (r *productRepository) Get(ctx context.Context, id string) (*product.Product, error) {
	p, err := r.client.sc.V1Products.Retrieve(ctx, id, &stripe.ProductRetrieveParams{})
	if err != nil {
		return nil, remoteError(err, "Could not retrieve product from Stripe", map[string]interface{}{
			"account":    r.client.role.String(),
			"product_id": id,
		})
	}
	return toProduct(p), nil
}

func (r *productRepository) List(ctx context.Context, filter *types.ProductFilter) (*types.ListResponse[*product.Product], error) {
	if filter == nil {
		filter = &types.ProductFilter{}
	}
	params := &stripe.ProductListParams{
		ListParams: listParams(filter.QueryFilter),
		Active:     filter.Active,
	}

	resp, err := collectPage(r.client.sc.V1Products.List(ctx, params), filter.QueryFilter.GetLimit(), toProduct)
	if err != nil {
		return nil, remoteError(err, "Could not list products from Stripe", map[string]interface{}{
			"account":        r.client.role.String(),
			"starting_after": filter.QueryFilter.GetStartingAfter(),
		})
	}
	return resp, nil
}

func (r *productRepository) Create(ctx context.Context, p *product.Product) (*product.Product, error) {
	created, err := r.client.sc.V1Products.Create(ctx, productCreateParams(p))
	if err != nil {
		return nil, remoteError(err, "Could not create product in Stripe", map[string]interface{}{
			"account":      r.client.role.String(),
			"product_name": p.Name,
		})
	}
	r.client.logger.Debugw("created stripe product", "account", r.client.role, "product_id", created.ID)
	return toProduct(created), nil
}

func (r *productRepository) Update(ctx context.Context, id string, req *product.UpdateRequest) (*product.Product, error) {
	params := &stripe.ProductUpdateParams{}
	for _, k := range req.Metadata.Keys() {
		params.AddMetadata(k, req.Metadata[k])
	}

	updated, err := r.client.sc.V1Products.Update(ctx, id, params)
	if err != nil {
		return nil, remoteError(err, "Could not update product in Stripe", map[string]interface{}{
			"account":    r.client.role.String(),
			"product_id": id,
		})
	}
	return toProduct(updated), nil
}
