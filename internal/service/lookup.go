package service

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/cache"
	"github.com/flexprice/stripe-migrate/internal/domain/customer"
	"github.com/flexprice/stripe-migrate/internal/domain/price"
	"github.com/flexprice/stripe-migrate/internal/domain/product"
	"github.com/flexprice/stripe-migrate/internal/domain/subscription"
	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/gateway"
	"github.com/flexprice/stripe-migrate/internal/pagination"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/samber/lo"
)

// lookup reads entities from one account, draining listings page by page and
// caching reference lookups for the rest of the run.
type lookup struct {
	ServiceParams
}

func (l lookup) listProducts(ctx context.Context, account *gateway.Account) ([]*product.Product, error) {
	return pagination.FetchAll[*product.Product](account.Scope(ctx), l.pageSize(),
		func(ctx context.Context, q *types.QueryFilter) (*types.ListResponse[*product.Product], error) {
			return account.Products.List(ctx, &types.ProductFilter{QueryFilter: q})
		})
}

func (l lookup) listPrices(ctx context.Context, account *gateway.Account, productID string) ([]*price.Price, error) {
	return pagination.FetchAll[*price.Price](account.Scope(ctx), l.pageSize(),
		func(ctx context.Context, q *types.QueryFilter) (*types.ListResponse[*price.Price], error) {
			return account.Prices.List(ctx, &types.PriceFilter{QueryFilter: q, ProductID: productID})
		})
}

func (l lookup) listSubscriptions(ctx context.Context, account *gateway.Account, customerID string, status types.SubscriptionStatus) ([]*subscription.Subscription, error) {
	return pagination.FetchAll[*subscription.Subscription](account.Scope(ctx), l.pageSize(),
		func(ctx context.Context, q *types.QueryFilter) (*types.ListResponse[*subscription.Subscription], error) {
			return account.Subscriptions.List(ctx, &types.SubscriptionFilter{
				QueryFilter: q,
				CustomerID:  customerID,
				Status:      status,
			})
		})
}

// productByID returns the product with id, fetching it once per run.
func (l lookup) productByID(ctx context.Context, account *gateway.Account, id string) (*product.Product, error) {
	key := cache.Key(cache.PrefixProductByID, account.Role.String(), id)
	p, err := cache.GetOrLoad(ctx, l.Cache, key, func(ctx context.Context) (*product.Product, error) {
		return account.Products.Get(account.Scope(ctx), id)
	})
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// productForPrice returns the owning product of p, fetching it when the
// price carries only the product id.
func (l lookup) productForPrice(ctx context.Context, account *gateway.Account, p *price.Price) (*product.Product, error) {
	if p.Product != nil {
		return p.Product.Clone(), nil
	}
	return l.productByID(ctx, account, p.ProductID)
}

// targetProductByName finds the target product with exactly name.
func (l lookup) targetProductByName(ctx context.Context, name string) (*product.Product, error) {
	target := l.Session.Target()
	key := cache.Key(cache.PrefixProductByName, target.Role.String(), name)
	p, err := cache.GetOrLoad(ctx, l.Cache, key, func(ctx context.Context) (*product.Product, error) {
		products, err := l.listProducts(ctx, target)
		if err != nil {
			return nil, err
		}
		match := product.FindMatching(products, &product.Product{Name: name})
		if match == nil {
			return nil, ierr.NewErrorf("product %q not found in target account", name).
				WithHint("Copy the product to the target account before migrating subscriptions").
				WithReportableDetails(map[string]interface{}{
					"product_name": name,
				}).
				Mark(ierr.ErrNotFound)
		}
		return match, nil
	})
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// targetCustomerByEmail finds the target customer with email. Customers are
// never created here.
func (l lookup) targetCustomerByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	target := l.Session.Target()
	key := cache.Key(cache.PrefixCustomerByEmail, target.Role.String(), email)
	c, err := cache.GetOrLoad(ctx, l.Cache, key, func(ctx context.Context) (*customer.Customer, error) {
		page, err := target.Customers.List(target.Scope(ctx), &types.CustomerFilter{
			QueryFilter: &types.QueryFilter{Limit: lo.ToPtr(1)},
			Email:       email,
		})
		if err != nil {
			return nil, err
		}
		if len(page.Items) == 0 {
			return nil, ierr.NewErrorf("customer with email %s not found in target account", email).
				WithHint("Create the customer in the target account before migrating the subscription").
				WithReportableDetails(map[string]interface{}{
					"email": email,
				}).
				Mark(ierr.ErrNotFound)
		}
		return page.Items[0], nil
	})
	if err != nil {
		return nil, err
	}
	copied := *c
	return &copied, nil
}
