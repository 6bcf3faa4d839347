package testutil

import (
	"context"
	"testing"

	"github.com/flexprice/stripe-migrate/internal/domain/customer"
	"github.com/flexprice/stripe-migrate/internal/domain/price"
	"github.com/flexprice/stripe-migrate/internal/domain/product"
	"github.com/flexprice/stripe-migrate/internal/domain/subscription"
	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryStore_ListPagination(t *testing.T) {
	ctx := context.Background()
	account := NewInMemoryAccount(types.AccountSource)
	for _, name := range []string{"A", "B", "C"} {
		account.Products.Seed(&product.Product{Name: name, Active: true})
	}

	first, err := account.Products.List(ctx, &types.ProductFilter{QueryFilter: &types.QueryFilter{Limit: lo.ToPtr(2)}})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.True(t, first.HasMore)

	second, err := account.Products.List(ctx, &types.ProductFilter{QueryFilter: &types.QueryFilter{
		Limit:         lo.ToPtr(2),
		StartingAfter: first.Items[1].ID,
	}})
	require.NoError(t, err)
	require.Len(t, second.Items, 1)
	assert.Equal(t, "C", second.Items[0].Name)
	assert.False(t, second.HasMore)
}

func TestInMemoryAccount_WritesAndFailures(t *testing.T) {
	ctx := context.Background()
	account := NewInMemoryAccount(types.AccountSource)

	seeded := account.Products.Seed(&product.Product{Name: "Seeded"})
	assert.Equal(t, 0, account.Writes())

	created, err := account.Products.Create(ctx, &product.Product{Name: "Pro"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotNil(t, created.Metadata)

	_, err = account.Products.Update(ctx, seeded.ID, &product.UpdateRequest{Metadata: types.Metadata{"sku": "A1"}})
	require.NoError(t, err)
	assert.Equal(t, 2, account.Writes())

	account.FailOn(OpProductCreate, "")
	_, err = account.Products.Create(ctx, &product.Product{Name: "Team"})
	require.Error(t, err)
	assert.True(t, ierr.IsRemoteAPI(err))
	assert.Equal(t, 2, account.Writes())
}

func TestInMemoryPriceStore_Expansion(t *testing.T) {
	ctx := context.Background()
	account := NewInMemoryAccount(types.AccountSource)
	prod := account.Products.Seed(&product.Product{Name: "Pro"})
	p := account.Prices.Seed(&price.Price{ProductID: prod.ID, UnitAmount: 1000, Currency: "usd"})

	got, err := account.Prices.Get(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Product)
	assert.Equal(t, "Pro", got.Product.Name)

	listed, err := account.Prices.List(ctx, &types.PriceFilter{ProductID: prod.ID})
	require.NoError(t, err)
	require.Len(t, listed.Items, 1)
	assert.Nil(t, listed.Items[0].Product)

	_, err = account.Prices.Create(ctx, &price.Price{ProductID: "prod_missing"})
	assert.Error(t, err)
}

func TestInMemorySubscriptionStore_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	account := NewInMemoryAccount(types.AccountSource)
	cust := account.Customers.Seed(&customer.Customer{Email: "a@example.com"})
	prod := account.Products.Seed(&product.Product{Name: "Pro"})
	p := account.Prices.Seed(&price.Price{ProductID: prod.ID, UnitAmount: 1000, Currency: "usd"})

	created, err := account.Subscriptions.Create(ctx, &subscription.CreateRequest{
		CustomerID: cust.ID,
		Items:      []subscription.ItemRequest{{PriceID: p.ID, Quantity: 2}},
		Metadata:   types.Metadata{"k": "v"},
	})
	require.NoError(t, err)
	assert.Equal(t, types.SubscriptionStatusActive, created.Status)
	assert.Len(t, account.Subscriptions.CreateRequests(), 1)

	got, err := account.Subscriptions.Get(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "a@example.com", got.Customer.Email)
	require.NotNil(t, got.Items[0].Price.Product)
	assert.Equal(t, "Pro", got.Items[0].Price.Product.Name)

	updated, err := account.Subscriptions.Update(ctx, created.ID, &subscription.UpdateRequest{
		CancelAtPeriodEnd: lo.ToPtr(true),
		Metadata:          types.Metadata{types.MetadataKeyMigratedTo: "sub_x"},
	})
	require.NoError(t, err)
	assert.True(t, updated.CancelAtPeriodEnd)
	assert.Equal(t, types.Metadata{"k": "v", "migrated_to": "sub_x"}, updated.Metadata)
}

func TestInMemoryGateway_AccountsDoNotShareIDs(t *testing.T) {
	g := NewInMemoryGateway()

	source := g.Source.Products.Seed(&product.Product{Name: "Pro"})
	target := g.Target.Products.Seed(&product.Product{Name: "Pro"})
	assert.Equal(t, "prod_src_1", source.ID)
	assert.Equal(t, "prod_tgt_1", target.ID)

	created, err := g.Target.Products.Create(context.Background(), &product.Product{Name: "Team"})
	require.NoError(t, err)
	assert.Equal(t, "prod_tgt_2", created.ID)

	_, err = g.Target.Products.Get(context.Background(), source.ID)
	assert.Error(t, err)
}
