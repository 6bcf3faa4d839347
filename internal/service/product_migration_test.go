package service

import (
	"testing"

	"github.com/flexprice/stripe-migrate/internal/domain/price"
	"github.com/flexprice/stripe-migrate/internal/domain/product"
	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/testutil"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ProductMigrationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ProductMigrationService
	params  ServiceParams
	sentry  *MockErrorReporter
}

func TestProductMigrationService(t *testing.T) {
	suite.Run(t, new(ProductMigrationServiceSuite))
}

func (s *ProductMigrationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.params = ServiceParams{
		Config:   s.GetConfig(),
		Logger:   s.GetLogger(),
		Session:  s.GetGateway().Session(),
		Cache:    s.GetCache(),
		Recorder: s.GetRecorder(),
	}
	s.sentry = NewMockErrorReporter()
	s.params.Sentry = s.sentry
	s.service = NewProductMigrationService(s.params)
}

var monthly = types.RecurringPriceKind(types.RecurringIntervalMonth, 1)

// seedSourceProduct stores a product with a monthly and a one-time price in
// the source account.
func (s *ProductMigrationServiceSuite) seedSourceProduct(name string, metadata types.Metadata) *product.Product {
	source := s.GetGateway().Source
	p := source.Products.Seed(&product.Product{
		Name:        name,
		Description: name + " plan",
		Metadata:    metadata,
		Images:      []string{"https://example.com/" + name + ".png"},
		Active:      true,
	})
	source.Prices.Seed(&price.Price{ProductID: p.ID, UnitAmount: 1000, Currency: "usd", Kind: monthly, Active: true})
	source.Prices.Seed(&price.Price{ProductID: p.ID, UnitAmount: 5000, Currency: "usd", Kind: types.OneTimePriceKind(), Active: true})
	return p
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_CreatesProductAndPrices() {
	src := s.seedSourceProduct("Pro", types.Metadata{"sku": "A1"})
	target := s.GetGateway().Target

	result, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Equal(types.MigrationActionCreated, result.Action)
	s.Len(result.Prices, 2)

	created := target.Products.All()
	s.Require().Len(created, 1)
	s.NotEqual(src.ID, created[0].ID)
	s.Equal("Pro", created[0].Name)
	s.Equal("Pro plan", created[0].Description)
	s.Equal(types.Metadata{"sku": "A1"}, created[0].Metadata)
	s.Equal(src.Images, created[0].Images)
	s.Equal(created[0].ID, result.TargetID)

	prices := target.Prices.All()
	s.Require().Len(prices, 2)
	for _, p := range prices {
		s.Equal(created[0].ID, p.ProductID)
	}
	s.Equal(monthly, prices[0].Kind)
	s.Equal(types.OneTimePriceKind(), prices[1].Kind)
	s.Equal(int64(5000), prices[1].UnitAmount)

	s.Equal(0, s.GetGateway().Source.Writes())
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_IgnoresSharedIDs() {
	src := s.seedSourceProduct("Pro", nil)
	target := s.GetGateway().Target
	// Same id, different name: ids never identify an entity across accounts.
	target.Products.Seed(&product.Product{ID: src.ID, Name: "Legacy"})

	result, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Equal(types.MigrationActionCreated, result.Action)
	s.NotEqual(src.ID, result.TargetID)
	s.Equal(2, target.Products.Count())

	legacy, err := target.Products.InMemoryStore.Get(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Equal("Legacy", legacy.Name)
	s.Empty(legacy.Metadata)
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_RerunIsIdempotent() {
	src := s.seedSourceProduct("Pro", types.Metadata{"sku": "A1"})
	target := s.GetGateway().Target

	_, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	writes := target.Writes()

	result, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Equal(writes, target.Writes())
	s.Equal(types.MigrationActionUnchanged, result.Action)
	for _, p := range result.Prices {
		s.Equal(types.MigrationActionUnchanged, p.Action)
	}
	s.Equal(1, target.Products.Count())
	s.Equal(2, target.Prices.Count())
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_BackfillsEmptyMetadata() {
	src := s.seedSourceProduct("Pro", types.Metadata{"sku": "A1"})
	target := s.GetGateway().Target
	existing := target.Products.Seed(&product.Product{Name: "Pro", Description: "Kept description"})

	result, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Equal(types.MigrationActionUpdated, result.Action)
	s.Equal(existing.ID, result.TargetID)

	stored, err := target.Products.Get(s.GetContext(), existing.ID)
	s.Require().NoError(err)
	s.Equal(types.Metadata{"sku": "A1"}, stored.Metadata)
	s.Equal("Pro", stored.Name)
	s.Equal("Kept description", stored.Description)
	s.Equal(1, target.Calls(testutil.OpProductUpdate))
	s.Equal(0, target.Calls(testutil.OpProductCreate))
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_NeverOverwritesMetadata() {
	src := s.seedSourceProduct("Pro", types.Metadata{"sku": "A1"})
	target := s.GetGateway().Target
	existing := target.Products.Seed(&product.Product{Name: "Pro", Metadata: types.Metadata{"sku": "B2"}})

	result, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Equal(types.MigrationActionUnchanged, result.Action)

	stored, err := target.Products.Get(s.GetContext(), existing.ID)
	s.Require().NoError(err)
	s.Equal(types.Metadata{"sku": "B2"}, stored.Metadata)
	s.Equal(0, target.Calls(testutil.OpProductUpdate))
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_EmptySourceMetadataLeavesTarget() {
	src := s.seedSourceProduct("Pro", nil)
	target := s.GetGateway().Target
	target.Products.Seed(&product.Product{Name: "Pro"})

	result, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Equal(types.MigrationActionUnchanged, result.Action)
	s.Equal(0, target.Calls(testutil.OpProductUpdate))
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_PriceMatching() {
	src := s.seedSourceProduct("Pro", nil)
	target := s.GetGateway().Target
	existing := target.Products.Seed(&product.Product{Name: "Pro"})
	// Same amount and currency as the source one-time price, but recurring.
	target.Prices.Seed(&price.Price{ProductID: existing.ID, UnitAmount: 5000, Currency: "usd", Kind: monthly})
	// Exact match of the source monthly price, without metadata.
	matched := target.Prices.Seed(&price.Price{ProductID: existing.ID, UnitAmount: 1000, Currency: "usd", Kind: monthly})

	result, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Require().Len(result.Prices, 2)

	s.Equal(types.MigrationActionUnchanged, result.Prices[0].Action)
	s.Equal(matched.ID, result.Prices[0].TargetID)
	s.Equal(types.MigrationActionCreated, result.Prices[1].Action)
	s.Equal(1, target.Calls(testutil.OpPriceCreate))
	s.Equal(3, target.Prices.Count())
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_BackfillsPriceMetadata() {
	source := s.GetGateway().Source
	target := s.GetGateway().Target
	src := source.Products.Seed(&product.Product{Name: "Pro"})
	source.Prices.Seed(&price.Price{ProductID: src.ID, UnitAmount: 1000, Currency: "usd", Kind: monthly, Metadata: types.Metadata{"tier": "gold"}})
	existing := target.Products.Seed(&product.Product{Name: "Pro"})
	matched := target.Prices.Seed(&price.Price{ProductID: existing.ID, UnitAmount: 1000, Currency: "usd", Kind: monthly})

	result, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Equal(types.MigrationActionUpdated, result.Prices[0].Action)

	stored, err := target.Prices.Get(s.GetContext(), matched.ID)
	s.Require().NoError(err)
	s.Equal(types.Metadata{"tier": "gold"}, stored.Metadata)
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_DuplicateSourcePricesCreateOnce() {
	source := s.GetGateway().Source
	target := s.GetGateway().Target
	src := source.Products.Seed(&product.Product{Name: "Pro"})
	source.Prices.Seed(&price.Price{ProductID: src.ID, UnitAmount: 1000, Currency: "usd", Kind: monthly})
	source.Prices.Seed(&price.Price{ProductID: src.ID, UnitAmount: 1000, Currency: "usd", Kind: monthly})

	result, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Equal(types.MigrationActionCreated, result.Prices[0].Action)
	s.Equal(types.MigrationActionUnchanged, result.Prices[1].Action)
	s.Equal(1, target.Prices.Count())
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_PagesThroughPrices() {
	source := s.GetGateway().Source
	src := source.Products.Seed(&product.Product{Name: "Pro"})
	for _, amount := range []int64{100, 200, 300, 400, 500} {
		source.Prices.Seed(&price.Price{ProductID: src.ID, UnitAmount: amount, Currency: "eur", Kind: monthly})
	}

	result, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Len(result.Prices, 5)
	s.Equal(5, s.GetGateway().Target.Prices.Count())
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_DryRun() {
	s.params.Config.Migration.DryRun = true
	s.service = NewProductMigrationService(s.params)
	src := s.seedSourceProduct("Pro", types.Metadata{"sku": "A1"})

	result, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Equal(types.MigrationActionWouldCreate, result.Action)
	s.Empty(result.TargetID)
	s.Len(result.Prices, 2)
	for _, p := range result.Prices {
		s.Equal(types.MigrationActionWouldCreate, p.Action)
	}
	s.Equal(0, s.GetGateway().Writes())
	s.Equal(3, s.GetRecorder().Count(types.EntityTypeProduct, types.MigrationActionWouldCreate)+
		s.GetRecorder().Count(types.EntityTypePrice, types.MigrationActionWouldCreate))
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_DryRunWouldUpdate() {
	s.params.Config.Migration.DryRun = true
	s.service = NewProductMigrationService(s.params)
	src := s.seedSourceProduct("Pro", types.Metadata{"sku": "A1"})
	s.GetGateway().Target.Products.Seed(&product.Product{Name: "Pro"})

	result, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Require().NoError(err)
	s.Equal(types.MigrationActionWouldUpdate, result.Action)
	s.Equal(0, s.GetGateway().Writes())
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_Validation() {
	_, err := s.service.CopyProduct(s.GetContext(), "")
	s.Error(err)
	s.True(ierr.IsValidation(err))
	s.sentry.AssertNotCalled(s.T(), "CaptureException", mock.Anything, mock.Anything)
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_SourceMissing() {
	_, err := s.service.CopyProduct(s.GetContext(), "prod_missing")
	s.Error(err)
	s.True(ierr.IsRemoteAPI(err))
	s.Equal(1, s.GetRecorder().Count(types.EntityTypeProduct, types.MigrationActionFailed))
	s.sentry.AssertNumberOfCalls(s.T(), "CaptureException", 1)
}

func (s *ProductMigrationServiceSuite) TestCopyProduct_PriceFailureAbortsProduct() {
	src := s.seedSourceProduct("Pro", nil)
	target := s.GetGateway().Target
	target.FailOn(testutil.OpPriceCreate, "")

	_, err := s.service.CopyProduct(s.GetContext(), src.ID)
	s.Error(err)
	s.True(ierr.IsRemoteAPI(err))
	s.Equal(0, target.Prices.Count())
	s.Equal(1, s.GetRecorder().Count(types.EntityTypePrice, types.MigrationActionFailed))
	s.Equal(1, s.GetRecorder().Count(types.EntityTypeProduct, types.MigrationActionFailed))

	entries := s.GetRecorder().Entries()
	s.Require().Len(entries, 3)
	failedPrice, failedProduct := entries[1], entries[2]
	s.Equal(types.EntityTypePrice, failedPrice.EntityType)
	s.Equal(types.FormatAmount(1000, "usd"), failedPrice.Key)
	s.Equal(err.Error(), failedPrice.Error)
	s.Equal(types.EntityTypeProduct, failedProduct.EntityType)
	s.Equal(src.ID, failedProduct.SourceID)
	s.Equal("Pro", failedProduct.Key)
	s.Equal(err.Error(), failedProduct.Error)
	s.sentry.AssertNumberOfCalls(s.T(), "CaptureException", 1)
}

func (s *ProductMigrationServiceSuite) TestCopyAllProducts_ContinuesPastFailures() {
	broken := s.seedSourceProduct("Broken", nil)
	s.seedSourceProduct("Pro", nil)
	s.seedSourceProduct("Team", nil)
	target := s.GetGateway().Target
	target.FailOn(testutil.OpProductCreate, "Broken")

	bulk, err := s.service.CopyAllProducts(s.GetContext())
	s.Require().NoError(err)
	s.Equal([]string{broken.ID}, bulk.Failed)
	s.Len(bulk.Results, 2)
	s.Equal(2, target.Products.Count())
	s.Equal(4, target.Prices.Count())
	s.Equal(1, s.GetRecorder().Count(types.EntityTypeProduct, types.MigrationActionFailed))
	s.sentry.AssertNumberOfCalls(s.T(), "CaptureException", 1)
}

func (s *ProductMigrationServiceSuite) TestCopyAllProducts_ListFailure() {
	s.GetGateway().Source.FailOn(testutil.OpProductList, "")

	_, err := s.service.CopyAllProducts(s.GetContext())
	s.Error(err)
	s.True(ierr.IsRemoteAPI(err))
	s.Equal(0, s.GetGateway().Writes())
	s.sentry.AssertNumberOfCalls(s.T(), "CaptureException", 1)
}
