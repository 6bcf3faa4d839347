package service

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/domain/price"
	"github.com/flexprice/stripe-migrate/internal/domain/product"
	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/report"
	"github.com/flexprice/stripe-migrate/internal/types"
)

// ProductMigrationService copies products and their prices from the source
// account to the target account. Existing target entities are matched by
// business fields and only ever get empty metadata backfilled.
type ProductMigrationService interface {
	// CopyProduct reconciles one source product and all of its prices.
	CopyProduct(ctx context.Context, sourceProductID string) (*ProductMigrationResult, error)
	// CopyAllProducts reconciles every source product. A failing product is
	// logged and recorded, and the loop moves on.
	CopyAllProducts(ctx context.Context) (*BulkProductResult, error)
}

// ProductMigrationResult is the outcome for a product and its prices.
type ProductMigrationResult struct {
	MigrationResult
	Prices []*MigrationResult `json:"prices"`
}

// BulkProductResult summarizes a bulk product run.
type BulkProductResult struct {
	Results []*ProductMigrationResult `json:"results"`
	Failed  []string                  `json:"failed"`
}

type productMigrationService struct {
	ServiceParams
	lookup lookup
}

func NewProductMigrationService(params ServiceParams) ProductMigrationService {
	return &productMigrationService{
		ServiceParams: params,
		lookup:        lookup{ServiceParams: params},
	}
}

func (s *productMigrationService) CopyProduct(ctx context.Context, sourceProductID string) (*ProductMigrationResult, error) {
	if sourceProductID == "" {
		return nil, ierr.NewError("product ID is required").
			WithHint("Pass a non-empty --product").
			Mark(ierr.ErrValidation)
	}

	result, key, err := s.copyProduct(ctx, sourceProductID)
	if err != nil {
		s.Logger.WithContext(ctx).Errorw("failed to copy product",
			"source_product_id", sourceProductID,
			"product_name", key,
			"error", err,
		)
		s.recordFailure(types.EntityTypeProduct, sourceProductID, key, err)
		s.capture(ctx, err)
		return nil, err
	}
	return result, nil
}

func (s *productMigrationService) CopyAllProducts(ctx context.Context) (*BulkProductResult, error) {
	log := s.Logger.WithContext(ctx)

	sourceProducts, err := s.lookup.listProducts(ctx, s.Session.Source())
	if err != nil {
		err = ierr.WithError(err).
			WithHint("Could not list source products").
			Mark(ierr.ErrRemoteAPI)
		s.capture(ctx, err)
		return nil, err
	}
	log.Infow("copying products", "count", len(sourceProducts), "dry_run", s.dryRun())

	bulk := &BulkProductResult{
		Results: make([]*ProductMigrationResult, 0, len(sourceProducts)),
		Failed:  make([]string, 0),
	}
	for _, p := range sourceProducts {
		result, err := s.CopyProduct(ctx, p.ID)
		if err != nil {
			bulk.Failed = append(bulk.Failed, p.ID)
			continue
		}
		bulk.Results = append(bulk.Results, result)
	}

	log.Infow("finished copying products",
		"processed", len(bulk.Results),
		"failed", len(bulk.Failed),
	)
	return bulk, nil
}

// copyProduct returns the product name alongside any error so failures can
// be reported with it.
func (s *productMigrationService) copyProduct(ctx context.Context, sourceProductID string) (*ProductMigrationResult, string, error) {
	log := s.Logger.WithContext(ctx)
	source := s.Session.Source()
	target := s.Session.Target()

	sourceProduct, err := source.Products.Get(source.Scope(ctx), sourceProductID)
	if err != nil {
		return nil, "", err
	}
	sourcePrices, err := s.lookup.listPrices(ctx, source, sourceProduct.ID)
	if err != nil {
		return nil, sourceProduct.Name, err
	}

	log.Infow("source product",
		"source_product_id", sourceProduct.ID,
		"product_name", sourceProduct.Name,
		"description", sourceProduct.Description,
		"metadata", sourceProduct.Metadata.String(),
		"prices", len(sourcePrices),
	)

	targetProducts, err := s.lookup.listProducts(ctx, target)
	if err != nil {
		return nil, sourceProduct.Name, err
	}

	targetProduct, action, err := s.reconcileProduct(ctx, sourceProduct, product.FindMatching(targetProducts, sourceProduct))
	if err != nil {
		return nil, sourceProduct.Name, err
	}

	result := &ProductMigrationResult{
		MigrationResult: MigrationResult{
			SourceID: sourceProduct.ID,
			Action:   action,
		},
		Prices: make([]*MigrationResult, 0, len(sourcePrices)),
	}
	if targetProduct != nil {
		result.TargetID = targetProduct.ID
	}
	s.record(report.Entry{
		EntityType: types.EntityTypeProduct,
		SourceID:   sourceProduct.ID,
		TargetID:   result.TargetID,
		Key:        sourceProduct.Name,
		Action:     action,
	})

	// A product that only would be created has no target prices to compare
	// against.
	if targetProduct == nil {
		for _, p := range sourcePrices {
			result.Prices = append(result.Prices, s.recordPrice(p, "", types.MigrationActionWouldCreate))
		}
		return result, sourceProduct.Name, nil
	}

	targetPrices, err := s.lookup.listPrices(ctx, target, targetProduct.ID)
	if err != nil {
		return nil, sourceProduct.Name, err
	}

	for _, sourcePrice := range sourcePrices {
		priceResult, err := s.reconcilePrice(ctx, sourcePrice, targetProduct.ID, &targetPrices)
		if err != nil {
			s.recordFailure(types.EntityTypePrice, sourcePrice.ID, sourcePrice.DisplayAmount(), err)
			return nil, sourceProduct.Name, err
		}
		result.Prices = append(result.Prices, priceResult)
	}

	return result, sourceProduct.Name, nil
}

// reconcileProduct creates the product when no match exists and backfills
// metadata when the match has none. It returns nil for a product that would
// be created in a dry run.
func (s *productMigrationService) reconcileProduct(ctx context.Context, source, match *product.Product) (*product.Product, types.MigrationAction, error) {
	log := s.Logger.WithContext(ctx)
	target := s.Session.Target()

	if match == nil {
		if s.dryRun() {
			log.Infow("would create product", "source_product_id", source.ID, "product_name", source.Name)
			return nil, types.MigrationActionWouldCreate, nil
		}

		created, err := target.Products.Create(target.Scope(ctx), source.CopyForTarget())
		if err != nil {
			return nil, types.MigrationActionFailed, err
		}
		log.Infow("created product",
			"source_product_id", source.ID,
			"target_product_id", created.ID,
			"product_name", created.Name,
		)
		return created, types.MigrationActionCreated, nil
	}

	log.Infow("product already exists",
		"source_product_id", source.ID,
		"target_product_id", match.ID,
		"product_name", match.Name,
	)

	if !needsMetadataBackfill(source.Metadata, match.Metadata) {
		return match, types.MigrationActionUnchanged, nil
	}

	metadata := types.NormalizeMetadata(source.Metadata)
	if s.dryRun() {
		log.Infow("would update product metadata", "target_product_id", match.ID, "metadata", metadata.String())
		return match, types.MigrationActionWouldUpdate, nil
	}

	updated, err := target.Products.Update(target.Scope(ctx), match.ID, &product.UpdateRequest{Metadata: metadata})
	if err != nil {
		return nil, types.MigrationActionFailed, err
	}
	log.Infow("updated product metadata", "target_product_id", updated.ID, "metadata", metadata.String())
	return updated, types.MigrationActionUpdated, nil
}

// reconcilePrice matches source against the target product's prices and
// creates or backfills it. Created prices are appended to candidates so a
// later identical source price matches instead of duplicating.
func (s *productMigrationService) reconcilePrice(ctx context.Context, source *price.Price, targetProductID string, candidates *[]*price.Price) (*MigrationResult, error) {
	log := s.Logger.WithContext(ctx).With(
		"source_price_id", source.ID,
		"amount", source.DisplayAmount(),
		"kind", source.Kind.String(),
	)
	target := s.Session.Target()

	match := price.FindMatching(*candidates, source)
	if match == nil {
		if s.dryRun() {
			log.Infow("would create price", "target_product_id", targetProductID)
			return s.recordPrice(source, "", types.MigrationActionWouldCreate), nil
		}

		created, err := target.Prices.Create(target.Scope(ctx), source.CopyForTarget(targetProductID))
		if err != nil {
			return nil, err
		}
		*candidates = append(*candidates, created)
		log.Infow("created price", "target_price_id", created.ID)
		return s.recordPrice(source, created.ID, types.MigrationActionCreated), nil
	}

	log.Infow("price already exists", "target_price_id", match.ID)
	if !needsMetadataBackfill(source.Metadata, match.Metadata) {
		return s.recordPrice(source, match.ID, types.MigrationActionUnchanged), nil
	}

	metadata := types.NormalizeMetadata(source.Metadata)
	if s.dryRun() {
		log.Infow("would update price metadata", "target_price_id", match.ID, "metadata", metadata.String())
		return s.recordPrice(source, match.ID, types.MigrationActionWouldUpdate), nil
	}

	if _, err := target.Prices.Update(target.Scope(ctx), match.ID, &price.UpdateRequest{Metadata: metadata}); err != nil {
		return nil, err
	}
	log.Infow("updated price metadata", "target_price_id", match.ID, "metadata", metadata.String())
	return s.recordPrice(source, match.ID, types.MigrationActionUpdated), nil
}

func (s *productMigrationService) recordPrice(source *price.Price, targetID string, action types.MigrationAction) *MigrationResult {
	s.record(report.Entry{
		EntityType: types.EntityTypePrice,
		SourceID:   source.ID,
		TargetID:   targetID,
		Key:        source.DisplayAmount(),
		Action:     action,
	})
	return &MigrationResult{SourceID: source.ID, TargetID: targetID, Action: action}
}

// needsMetadataBackfill reports whether target metadata should be written:
// only when it is empty and the source has some.
func needsMetadataBackfill(source, target types.Metadata) bool {
	return types.IsMetadataEmpty(target) && !types.IsMetadataEmpty(source)
}
