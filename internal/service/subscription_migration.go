package service

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/domain/price"
	"github.com/flexprice/stripe-migrate/internal/domain/subscription"
	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/report"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/samber/lo"
)

// SubscriptionMigrationService moves active subscriptions to the target
// account and marks each source subscription to cancel at period end.
type SubscriptionMigrationService interface {
	// MigrateSubscription migrates one subscription. Ineligible subscriptions
	// are skipped and reported with MigrationActionSkipped, not an error.
	MigrateSubscription(ctx context.Context, sourceSubscriptionID string) (*MigrationResult, error)
	// MigrateSubscriptions migrates ids in order and stops at the first
	// failure, returning the results so far.
	MigrateSubscriptions(ctx context.Context, ids []string) ([]*MigrationResult, error)
	// MigrateAllSubscriptions migrates every active source subscription and
	// stops at the first failure.
	MigrateAllSubscriptions(ctx context.Context) ([]*MigrationResult, error)
}

type subscriptionMigrationService struct {
	ServiceParams
	lookup lookup
}

func NewSubscriptionMigrationService(params ServiceParams) SubscriptionMigrationService {
	return &subscriptionMigrationService{
		ServiceParams: params,
		lookup:        lookup{ServiceParams: params},
	}
}

// resolvedSubscription is a source subscription with every item resolved in
// the target account, ready to be matched or created.
type resolvedSubscription struct {
	source         *subscription.Subscription
	email          string
	targetCustomer string
	items          []subscription.ResolvedItem
	requests       []subscription.ItemRequest
}

func (s *subscriptionMigrationService) MigrateSubscription(ctx context.Context, sourceSubscriptionID string) (*MigrationResult, error) {
	if sourceSubscriptionID == "" {
		return nil, ierr.NewError("subscription ID is required").
			WithHint("Pass non-empty ids in --subscriptions").
			Mark(ierr.ErrValidation)
	}

	result, email, err := s.migrateSubscription(ctx, sourceSubscriptionID)
	if err != nil {
		s.Logger.WithContext(ctx).Errorw("failed to migrate subscription",
			"source_subscription_id", sourceSubscriptionID,
			"email", email,
			"error", err,
		)
		s.recordFailure(types.EntityTypeSubscription, sourceSubscriptionID, email, err)
		s.capture(ctx, err)
		return nil, err
	}
	return result, nil
}

func (s *subscriptionMigrationService) MigrateSubscriptions(ctx context.Context, ids []string) ([]*MigrationResult, error) {
	for i, id := range ids {
		if id == "" {
			return nil, ierr.NewError("subscription ID is required").
				WithHint("Remove empty entries from --subscriptions").
				WithReportableDetails(map[string]interface{}{
					"position": i,
				}).
				Mark(ierr.ErrValidation)
		}
	}
	return s.migrateInOrder(ctx, ids)
}

func (s *subscriptionMigrationService) MigrateAllSubscriptions(ctx context.Context) ([]*MigrationResult, error) {
	source := s.Session.Source()
	active, err := s.lookup.listSubscriptions(ctx, source, "", types.SubscriptionStatusActive)
	if err != nil {
		err = ierr.WithError(err).
			WithHint("Could not list source subscriptions").
			Mark(ierr.ErrRemoteAPI)
		s.capture(ctx, err)
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("migrating subscriptions", "count", len(active), "dry_run", s.dryRun())
	ids := lo.Map(active, func(sub *subscription.Subscription, _ int) string { return sub.ID })
	return s.migrateInOrder(ctx, ids)
}

func (s *subscriptionMigrationService) migrateInOrder(ctx context.Context, ids []string) ([]*MigrationResult, error) {
	results := make([]*MigrationResult, 0, len(ids))
	for _, id := range ids {
		result, err := s.MigrateSubscription(ctx, id)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

// migrateSubscription returns the customer email alongside any error so
// failures can be reported with it. Nothing is written to either account
// until every reference has been resolved, and the source is marked last.
func (s *subscriptionMigrationService) migrateSubscription(ctx context.Context, id string) (*MigrationResult, string, error) {
	log := s.Logger.WithContext(ctx).With("source_subscription_id", id)
	source := s.Session.Source()

	sub, err := source.Subscriptions.Get(source.Scope(ctx), id)
	if err != nil {
		return nil, "", err
	}

	if reason := sub.IneligibilityReason(); reason != "" {
		log.Infow("skipping subscription", "reason", reason)
		s.record(report.Entry{
			EntityType: types.EntityTypeSubscription,
			SourceID:   sub.ID,
			Key:        sub.CustomerEmail(),
			Action:     types.MigrationActionSkipped,
			Error:      reason,
		})
		return &MigrationResult{SourceID: sub.ID, Action: types.MigrationActionSkipped}, sub.CustomerEmail(), nil
	}

	resolved, err := s.resolve(ctx, sub)
	if err != nil {
		email := sub.CustomerEmail()
		if resolved != nil {
			email = resolved.email
		}
		return nil, email, err
	}

	targetID, action, err := s.findOrCreateTarget(ctx, resolved)
	if err != nil {
		return nil, resolved.email, err
	}
	s.record(report.Entry{
		EntityType: types.EntityTypeSubscription,
		SourceID:   sub.ID,
		TargetID:   targetID,
		Key:        resolved.email,
		Action:     action,
	})

	if err := s.markSourceMigrated(ctx, sub, targetID, resolved.email); err != nil {
		return nil, resolved.email, err
	}

	log.Infow("processed subscription",
		"target_subscription_id", targetID,
		"action", action,
		"email", resolved.email,
	)
	return &MigrationResult{SourceID: sub.ID, TargetID: targetID, Action: action}, resolved.email, nil
}

// resolve maps the customer and every line item onto the target account.
// Only reads happen here.
func (s *subscriptionMigrationService) resolve(ctx context.Context, sub *subscription.Subscription) (*resolvedSubscription, error) {
	source := s.Session.Source()
	target := s.Session.Target()

	email := sub.CustomerEmail()
	if sub.Customer == nil {
		c, err := source.Customers.Get(source.Scope(ctx), sub.CustomerID)
		if err != nil {
			return nil, err
		}
		email = c.Email
	}
	resolved := &resolvedSubscription{source: sub, email: email}
	if email == "" {
		return resolved, ierr.NewError("source customer has no email").
			WithHint("Customers are matched across accounts by email").
			WithReportableDetails(map[string]interface{}{
				"source_subscription_id": sub.ID,
				"source_customer_id":     sub.CustomerID,
			}).
			Mark(ierr.ErrNotFound)
	}

	targetCustomer, err := s.lookup.targetCustomerByEmail(ctx, email)
	if err != nil {
		return resolved, err
	}
	resolved.targetCustomer = targetCustomer.ID

	for _, item := range sub.Items {
		sourcePrice := item.Price
		if sourcePrice == nil {
			sourcePrice, err = source.Prices.Get(source.Scope(ctx), item.PriceID)
			if err != nil {
				return resolved, err
			}
		}
		sourceProduct, err := s.lookup.productForPrice(ctx, source, sourcePrice)
		if err != nil {
			return resolved, err
		}

		targetProduct, err := s.lookup.targetProductByName(ctx, sourceProduct.Name)
		if err != nil {
			return resolved, err
		}
		targetPrices, err := s.lookup.listPrices(ctx, target, targetProduct.ID)
		if err != nil {
			return resolved, err
		}
		targetPrice := price.FindMatching(targetPrices, sourcePrice)
		if targetPrice == nil {
			return resolved, ierr.NewErrorf("no matching price for product %q in target account", sourceProduct.Name).
				WithHint("Copy the product's prices to the target account before migrating subscriptions").
				WithReportableDetails(map[string]interface{}{
					"product_name":    sourceProduct.Name,
					"source_price_id": sourcePrice.ID,
					"amount":          sourcePrice.DisplayAmount(),
					"kind":            sourcePrice.Kind.String(),
				}).
				Mark(ierr.ErrNotFound)
		}

		resolved.items = append(resolved.items, subscription.NewResolvedItem(sourcePrice, sourceProduct, item.Quantity))
		resolved.requests = append(resolved.requests, subscription.ItemRequest{
			PriceID:  targetPrice.ID,
			Quantity: item.Quantity,
		})
	}
	return resolved, nil
}

// findOrCreateTarget returns an equivalent active target subscription of the
// customer, or creates one. In a dry run the returned id is empty when a
// subscription would be created.
func (s *subscriptionMigrationService) findOrCreateTarget(ctx context.Context, resolved *resolvedSubscription) (string, types.MigrationAction, error) {
	log := s.Logger.WithContext(ctx).With("source_subscription_id", resolved.source.ID)
	target := s.Session.Target()

	existing, err := s.lookup.listSubscriptions(ctx, target, resolved.targetCustomer, types.SubscriptionStatusActive)
	if err != nil {
		return "", types.MigrationActionFailed, err
	}

	candidates := make([]subscription.Candidate, 0, len(existing))
	for _, sub := range existing {
		items, err := s.resolveTargetItems(ctx, sub)
		if err != nil {
			return "", types.MigrationActionFailed, err
		}
		candidates = append(candidates, subscription.Candidate{Subscription: sub, Items: items})
	}

	if match := subscription.FindMatching(candidates, resolved.items); match != nil {
		log.Infow("subscription already exists in target account", "target_subscription_id", match.ID)
		return match.ID, types.MigrationActionMatched, nil
	}

	req := &subscription.CreateRequest{
		CustomerID:         resolved.targetCustomer,
		Items:              resolved.requests,
		Metadata:           types.NormalizeMetadata(resolved.source.Metadata),
		BillingCycleAnchor: resolved.source.CurrentPeriodEnd,
		AutomaticTax:       false,
		CollectionMethod:   types.CollectionMethodChargeAutomatically,
		ProrationBehavior:  types.ProrationBehaviorNone,
		Description:        lo.EmptyableToPtr(resolved.source.Description),
	}

	if s.dryRun() {
		log.Infow("would create subscription",
			"target_customer_id", req.CustomerID,
			"items", len(req.Items),
			"billing_cycle_anchor", req.BillingCycleAnchor,
		)
		return "", types.MigrationActionWouldCreate, nil
	}

	created, err := target.Subscriptions.Create(target.Scope(ctx), req)
	if err != nil {
		return "", types.MigrationActionFailed, err
	}
	log.Infow("created subscription", "target_subscription_id", created.ID)
	return created.ID, types.MigrationActionCreated, nil
}

// resolveTargetItems resolves the items of an existing target subscription
// into value copies for matching.
func (s *subscriptionMigrationService) resolveTargetItems(ctx context.Context, sub *subscription.Subscription) ([]subscription.ResolvedItem, error) {
	target := s.Session.Target()
	items := make([]subscription.ResolvedItem, 0, len(sub.Items))
	for _, item := range sub.Items {
		p := item.Price
		if p == nil {
			var err error
			p, err = target.Prices.Get(target.Scope(ctx), item.PriceID)
			if err != nil {
				return nil, err
			}
		}
		prod, err := s.lookup.productForPrice(ctx, target, p)
		if err != nil {
			return nil, err
		}
		items = append(items, subscription.NewResolvedItem(p, prod, item.Quantity))
	}
	return items, nil
}

// markSourceMigrated flags the source to cancel at period end and records
// where it went. This is the completion marker and always the last write.
func (s *subscriptionMigrationService) markSourceMigrated(ctx context.Context, sub *subscription.Subscription, targetID, email string) error {
	source := s.Session.Source()
	req := &subscription.UpdateRequest{
		CancelAtPeriodEnd: lo.ToPtr(true),
		Metadata: types.Metadata{
			types.MetadataKeyMigratedTo: targetID,
			types.MetadataKeyMigratedAt: types.NowFunc().Format(types.MigratedAtLayout),
		},
	}

	action := types.MigrationActionMarked
	if s.dryRun() {
		action = types.MigrationActionWouldMark
	} else if _, err := source.Subscriptions.Update(source.Scope(ctx), sub.ID, req); err != nil {
		return err
	}

	s.record(report.Entry{
		EntityType: types.EntityTypeSubscription,
		SourceID:   sub.ID,
		TargetID:   targetID,
		Key:        email,
		Action:     action,
	})
	return nil
}
