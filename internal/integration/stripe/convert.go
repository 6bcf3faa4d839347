package stripe

import (
	"strings"
	"time"

	"github.com/flexprice/stripe-migrate/internal/domain/customer"
	"github.com/flexprice/stripe-migrate/internal/domain/price"
	"github.com/flexprice/stripe-migrate/internal/domain/product"
	"github.com/flexprice/stripe-migrate/internal/domain/subscription"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/samber/lo"
	"github.com/stripe/stripe-go/v82"
)

// Expandable references come back as an object with only the id set unless
// the request expanded them; Object is populated only on full objects.
const (
	objectProduct  = "product"
	objectCustomer = "customer"
)

func toProduct(p *stripe.Product) *product.Product {
	if p == nil {
		return nil
	}
	return &product.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Metadata:    types.NormalizeMetadata(p.Metadata),
		Images:      append([]string(nil), p.Images...),
		Active:      p.Active,
	}
}

func toPriceKind(r *stripe.PriceRecurring) types.PriceKind {
	if r == nil {
		return types.OneTimePriceKind()
	}
	return types.RecurringPriceKind(types.RecurringInterval(r.Interval), r.IntervalCount)
}

func toPrice(p *stripe.Price) *price.Price {
	if p == nil {
		return nil
	}
	result := &price.Price{
		ID:         p.ID,
		UnitAmount: p.UnitAmount,
		Currency:   strings.ToLower(string(p.Currency)),
		Kind:       toPriceKind(p.Recurring),
		Active:     p.Active,
		Metadata:   types.NormalizeMetadata(p.Metadata),
	}
	if p.Product != nil {
		result.ProductID = p.Product.ID
		if p.Product.Object == objectProduct {
			result.Product = toProduct(p.Product)
		}
	}
	return result
}

func toCustomer(c *stripe.Customer) *customer.Customer {
	if c == nil {
		return nil
	}
	return &customer.Customer{
		ID:    c.ID,
		Email: c.Email,
		Name:  c.Name,
	}
}

func unixTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

func toSubscription(s *stripe.Subscription) *subscription.Subscription {
	if s == nil {
		return nil
	}
	result := &subscription.Subscription{
		ID:                s.ID,
		Status:            types.SubscriptionStatus(s.Status),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		PauseCollection:   s.PauseCollection != nil,
		Description:       s.Description,
		Metadata:          types.NormalizeMetadata(s.Metadata),
		Items:             make([]*subscription.LineItem, 0),
	}
	if s.CancelAt != 0 {
		result.CancelAt = lo.ToPtr(unixTime(s.CancelAt))
	}
	if s.Customer != nil {
		result.CustomerID = s.Customer.ID
		if s.Customer.Object == objectCustomer {
			result.Customer = toCustomer(s.Customer)
		}
	}

	if s.Items == nil {
		return result
	}

	// Billing periods live on the items. The subscription renews when its
	// latest item does.
	var periodStart, periodEnd int64
	for _, item := range s.Items.Data {
		line := &subscription.LineItem{
			ID:       item.ID,
			Quantity: item.Quantity,
		}
		if item.Price != nil {
			line.PriceID = item.Price.ID
			line.Price = toPrice(item.Price)
		}
		result.Items = append(result.Items, line)

		if item.CurrentPeriodEnd > periodEnd {
			periodEnd = item.CurrentPeriodEnd
		}
		if periodStart == 0 || (item.CurrentPeriodStart != 0 && item.CurrentPeriodStart < periodStart) {
			periodStart = item.CurrentPeriodStart
		}
	}
	result.CurrentPeriodStart = unixTime(periodStart)
	result.CurrentPeriodEnd = unixTime(periodEnd)
	return result
}

func productCreateParams(p *product.Product) *stripe.ProductCreateParams {
	params := &stripe.ProductCreateParams{
		Name:   stripe.String(p.Name),
		Active: stripe.Bool(p.Active),
	}
	if p.Description != "" {
		params.Description = stripe.String(p.Description)
	}
	if len(p.Images) > 0 {
		params.Images = stripe.StringSlice(p.Images)
	}
	for _, k := range p.Metadata.Keys() {
		params.AddMetadata(k, p.Metadata[k])
	}
	return params
}

func priceCreateParams(p *price.Price) *stripe.PriceCreateParams {
	params := &stripe.PriceCreateParams{
		Product:    stripe.String(p.ProductID),
		UnitAmount: stripe.Int64(p.UnitAmount),
		Currency:   stripe.String(p.Currency),
		Active:     stripe.Bool(p.Active),
	}
	if p.Kind.IsRecurring() {
		params.Recurring = &stripe.PriceCreateRecurringParams{
			Interval:      stripe.String(string(p.Kind.Interval)),
			IntervalCount: stripe.Int64(p.Kind.IntervalCount),
		}
	}
	for _, k := range p.Metadata.Keys() {
		params.AddMetadata(k, p.Metadata[k])
	}
	return params
}

func subscriptionCreateParams(req *subscription.CreateRequest) *stripe.SubscriptionCreateParams {
	params := &stripe.SubscriptionCreateParams{
		Customer: stripe.String(req.CustomerID),
		Items: lo.Map(req.Items, func(item subscription.ItemRequest, _ int) *stripe.SubscriptionCreateItemParams {
			return &stripe.SubscriptionCreateItemParams{
				Price:    stripe.String(item.PriceID),
				Quantity: stripe.Int64(item.Quantity),
			}
		}),
		AutomaticTax: &stripe.SubscriptionCreateAutomaticTaxParams{
			Enabled: stripe.Bool(req.AutomaticTax),
		},
		CollectionMethod:  stripe.String(string(req.CollectionMethod)),
		ProrationBehavior: stripe.String(string(req.ProrationBehavior)),
		Description:       req.Description,
	}
	if !req.BillingCycleAnchor.IsZero() {
		params.BillingCycleAnchor = stripe.Int64(req.BillingCycleAnchor.Unix())
	}
	for _, k := range req.Metadata.Keys() {
		params.AddMetadata(k, req.Metadata[k])
	}
	return params
}

func subscriptionUpdateParams(req *subscription.UpdateRequest) *stripe.SubscriptionUpdateParams {
	params := &stripe.SubscriptionUpdateParams{
		CancelAtPeriodEnd: req.CancelAtPeriodEnd,
	}
	for _, k := range req.Metadata.Keys() {
		params.AddMetadata(k, req.Metadata[k])
	}
	return params
}

// collectPage takes at most limit items from a listing. The listing is
// single-page, so a full page is the only signal that more may follow.
func collectPage[S any, T any](seq stripe.Seq2[S, error], limit int, convert func(S) T) (*types.ListResponse[T], error) {
	items := make([]T, 0, limit)
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		items = append(items, convert(v))
		if len(items) == limit {
			break
		}
	}
	return &types.ListResponse[T]{
		Items:   items,
		HasMore: len(items) == limit,
	}, nil
}

func listParams(filter *types.QueryFilter) stripe.ListParams {
	params := stripe.ListParams{
		Limit:  stripe.Int64(int64(filter.GetLimit())),
		Single: true,
	}
	if after := filter.GetStartingAfter(); after != "" {
		params.StartingAfter = stripe.String(after)
	}
	return params
}
