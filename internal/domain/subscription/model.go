package subscription

import (
	"time"

	"github.com/flexprice/stripe-migrate/internal/domain/customer"
	"github.com/flexprice/stripe-migrate/internal/domain/price"
	"github.com/flexprice/stripe-migrate/internal/types"
)

type Subscription struct {
	ID                 string                   `json:"id"`
	CustomerID         string                   `json:"customer_id"`
	Customer           *customer.Customer       `json:"customer,omitempty"`
	Items              []*LineItem              `json:"items"`
	Status             types.SubscriptionStatus `json:"status"`
	CancelAt           *time.Time               `json:"cancel_at,omitempty"`
	CancelAtPeriodEnd  bool                     `json:"cancel_at_period_end"`
	PauseCollection    bool                     `json:"pause_collection"`
	CurrentPeriodStart time.Time                `json:"current_period_start"`
	CurrentPeriodEnd   time.Time                `json:"current_period_end"`
	Description        string                   `json:"description,omitempty"`
	Metadata           types.Metadata           `json:"metadata,omitempty"`
}

// LineItem references a price by id; Price is set when the gateway returned
// it expanded.
type LineItem struct {
	ID       string       `json:"id"`
	PriceID  string       `json:"price_id"`
	Price    *price.Price `json:"price,omitempty"`
	Quantity int64        `json:"quantity"`
}

func (s *Subscription) GetID() string {
	return s.ID
}

// IneligibilityReason returns why s must be skipped, or "" when it may be
// migrated. Only active subscriptions with no pending cancellation and no
// paused collection are eligible.
func (s *Subscription) IneligibilityReason() string {
	switch {
	case s.Status != types.SubscriptionStatusActive:
		return "status is " + string(s.Status)
	case s.CancelAt != nil:
		return "cancel_at is set"
	case s.CancelAtPeriodEnd:
		return "cancel_at_period_end is set"
	case s.PauseCollection:
		return "collection is paused"
	default:
		return ""
	}
}

// CustomerEmail returns the expanded customer's email, if any.
func (s *Subscription) CustomerEmail() string {
	if s.Customer == nil {
		return ""
	}
	return s.Customer.Email
}

// Clone returns a deep copy.
func (s *Subscription) Clone() *Subscription {
	if s == nil {
		return nil
	}
	c := *s
	if s.Customer != nil {
		cust := *s.Customer
		c.Customer = &cust
	}
	if s.CancelAt != nil {
		at := *s.CancelAt
		c.CancelAt = &at
	}
	c.Items = make([]*LineItem, 0, len(s.Items))
	for _, item := range s.Items {
		copied := *item
		copied.Price = item.Price.Clone()
		c.Items = append(c.Items, &copied)
	}
	c.Metadata = s.Metadata.Clone()
	return &c
}

// ItemRequest is one line of a subscription to create.
type ItemRequest struct {
	PriceID  string `json:"price"`
	Quantity int64  `json:"quantity"`
}

// CreateRequest carries everything sent when creating a target subscription.
type CreateRequest struct {
	CustomerID         string                  `json:"customer"`
	Items              []ItemRequest           `json:"items"`
	Metadata           types.Metadata          `json:"metadata"`
	BillingCycleAnchor time.Time               `json:"billing_cycle_anchor"`
	AutomaticTax       bool                    `json:"automatic_tax"`
	CollectionMethod   types.CollectionMethod  `json:"collection_method"`
	ProrationBehavior  types.ProrationBehavior `json:"proration_behavior"`
	Description        *string                 `json:"description,omitempty"`
}

// UpdateRequest covers the only update the migration makes to a
// subscription: deferred cancellation plus provenance metadata.
type UpdateRequest struct {
	CancelAtPeriodEnd *bool          `json:"cancel_at_period_end,omitempty"`
	Metadata          types.Metadata `json:"metadata,omitempty"`
}
