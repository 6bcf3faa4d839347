package types

import (
	"github.com/samber/lo"
)

// DefaultPageSize is the page size requested from list endpoints.
const DefaultPageSize = 100

// MaxPageSize is the largest page the provider accepts.
const MaxPageSize = 100

// QueryFilter carries the cursor pagination options shared by every listing.
// The next page is requested with StartingAfter set to the id of the last
// item of the previous page.
type QueryFilter struct {
	Limit         *int   `json:"limit,omitempty"`
	StartingAfter string `json:"starting_after,omitempty"`
}

func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{Limit: lo.ToPtr(DefaultPageSize)}
}

func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil || *f.Limit <= 0 {
		return DefaultPageSize
	}
	if *f.Limit > MaxPageSize {
		return MaxPageSize
	}
	return *f.Limit
}

func (f *QueryFilter) GetStartingAfter() string {
	if f == nil {
		return ""
	}
	return f.StartingAfter
}

type ProductFilter struct {
	*QueryFilter
	Active *bool `json:"active,omitempty"`
}

type PriceFilter struct {
	*QueryFilter
	ProductID string `json:"product_id,omitempty"`
}

type SubscriptionFilter struct {
	*QueryFilter
	CustomerID string             `json:"customer_id,omitempty"`
	Status     SubscriptionStatus `json:"status,omitempty"`
}

type CustomerFilter struct {
	*QueryFilter
	Email string `json:"email,omitempty"`
}

// Identifiable entities expose the id used as pagination cursor.
type Identifiable interface {
	GetID() string
}

// ListResponse is a single page of a listing.
type ListResponse[T any] struct {
	Items   []T  `json:"items"`
	HasMore bool `json:"has_more"`
}
