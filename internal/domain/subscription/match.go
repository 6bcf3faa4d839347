package subscription

import (
	"github.com/flexprice/stripe-migrate/internal/domain/price"
	"github.com/flexprice/stripe-migrate/internal/domain/product"
	"github.com/flexprice/stripe-migrate/internal/types"
)

// ResolvedItem is a value copy of a line item with its price and owning
// product already resolved. Matching only ever looks at resolved items.
type ResolvedItem struct {
	PriceID     string
	UnitAmount  int64
	Currency    string
	Kind        types.PriceKind
	ProductName string
	Quantity    int64
}

// NewResolvedItem builds a ResolvedItem from a fully resolved price.
func NewResolvedItem(p *price.Price, prod *product.Product, quantity int64) ResolvedItem {
	return ResolvedItem{
		PriceID:     p.ID,
		UnitAmount:  p.UnitAmount,
		Currency:    p.Currency,
		Kind:        p.Kind,
		ProductName: prod.Name,
		Quantity:    quantity,
	}
}

// ItemEquivalent compares the price terms and owning product name of two
// items. Quantity is not compared.
func ItemEquivalent(a, b ResolvedItem) bool {
	return a.ProductName == b.ProductName &&
		price.TermsEquivalent(a.UnitAmount, a.Currency, a.Kind, b.UnitAmount, b.Currency, b.Kind)
}

// ItemsEquivalent reports whether two item sets describe the same
// subscription: same item count, and every source item has some equivalent
// target item.
//
// The pairing is not one-to-one: one target item may satisfy several source
// items. Hardening this into a bipartite matching would change which existing
// subscriptions are treated as already migrated.
func ItemsEquivalent(source, target []ResolvedItem) bool {
	if len(source) != len(target) {
		return false
	}
	for _, s := range source {
		found := false
		for _, t := range target {
			if ItemEquivalent(s, t) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Candidate is an existing target subscription with its items resolved.
type Candidate struct {
	Subscription *Subscription
	Items        []ResolvedItem
}

// FindMatching returns the first candidate whose items are equivalent to
// items, or nil.
func FindMatching(candidates []Candidate, items []ResolvedItem) *Subscription {
	for _, candidate := range candidates {
		if ItemsEquivalent(items, candidate.Items) {
			return candidate.Subscription
		}
	}
	return nil
}
