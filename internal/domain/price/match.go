package price

import "github.com/flexprice/stripe-migrate/internal/types"

// TermsEquivalent compares the commercial terms of two prices: unit amount,
// currency and recurrence compatibility. It is symmetric.
func TermsEquivalent(amountA int64, currencyA string, kindA types.PriceKind,
	amountB int64, currencyB string, kindB types.PriceKind) bool {
	return amountA == amountB &&
		currencyA == currencyB &&
		kindA.Compatible(kindB)
}

// Equivalent reports whether two prices are the same logical price across
// accounts. A one-time price never matches a recurring one.
func Equivalent(a, b *Price) bool {
	if a == nil || b == nil {
		return false
	}
	return TermsEquivalent(a.UnitAmount, a.Currency, a.Kind, b.UnitAmount, b.Currency, b.Kind)
}

// FindMatching returns the first candidate equivalent to source, or nil.
func FindMatching(candidates []*Price, source *Price) *Price {
	for _, candidate := range candidates {
		if Equivalent(candidate, source) {
			return candidate
		}
	}
	return nil
}
