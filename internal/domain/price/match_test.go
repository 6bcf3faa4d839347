package price

import (
	"testing"

	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestEquivalent(t *testing.T) {
	monthly := types.RecurringPriceKind(types.RecurringIntervalMonth, 1)

	tests := []struct {
		name     string
		a, b     *Price
		expected bool
	}{
		{
			name:     "one-time equal",
			a:        &Price{UnitAmount: 1000, Currency: "usd", Kind: types.OneTimePriceKind()},
			b:        &Price{UnitAmount: 1000, Currency: "usd", Kind: types.OneTimePriceKind()},
			expected: true,
		},
		{
			name:     "recurring equal",
			a:        &Price{UnitAmount: 1000, Currency: "usd", Kind: monthly},
			b:        &Price{UnitAmount: 1000, Currency: "usd", Kind: monthly},
			expected: true,
		},
		{
			name:     "one-time never matches recurring",
			a:        &Price{UnitAmount: 1000, Currency: "usd", Kind: types.OneTimePriceKind()},
			b:        &Price{UnitAmount: 1000, Currency: "usd", Kind: monthly},
			expected: false,
		},
		{
			name:     "different interval count",
			a:        &Price{UnitAmount: 1000, Currency: "usd", Kind: monthly},
			b:        &Price{UnitAmount: 1000, Currency: "usd", Kind: types.RecurringPriceKind(types.RecurringIntervalMonth, 12)},
			expected: false,
		},
		{
			name:     "different interval",
			a:        &Price{UnitAmount: 1000, Currency: "usd", Kind: monthly},
			b:        &Price{UnitAmount: 1000, Currency: "usd", Kind: types.RecurringPriceKind(types.RecurringIntervalYear, 1)},
			expected: false,
		},
		{
			name:     "different amount",
			a:        &Price{UnitAmount: 1000, Currency: "usd", Kind: monthly},
			b:        &Price{UnitAmount: 1200, Currency: "usd", Kind: monthly},
			expected: false,
		},
		{
			name:     "different currency",
			a:        &Price{UnitAmount: 1000, Currency: "usd", Kind: monthly},
			b:        &Price{UnitAmount: 1000, Currency: "eur", Kind: monthly},
			expected: false,
		},
		{
			name:     "metadata and product ignored",
			a:        &Price{ProductID: "prod_a", UnitAmount: 1000, Currency: "usd", Kind: monthly, Metadata: types.Metadata{"x": "1"}},
			b:        &Price{ProductID: "prod_b", UnitAmount: 1000, Currency: "usd", Kind: monthly},
			expected: true,
		},
		{
			name:     "nil price",
			a:        nil,
			b:        &Price{UnitAmount: 1000, Currency: "usd", Kind: monthly},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Equivalent(tt.a, tt.b))
			assert.Equal(t, tt.expected, Equivalent(tt.b, tt.a), "price equivalence must be symmetric")
		})
	}
}

func TestFindMatchingReturnsFirst(t *testing.T) {
	source := &Price{ID: "price_s", UnitAmount: 500, Currency: "usd", Kind: types.OneTimePriceKind()}
	candidates := []*Price{
		{ID: "price_t0", UnitAmount: 500, Currency: "usd", Kind: types.RecurringPriceKind(types.RecurringIntervalMonth, 1)},
		{ID: "price_t1", UnitAmount: 500, Currency: "usd", Kind: types.OneTimePriceKind()},
		{ID: "price_t2", UnitAmount: 500, Currency: "usd", Kind: types.OneTimePriceKind()},
	}

	match := FindMatching(candidates, source)
	if assert.NotNil(t, match) {
		assert.Equal(t, "price_t1", match.ID)
	}
	assert.Nil(t, FindMatching(candidates[:1], source))
}

func TestCopyForTarget(t *testing.T) {
	source := &Price{
		ID:         "price_s",
		ProductID:  "prod_s",
		UnitAmount: 1999,
		Currency:   "usd",
		Kind:       types.RecurringPriceKind(types.RecurringIntervalYear, 1),
		Active:     true,
		Metadata:   types.Metadata{"tier": "gold"},
	}

	copied := source.CopyForTarget("prod_t")
	assert.Empty(t, copied.ID)
	assert.Equal(t, "prod_t", copied.ProductID)
	assert.Equal(t, int64(1999), copied.UnitAmount)
	assert.Equal(t, source.Kind, copied.Kind)
	assert.Equal(t, types.Metadata{"tier": "gold"}, copied.Metadata)
	assert.Equal(t, "19.99 usd", source.DisplayAmount())
}
