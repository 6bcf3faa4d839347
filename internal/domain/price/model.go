package price

import (
	"github.com/flexprice/stripe-migrate/internal/domain/product"
	"github.com/flexprice/stripe-migrate/internal/types"
)

// Price belongs to exactly one product. Amount, currency and kind are
// immutable once created; only metadata may be backfilled.
type Price struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	UnitAmount int64           `json:"unit_amount"`
	Currency   string          `json:"currency"`
	Kind       types.PriceKind `json:"kind"`
	Active     bool            `json:"active"`
	Metadata   types.Metadata  `json:"metadata,omitempty"`

	// Product is set when the gateway returned the owning product expanded.
	Product *product.Product `json:"product,omitempty"`
}

func (p *Price) GetID() string {
	return p.ID
}

// DisplayAmount renders the amount in major units.
func (p *Price) DisplayAmount() string {
	return types.FormatAmount(p.UnitAmount, p.Currency)
}

// CopyForTarget returns the field set copied when the price is absent in the
// target account, linked to targetProductID.
func (p *Price) CopyForTarget(targetProductID string) *Price {
	return &Price{
		ProductID:  targetProductID,
		UnitAmount: p.UnitAmount,
		Currency:   p.Currency,
		Kind:       p.Kind,
		Active:     p.Active,
		Metadata:   types.NormalizeMetadata(p.Metadata),
	}
}

// Clone returns a deep copy including the expanded product.
func (p *Price) Clone() *Price {
	if p == nil {
		return nil
	}
	c := *p
	c.Metadata = p.Metadata.Clone()
	c.Product = p.Product.Clone()
	return &c
}

// UpdateRequest is the only mutation allowed on an existing price.
type UpdateRequest struct {
	Metadata types.Metadata `json:"metadata"`
}
