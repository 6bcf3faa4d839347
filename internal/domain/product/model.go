package product

import (
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/samber/lo"
)

// Product is a billable product in one account. Name is the cross-account
// matching key.
type Product struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Metadata    types.Metadata `json:"metadata,omitempty"`
	Images      []string       `json:"images,omitempty"`
	Active      bool           `json:"active"`
}

func (p *Product) GetID() string {
	return p.ID
}

// CopyForTarget returns the field set copied when the product is absent in
// the target account. Identity is never copied.
func (p *Product) CopyForTarget() *Product {
	return &Product{
		Name:        p.Name,
		Description: p.Description,
		Metadata:    types.NormalizeMetadata(p.Metadata),
		Images:      lo.Map(p.Images, func(img string, _ int) string { return img }),
		Active:      p.Active,
	}
}

// Clone returns a deep copy.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := p.CopyForTarget()
	c.ID = p.ID
	c.Metadata = p.Metadata.Clone()
	return c
}

// UpdateRequest is the only mutation allowed on an existing product:
// metadata backfill.
type UpdateRequest struct {
	Metadata types.Metadata `json:"metadata"`
}
