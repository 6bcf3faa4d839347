// Package gateway bundles the repositories of the remote billing API per
// account. Callers pick an account explicitly instead of switching a shared
// credential.
package gateway

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/domain/customer"
	"github.com/flexprice/stripe-migrate/internal/domain/price"
	"github.com/flexprice/stripe-migrate/internal/domain/product"
	"github.com/flexprice/stripe-migrate/internal/domain/subscription"
	"github.com/flexprice/stripe-migrate/internal/types"
)

// Account holds every repository bound to one account's credential.
type Account struct {
	Role          types.AccountRole
	Products      product.Repository
	Prices        price.Repository
	Subscriptions subscription.Repository
	Customers     customer.Repository
}

// Scope tags ctx with the account role so log lines and cache keys say
// which side a call went to.
func (a *Account) Scope(ctx context.Context) context.Context {
	return types.SetAccount(ctx, a.Role)
}

// Session pairs the source and target accounts of one migration run.
type Session struct {
	source *Account
	target *Account
}

func NewSession(source, target *Account) *Session {
	source.Role = types.AccountSource
	target.Role = types.AccountTarget
	return &Session{source: source, target: target}
}

func (s *Session) Source() *Account {
	return s.source
}

func (s *Session) Target() *Account {
	return s.target
}
