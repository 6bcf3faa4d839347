package testutil

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/gateway"
	"github.com/flexprice/stripe-migrate/internal/types"
)

// InMemoryAccount is one fake billing account.
type InMemoryAccount struct {
	Role          types.AccountRole
	Products      *InMemoryProductStore
	Prices        *InMemoryPriceStore
	Subscriptions *InMemorySubscriptionStore
	Customers     *InMemoryCustomerStore

	ops *operationLog
}

// NewInMemoryAccount creates an empty account. Generated ids carry a short
// role tag, e.g. prod_src_1 and prod_tgt_1.
func NewInMemoryAccount(role types.AccountRole) *InMemoryAccount {
	ops := newOperationLog(idNamespace(role))
	products := NewInMemoryProductStore(ops)
	prices := NewInMemoryPriceStore(ops, products)
	customers := NewInMemoryCustomerStore(ops)
	return &InMemoryAccount{
		Role:          role,
		Products:      products,
		Prices:        prices,
		Subscriptions: NewInMemorySubscriptionStore(ops, prices, customers),
		Customers:     customers,
		ops:           ops,
	}
}

// FailOn makes every call of op for id fail with a remote API error. An empty
// id matches every call of op.
func (a *InMemoryAccount) FailOn(op Operation, id string) {
	a.ops.failOn(op, id, "injected "+string(op)+" failure")
}

// ClearFailures removes every failure set with FailOn.
func (a *InMemoryAccount) ClearFailures() {
	a.ops.clearFailures()
}

// Calls returns how many calls of op succeeded.
func (a *InMemoryAccount) Calls(op Operation) int {
	return a.ops.count(op)
}

// Writes returns how many create and update calls succeeded.
func (a *InMemoryAccount) Writes() int {
	total := 0
	for _, op := range []Operation{
		OpProductCreate, OpProductUpdate,
		OpPriceCreate, OpPriceUpdate,
		OpSubscriptionCreate, OpSubscriptionUpdate,
	} {
		total += a.ops.count(op)
	}
	return total
}

func idNamespace(role types.AccountRole) string {
	switch role {
	case types.AccountSource:
		return "src"
	case types.AccountTarget:
		return "tgt"
	default:
		return string(role)
	}
}

func (a *InMemoryAccount) Account() *gateway.Account {
	return &gateway.Account{
		Role:          a.Role,
		Products:      a.Products,
		Prices:        a.Prices,
		Subscriptions: a.Subscriptions,
		Customers:     a.Customers,
	}
}

// InMemoryGateway holds a fake source and target account.
type InMemoryGateway struct {
	Source *InMemoryAccount
	Target *InMemoryAccount
}

func NewInMemoryGateway() *InMemoryGateway {
	return &InMemoryGateway{
		Source: NewInMemoryAccount(types.AccountSource),
		Target: NewInMemoryAccount(types.AccountTarget),
	}
}

func (g *InMemoryGateway) Session() *gateway.Session {
	return gateway.NewSession(g.Source.Account(), g.Target.Account())
}

// Writes returns the writes made to both accounts.
func (g *InMemoryGateway) Writes() int {
	return g.Source.Writes() + g.Target.Writes()
}

// SetupContext returns a context carrying a fresh run id.
func SetupContext() context.Context {
	return types.SetRunID(context.Background(), types.GenerateRunID())
}
