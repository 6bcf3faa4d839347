package stripe

import (
	"net/http"

	"github.com/flexprice/stripe-migrate/internal/config"
	"github.com/flexprice/stripe-migrate/internal/gateway"
	"github.com/flexprice/stripe-migrate/internal/logger"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/stripe/stripe-go/v82"
	"golang.org/x/time/rate"
)

var _ stripe.LeveledLoggerInterface = (*logger.Logger)(nil)

// Client is a stripe-go client bound to one account's secret key. Calls are
// throttled client side and never retried.
type Client struct {
	sc     *stripe.Client
	role   types.AccountRole
	logger *logger.Logger
}

// NewClient creates a client for role authenticated with key.
func NewClient(key string, role types.AccountRole, cfg *config.Configuration, logger *logger.Logger) *Client {
	httpClient := &http.Client{
		Timeout:   cfg.Stripe.Timeout,
		Transport: newThrottledTransport(http.DefaultTransport, newLimiter(cfg.Stripe)),
	}

	backends := stripe.NewBackendsWithConfig(&stripe.BackendConfig{
		HTTPClient:        httpClient,
		LeveledLogger:     logger.With("account", role.String()),
		MaxNetworkRetries: stripe.Int64(0),
	})

	return &Client{
		sc:     stripe.NewClient(key, stripe.WithBackends(backends)),
		role:   role,
		logger: logger,
	}
}

// newLimiter returns nil when throttling is disabled.
func newLimiter(cfg config.StripeConfig) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}

// Account exposes every repository of this client's account.
func (c *Client) Account() *gateway.Account {
	return &gateway.Account{
		Role:          c.role,
		Products:      NewProductRepository(c),
		Prices:        NewPriceRepository(c),
		Subscriptions: NewSubscriptionRepository(c),
		Customers:     NewCustomerRepository(c),
	}
}

// NewSession builds the source and target accounts from the configured keys.
func NewSession(cfg *config.Configuration, logger *logger.Logger) *gateway.Session {
	source := NewClient(cfg.Stripe.SourceKey, types.AccountSource, cfg, logger)
	target := NewClient(cfg.Stripe.TargetKey, types.AccountTarget, cfg, logger)
	return gateway.NewSession(source.Account(), target.Account())
}
