package testutil

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/cache"
	"github.com/flexprice/stripe-migrate/internal/config"
	"github.com/flexprice/stripe-migrate/internal/logger"
	"github.com/flexprice/stripe-migrate/internal/report"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/stretchr/testify/suite"
)

// BaseServiceTestSuite gives every service test a fresh pair of in-memory
// accounts, a run report and a context carrying the run id.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx      context.Context
	gateway  *InMemoryGateway
	config   *config.Configuration
	logger   *logger.Logger
	cache    *cache.InMemoryCache
	recorder *report.Recorder
}

func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.gateway = NewInMemoryGateway()
	s.config = config.GetDefaultConfig()
	s.config.Stripe.SourceKey = "sk_test_source"
	s.config.Stripe.TargetKey = "sk_test_target"
	// Small pages so every listing exercises the cursor.
	s.config.Stripe.PageSize = 2
	s.logger = logger.GetLogger()
	s.cache = cache.NewInMemoryCache(s.config)
	s.recorder = report.NewRecorder(types.GetRunID(s.ctx))
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetGateway() *InMemoryGateway {
	return s.gateway
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetCache() *cache.InMemoryCache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetRecorder() *report.Recorder {
	return s.recorder
}
