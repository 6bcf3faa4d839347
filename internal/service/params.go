package service

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/cache"
	"github.com/flexprice/stripe-migrate/internal/config"
	"github.com/flexprice/stripe-migrate/internal/gateway"
	"github.com/flexprice/stripe-migrate/internal/logger"
	"github.com/flexprice/stripe-migrate/internal/report"
	"github.com/flexprice/stripe-migrate/internal/types"
)

// ErrorReporter receives entity failures. *sentry.Service implements it.
type ErrorReporter interface {
	CaptureException(ctx context.Context, err error)
}

// ServiceParams holds everything a migration service needs. Services are the
// only place failures are reported to Sentry.
type ServiceParams struct {
	Config   *config.Configuration
	Logger   *logger.Logger
	Session  *gateway.Session
	Cache    cache.Cache
	Recorder *report.Recorder
	Sentry   ErrorReporter
}

func (p ServiceParams) pageSize() int {
	if p.Config == nil || p.Config.Stripe.PageSize <= 0 {
		return types.DefaultPageSize
	}
	return p.Config.Stripe.PageSize
}

func (p ServiceParams) dryRun() bool {
	return p.Config != nil && p.Config.Migration.DryRun
}

func (p ServiceParams) record(e report.Entry) {
	if p.Recorder != nil {
		p.Recorder.Record(e)
	}
}

func (p ServiceParams) capture(ctx context.Context, err error) {
	if p.Sentry != nil {
		p.Sentry.CaptureException(ctx, err)
	}
}

func (p ServiceParams) recordFailure(entityType types.EntityType, sourceID, key string, err error) {
	if p.Recorder != nil {
		p.Recorder.RecordFailure(entityType, sourceID, key, err)
	}
}

// MigrationResult is the outcome for one source entity.
type MigrationResult struct {
	SourceID string                `json:"source_id"`
	TargetID string                `json:"target_id,omitempty"`
	Action   types.MigrationAction `json:"action"`
}
