package sentry

import (
	"context"
	"time"

	"github.com/flexprice/stripe-migrate/internal/config"
	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/logger"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

// Service reports failed entities and fatal errors to Sentry. A disabled
// service accepts every call and does nothing.
type Service struct {
	cfg    *config.Configuration
	logger *logger.Logger
}

// NewSentryService initializes the Sentry client when enabled. An
// initialization failure is logged and leaves the service disabled.
func NewSentryService(cfg *config.Configuration, logger *logger.Logger) *Service {
	s := &Service{cfg: cfg, logger: logger}
	if !cfg.Sentry.Enabled {
		return s
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		SampleRate:       cfg.Sentry.SampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		logger.Errorw("failed to initialize sentry, error reporting disabled", "error", err)
		s.cfg = nil
		return s
	}

	logger.Infow("sentry initialized", "environment", cfg.Sentry.Environment)
	return s
}

func (s *Service) IsEnabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Sentry.Enabled
}

// CaptureException reports err with its reportable details and hint attached.
func (s *Service) CaptureException(ctx context.Context, err error) {
	if !s.IsEnabled() || err == nil {
		return
	}

	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		if runID := types.GetRunID(ctx); runID != "" {
			scope.SetTag("run_id", runID)
		}
		if account := types.GetAccount(ctx); account != "" {
			scope.SetTag("account", account.String())
		}
		if kind := ierr.Kind(err); kind != "" {
			scope.SetTag("error_kind", kind)
		}
		if details := ierr.GetReportableDetails(err); len(details) > 0 {
			scope.SetContext("details", details)
		}
		if hint := ierr.GetHint(err); hint != "" {
			scope.SetExtra("hint", hint)
		}
	})
	hub.CaptureException(err)
}

// Flush waits for buffered events to be sent.
func (s *Service) Flush() {
	if !s.IsEnabled() {
		return
	}
	if !sentry.Flush(flushTimeout) {
		s.logger.Warnw("timed out flushing sentry events")
	}
}
