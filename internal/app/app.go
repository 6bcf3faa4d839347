package app

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/cache"
	"github.com/flexprice/stripe-migrate/internal/config"
	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/integration/stripe"
	"github.com/flexprice/stripe-migrate/internal/logger"
	"github.com/flexprice/stripe-migrate/internal/report"
	"github.com/flexprice/stripe-migrate/internal/sentry"
	"github.com/flexprice/stripe-migrate/internal/service"
	"github.com/flexprice/stripe-migrate/internal/types"
)

// Runtime is everything an entry point needs for one run.
type Runtime struct {
	Config   *config.Configuration
	Logger   *logger.Logger
	Sentry   *sentry.Service
	Recorder *report.Recorder
	Params   service.ServiceParams

	uploader report.Uploader
}

// Options are the flags shared by every entry point.
type Options struct {
	DryRun     bool
	ReportPath string
}

// New loads configuration and wires the run. The returned context carries the
// run id. A configuration error is returned before any client is built.
func New(ctx context.Context, opts Options) (context.Context, *Runtime, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return ctx, nil, err
	}
	if opts.DryRun {
		cfg.Migration.DryRun = true
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return ctx, nil, ierr.WithError(err).
			WithHint("Failed to initialize logger").
			Mark(ierr.ErrSystem)
	}

	runID := types.GenerateRunID()
	ctx = types.SetRunID(ctx, runID)

	rt := &Runtime{
		Config:   cfg,
		Logger:   log,
		Sentry:   sentry.NewSentryService(cfg, log),
		Recorder: report.NewRecorder(runID),
	}
	rt.Params = service.ServiceParams{
		Config:   cfg,
		Logger:   log,
		Session:  stripe.NewSession(cfg, log),
		Cache:    cache.NewInMemoryCache(cfg),
		Recorder: rt.Recorder,
		Sentry:   rt.Sentry,
	}

	if cfg.Report.S3Enabled {
		uploader, err := report.NewS3Uploader(ctx, cfg.Report)
		if err != nil {
			rt.Close()
			return ctx, nil, err
		}
		rt.uploader = uploader
	}

	log.WithContext(ctx).Infow("starting run",
		"dry_run", cfg.Migration.DryRun,
		"report", opts.ReportPath,
		"report_s3", cfg.Report.S3Enabled,
	)
	return ctx, rt, nil
}

// Publish writes and archives the run report. Failures are logged by
// report.Publish and do not affect the exit status.
func (r *Runtime) Publish(ctx context.Context, reportPath string) {
	_ = report.Publish(ctx, r.Recorder, reportPath, r.uploader, r.Logger.WithContext(ctx))
}

// Fail logs a run-level error. The services have already reported it to
// Sentry.
func (r *Runtime) Fail(ctx context.Context, msg string, err error) {
	r.Logger.WithContext(ctx).Errorw(msg,
		"error", err,
		"hint", ierr.GetHint(err),
		"details", ierr.GetReportableDetails(err),
	)
}

func (r *Runtime) Close() {
	r.Sentry.Flush()
	_ = r.Logger.Close()
}

// ConfigError prints a startup failure through the default logger, which
// exists before configuration is loaded.
func ConfigError(err error) {
	logger.GetLogger().Errorw("failed to start",
		"error", err,
		"hint", ierr.GetHint(err),
		"details", ierr.GetReportableDetails(err),
	)
}
