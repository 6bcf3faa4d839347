// Command copy-subscriptions moves active subscriptions from the source
// Stripe account to the target account and schedules each source
// subscription to cancel at the end of its current period.
//
//	copy-subscriptions [--subscriptions=<id1,id2>] [--dry-run] [--report=<path>]
//
// Without --subscriptions every active source subscription is processed. The
// first failure stops the run with exit status 1.
package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"github.com/flexprice/stripe-migrate/internal/app"
	"github.com/flexprice/stripe-migrate/internal/service"
	"github.com/samber/lo"
)

func main() {
	ids := flag.String("subscriptions", "", "comma separated source subscription ids to migrate")
	dryRun := flag.Bool("dry-run", false, "resolve and match without writing to either account")
	reportPath := flag.String("report", "", "write a CSV run report to this path")
	flag.Parse()

	var listed []string
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "subscriptions" {
			listed = parseIDs(*ids)
		}
	})

	os.Exit(run(listed, app.Options{DryRun: *dryRun, ReportPath: *reportPath}))
}

// parseIDs splits a comma separated list. Blank entries are kept so the
// service rejects them.
func parseIDs(raw string) []string {
	return lo.Map(strings.Split(raw, ","), func(id string, _ int) string {
		return strings.TrimSpace(id)
	})
}

// run migrates listed, or every active subscription when listed is nil.
func run(listed []string, opts app.Options) int {
	ctx, rt, err := app.New(context.Background(), opts)
	if err != nil {
		app.ConfigError(err)
		return 1
	}
	defer rt.Close()
	defer rt.Publish(ctx, opts.ReportPath)

	log := rt.Logger.WithContext(ctx)
	svc := service.NewSubscriptionMigrationService(rt.Params)

	var results []*service.MigrationResult
	if listed != nil {
		results, err = svc.MigrateSubscriptions(ctx, listed)
	} else {
		results, err = svc.MigrateAllSubscriptions(ctx)
	}

	for _, r := range results {
		log.Infow("processed subscription",
			"source_subscription_id", r.SourceID,
			"target_subscription_id", r.TargetID,
			"action", r.Action,
		)
	}
	if err != nil {
		rt.Fail(ctx, "subscription migration aborted", err)
		return 1
	}
	return 0
}
