// Command copy-products copies products and their prices from the source
// Stripe account to the target account.
//
//	copy-products [--product=<id>] [--dry-run] [--report=<path>]
//
// Without --product every source product is processed. The exit status is 1
// when any product failed.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/flexprice/stripe-migrate/internal/app"
	"github.com/flexprice/stripe-migrate/internal/service"
)

func main() {
	productID := flag.String("product", "", "copy only the product with this source id")
	dryRun := flag.Bool("dry-run", false, "resolve and match without writing to either account")
	reportPath := flag.String("report", "", "write a CSV run report to this path")
	flag.Parse()

	single := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "product" {
			single = true
		}
	})

	os.Exit(run(single, *productID, app.Options{DryRun: *dryRun, ReportPath: *reportPath}))
}

func run(single bool, productID string, opts app.Options) int {
	ctx, rt, err := app.New(context.Background(), opts)
	if err != nil {
		app.ConfigError(err)
		return 1
	}
	defer rt.Close()
	defer rt.Publish(ctx, opts.ReportPath)

	log := rt.Logger.WithContext(ctx)
	svc := service.NewProductMigrationService(rt.Params)

	if single {
		result, err := svc.CopyProduct(ctx, productID)
		if err != nil {
			rt.Fail(ctx, "failed to copy product", err)
			return 1
		}
		log.Infow("processed product",
			"source_product_id", result.SourceID,
			"target_product_id", result.TargetID,
			"action", result.Action,
			"prices", len(result.Prices),
		)
		return 0
	}

	bulk, err := svc.CopyAllProducts(ctx)
	if err != nil {
		rt.Fail(ctx, "failed to copy products", err)
		return 1
	}
	log.Infow("processed products", "count", len(bulk.Results), "failed", len(bulk.Failed))
	if len(bulk.Failed) > 0 {
		log.Errorw("some products failed", "source_product_ids", bulk.Failed)
		return 1
	}
	return 0
}
