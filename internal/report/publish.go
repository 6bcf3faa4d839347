package report

import (
	"context"

	"github.com/flexprice/stripe-migrate/internal/logger"
)

// Publish logs the run summary, writes the CSV report to filePath when set
// and archives it through uploader when one is given. Publishing problems are
// logged and returned; they never change the outcome of the migration itself.
func Publish(ctx context.Context, r *Recorder, filePath string, uploader Uploader, log *logger.Logger) error {
	log.Infow("migration summary", r.SummaryFields()...)

	if filePath == "" && uploader == nil {
		return nil
	}

	var (
		data []byte
		err  error
	)
	if filePath != "" {
		data, err = r.WriteFile(filePath)
		if err != nil {
			log.Errorw("failed to write run report", "path", filePath, "error", err)
			return err
		}
		log.Infow("wrote run report", "path", filePath, "entries", len(r.Entries()))
	} else {
		data, err = r.CSV()
		if err != nil {
			return err
		}
	}

	if uploader == nil {
		return nil
	}

	location, err := uploader.Upload(ctx, r.RunID()+".csv", data)
	if err != nil {
		log.Errorw("failed to upload run report", "error", err)
		return err
	}
	log.Infow("uploaded run report", "location", location)
	return nil
}
