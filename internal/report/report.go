// Package report collects one entry per processed entity and renders the run
// report.
package report

import (
	"bytes"
	"os"
	"sort"
	"sync"

	ierr "github.com/flexprice/stripe-migrate/internal/errors"
	"github.com/flexprice/stripe-migrate/internal/types"
	"github.com/gocarina/gocsv"
	"github.com/samber/lo"
)

// Entry is one row of the run report.
type Entry struct {
	RunID      string                `csv:"run_id"`
	EntityType types.EntityType      `csv:"entity_type"`
	SourceID   string                `csv:"source_id"`
	TargetID   string                `csv:"target_id"`
	Key        string                `csv:"key"`
	Action     types.MigrationAction `csv:"action"`
	Error      string                `csv:"error"`
}

// Recorder accumulates entries for a run.
type Recorder struct {
	mu      sync.Mutex
	runID   string
	entries []*Entry
}

func NewRecorder(runID string) *Recorder {
	return &Recorder{runID: runID}
}

func (r *Recorder) RunID() string {
	return r.runID
}

// Record appends e, stamping it with the run id.
func (r *Recorder) Record(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.RunID = r.runID
	r.entries = append(r.entries, &e)
}

// RecordFailure records a failed entity with the error text.
func (r *Recorder) RecordFailure(entityType types.EntityType, sourceID, key string, err error) {
	r.Record(Entry{
		EntityType: entityType,
		SourceID:   sourceID,
		Key:        key,
		Action:     types.MigrationActionFailed,
		Error:      err.Error(),
	})
}

// Entries returns a copy of every recorded entry in order.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.Map(r.entries, func(e *Entry, _ int) Entry { return *e })
}

// Summary counts entries per entity type and action, e.g.
// "product.created" -> 3.
func (r *Recorder) Summary() map[string]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	summary := make(map[string]int)
	for _, e := range r.entries {
		summary[string(e.EntityType)+"."+string(e.Action)]++
	}
	return summary
}

// Count returns how many entries have the given type and action.
func (r *Recorder) Count(entityType types.EntityType, action types.MigrationAction) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return lo.CountBy(r.entries, func(e *Entry) bool {
		return e.EntityType == entityType && e.Action == action
	})
}

// SummaryFields flattens Summary into sorted key/value pairs for structured
// logging.
func (r *Recorder) SummaryFields() []interface{} {
	summary := r.Summary()
	keys := lo.Keys(summary)
	sort.Strings(keys)

	fields := make([]interface{}, 0, len(keys)*2+2)
	fields = append(fields, "run_id", r.runID)
	for _, k := range keys {
		fields = append(fields, k, summary[k])
	}
	return fields
}

// CSV renders every entry as CSV with a header row.
func (r *Recorder) CSV() ([]byte, error) {
	entries := r.Entries()

	var buf bytes.Buffer
	if err := gocsv.Marshal(&entries, &buf); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to marshal run report to CSV").
			Mark(ierr.ErrInternal)
	}
	return buf.Bytes(), nil
}

// WriteFile writes the CSV report to path.
func (r *Recorder) WriteFile(path string) ([]byte, error) {
	data, err := r.CSV()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to write run report to %s", path).
			Mark(ierr.ErrSystem)
	}
	return data, nil
}
