package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/buildmat/buildmat/internal/jobs"
	"github.com/buildmat/buildmat/internal/prices"
	"github.com/buildmat/buildmat/internal/shared"
	"github.com/buildmat/buildmat/internal/suppliers"
)

type currentPricer interface {
	MostRecent(ctx context.Context, filter prices.CurrentFilter) ([]prices.Record, error)
}

type supplierLister interface {
	List(ctx context.Context, activeOnly bool) ([]suppliers.Supplier, error)
}

// DigestEntry is one line of the price digest.
type DigestEntry struct {
	Record   prices.Record
	Supplier string
	AgeDays  int
	Stale    bool
	Orphan   bool
	Inactive bool
}

// PriceDigestJob logs the current quote per supplier and category and flags
// quotes that are old or point at inactive or unknown suppliers.
type PriceDigestJob struct {
	Prices    currentPricer
	Suppliers supplierLister
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewPriceDigestJob initialises the price digest handler.
func NewPriceDigestJob(prices currentPricer, suppliers supplierLister, logger *slog.Logger, metrics *jobmetrics.Metrics) *PriceDigestJob {
	return &PriceDigestJob{
		Prices:    prices,
		Suppliers: suppliers,
		Logger:    logger,
		Metrics:   metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the digest.
func (j *PriceDigestJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Prices == nil || j.Suppliers == nil {
		return errors.New("price digest: handler not configured")
	}
	var payload PriceDigestPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("price digest: decode payload: %v: %w", err, asynq.SkipRetry)
		}
	}
	if payload.StaleAfterDays <= 0 {
		payload.StaleAfterDays = DefaultStaleAfterDays
	}

	tracker := j.metrics().Track(TaskPriceDigest)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("stale_after_days", payload.StaleAfterDays))
	entries, err := j.Digest(ctx, payload)
	if err != nil {
		logger.Error("price digest failed", slog.Any("error", err))
		return err
	}

	stale := 0
	for _, e := range entries {
		attrs := []any{
			slog.Int64("record_id", e.Record.ID),
			slog.Int64("supplier_id", e.Record.SupplierID),
			slog.String("supplier", e.Supplier),
			slog.String("category", e.Record.Category),
			slog.String("date", e.Record.Date),
			slog.Int("age_days", e.AgeDays),
			slog.Int("products", len(e.Record.Products)),
		}
		switch {
		case e.Orphan:
			logger.Warn("current quote references unknown supplier", attrs...)
		case e.Inactive:
			logger.Warn("current quote from inactive supplier", attrs...)
		case e.Stale:
			logger.Warn("current quote is stale", attrs...)
		default:
			logger.Info("current quote", attrs...)
		}
		if e.Stale {
			stale++
		}
	}
	j.metrics().SetStaleQuotes(stale)
	logger.Info("completed price digest", slog.Int("quotes", len(entries)), slog.Int("stale", stale))
	return nil
}

// Digest builds the digest entries without logging them.
func (j *PriceDigestJob) Digest(ctx context.Context, payload PriceDigestPayload) ([]DigestEntry, error) {
	if payload.StaleAfterDays <= 0 {
		payload.StaleAfterDays = DefaultStaleAfterDays
	}
	current, err := j.Prices.MostRecent(ctx, prices.CurrentFilter{Category: payload.Category})
	if err != nil {
		return nil, err
	}
	all, err := j.Suppliers.List(ctx, false)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]suppliers.Supplier, len(all))
	for _, s := range all {
		byID[s.ID] = s
	}

	today := j.now()
	entries := make([]DigestEntry, 0, len(current))
	for _, rec := range current {
		entry := DigestEntry{Record: rec, AgeDays: -1}
		if sup, ok := byID[rec.SupplierID]; ok {
			entry.Supplier = sup.Name
			entry.Inactive = !sup.Active
		} else {
			entry.Orphan = true
		}
		if quoted, err := time.Parse(shared.DateLayout, rec.Date); err == nil {
			entry.AgeDays = int(today.Sub(quoted).Hours() / 24)
			entry.Stale = entry.AgeDays > payload.StaleAfterDays
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (j *PriceDigestJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskPriceDigest))
	}
	return slog.Default().With(slog.String("job", TaskPriceDigest))
}

func (j *PriceDigestJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *PriceDigestJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
