package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/buildmat/buildmat/internal/catalog"
	jobmetrics "github.com/buildmat/buildmat/internal/jobs"
)

type catalogAuditor interface {
	Audit(ctx context.Context) ([]catalog.Issue, error)
}

// CatalogAuditJob reports catalog entries that would break the calculators,
// such as zero-area units or shipping tables with gaps.
type CatalogAuditJob struct {
	Catalog catalogAuditor
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewCatalogAuditJob initialises the catalog audit handler.
func NewCatalogAuditJob(auditor catalogAuditor, logger *slog.Logger, metrics *jobmetrics.Metrics) *CatalogAuditJob {
	return &CatalogAuditJob{Catalog: auditor, Logger: logger, Metrics: metrics}
}

// Handle executes the audit.
func (j *CatalogAuditJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Catalog == nil {
		return errors.New("catalog audit: handler not configured")
	}
	var payload CatalogAuditPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("catalog audit: decode payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	start := time.Now()
	tracker := j.metrics().Track(TaskCatalogAudit)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting catalog audit")

	issues, err := j.Catalog.Audit(ctx)
	if err != nil {
		logger.Error("catalog audit failed", slog.Any("error", err))
		return err
	}

	perFamily := make(map[catalog.Family]int, len(catalog.Families))
	for _, f := range catalog.Families {
		perFamily[f] = 0
	}
	for _, issue := range issues {
		perFamily[issue.Family]++
		logger.Warn("catalog issue",
			slog.String("family", string(issue.Family)),
			slog.Int64("entry_id", issue.EntryID),
			slog.String("message", issue.Message),
		)
	}
	for family, count := range perFamily {
		j.metrics().SetCatalogIssues(string(family), count)
	}

	logger.Info("completed catalog audit",
		slog.Int("issues", len(issues)),
		slog.Duration("duration", time.Since(start)),
	)
	if payload.FailOnIssues && len(issues) > 0 {
		return fmt.Errorf("catalog audit: %d issues found", len(issues))
	}
	return nil
}

func (j *CatalogAuditJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskCatalogAudit))
	}
	return slog.Default().With(slog.String("job", TaskCatalogAudit))
}

func (j *CatalogAuditJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
