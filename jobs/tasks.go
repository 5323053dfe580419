package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/buildmat/buildmat/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogAudit checks every catalog file for data the calculators cannot handle.
	TaskCatalogAudit = "catalog:audit"
	// TaskPriceDigest summarises the current quote per supplier and category.
	TaskPriceDigest = "prices:digest"

	// DefaultStaleAfterDays is the age at which a current quote is reported stale.
	DefaultStaleAfterDays = 90
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// CatalogAuditPayload is the payload of TaskCatalogAudit.
type CatalogAuditPayload struct {
	// FailOnIssues makes the task fail, and so retry, when issues are found.
	FailOnIssues bool `json:"fail_on_issues,omitempty"`
}

// PriceDigestPayload is the payload of TaskPriceDigest.
type PriceDigestPayload struct {
	StaleAfterDays int    `json:"stale_after_days,omitempty"`
	Category       string `json:"category,omitempty"`
}

// NewCatalogAuditTask constructs a catalog audit task.
func NewCatalogAuditTask(payload CatalogAuditPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", TaskCatalogAudit, err)
	}
	return asynq.NewTask(TaskCatalogAudit, data), nil
}

// NewPriceDigestTask constructs a price digest task.
func NewPriceDigestTask(payload PriceDigestPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", TaskPriceDigest, err)
	}
	return asynq.NewTask(TaskPriceDigest, data), nil
}

// NewTask builds a task by name with default payload.
func NewTask(name string) (*asynq.Task, error) {
	switch name {
	case TaskCatalogAudit:
		return NewCatalogAuditTask(CatalogAuditPayload{})
	case TaskPriceDigest:
		return NewPriceDigestTask(PriceDigestPayload{StaleAfterDays: DefaultStaleAfterDays})
	default:
		return nil, fmt.Errorf("jobs: unsupported task %q", name)
	}
}
