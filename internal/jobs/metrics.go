package jobmetrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus collectors for background jobs.
type Metrics struct {
	runs          *prometheus.CounterVec
	failures      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	catalogIssues *prometheus.GaugeVec
	staleQuotes   prometheus.Gauge
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the job metrics against the provided registerer. When the
// registerer is nil the default Prometheus registerer is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

// Tracker provides lifecycle instrumentation helpers for a single job run.
type Tracker struct {
	metrics *Metrics
	job     string
	start   time.Time
}

// Track spawns a tracker for the given job name.
func (m *Metrics) Track(job string) *Tracker {
	if m == nil {
		return &Tracker{job: job, start: time.Now()}
	}
	return &Tracker{metrics: m, job: job, start: time.Now()}
}

// End finalises the tracker, recording duration, success/failure counts and
// returning the provided error untouched.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil || t.job == "" {
		return err
	}
	status := "success"
	if err != nil {
		status = "failure"
		t.metrics.failures.WithLabelValues(t.job).Inc()
	}
	t.metrics.runs.WithLabelValues(t.job, status).Inc()
	t.metrics.duration.WithLabelValues(t.job).Observe(time.Since(t.start).Seconds())
	return err
}

// SetCatalogIssues records how many issues the last audit found in family.
func (m *Metrics) SetCatalogIssues(family string, count int) {
	if m == nil {
		return
	}
	m.catalogIssues.WithLabelValues(family).Set(float64(count))
}

// SetStaleQuotes records how many current quotes the last digest found stale.
func (m *Metrics) SetStaleQuotes(count int) {
	if m == nil {
		return
	}
	m.staleQuotes.Set(float64(count))
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "buildmat_jobs_total",
		Help: "Total job executions partitioned by job name and status.",
	}, []string{"job", "status"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "buildmat_jobs_failures_total",
		Help: "Total failures observed for background jobs.",
	}, []string{"job"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "buildmat_job_duration_seconds",
		Help:    "Duration in seconds of background job executions.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	catalogIssues := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "buildmat_catalog_issues",
		Help: "Data issues found by the last catalog audit, per family.",
	}, []string{"family"})
	staleQuotes := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "buildmat_stale_price_quotes",
		Help: "Current price quotes older than the digest staleness window.",
	})
	registerer.MustRegister(runs, failures, duration, catalogIssues, staleQuotes)
	return &Metrics{
		runs:          runs,
		failures:      failures,
		duration:      duration,
		catalogIssues: catalogIssues,
		staleQuotes:   staleQuotes,
	}
}
