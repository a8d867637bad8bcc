package metrics

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReportingMetrics captures snapshot pipeline health signals exposed on /metrics.
type ReportingMetrics struct {
	jobRuns     *prometheus.CounterVec
	jobErrors   *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	rowsWritten *prometheus.CounterVec
	fxFallback  *prometheus.CounterVec
}

var (
	reportingMetricsOnce sync.Once
	reportingMetrics     *ReportingMetrics
)

// Reporting returns the singleton reporting metrics registry.
func Reporting() *ReportingMetrics {
	reportingMetricsOnce.Do(func() {
		reportingMetrics = newReportingMetrics(prometheus.DefaultRegisterer)
	})
	return reportingMetrics
}

// ResetReportingMetricsForTest resets the reporting metrics singleton for tests.
func ResetReportingMetricsForTest() {
	reportingMetricsOnce = sync.Once{}
	reportingMetrics = nil
}

func newReportingMetrics(registerer prometheus.Registerer) *ReportingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promFactory{registerer}

	return &ReportingMetrics{
		jobRuns: factory.counterVec(prometheus.CounterOpts{
			Name: "reporting_snapshot_job_runs_total",
			Help: "Snapshot job executions by job name.",
		}, []string{"job"}),
		jobErrors: factory.counterVec(prometheus.CounterOpts{
			Name: "reporting_snapshot_job_errors_total",
			Help: "Snapshot job failures by job name.",
		}, []string{"job"}),
		jobDuration: factory.histogramVec(prometheus.HistogramOpts{
			Name:    "reporting_snapshot_job_duration_seconds",
			Help:    "Snapshot job wall time by job name.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
		}, []string{"job"}),
		rowsWritten: factory.counterVec(prometheus.CounterOpts{
			Name: "reporting_snapshot_rows_written_total",
			Help: "Metric snapshot rows appended by job name.",
		}, []string{"job"}),
		fxFallback: factory.counterVec(prometheus.CounterOpts{
			Name: "reporting_fx_fallback_total",
			Help: "Currency conversions that fell back to a 1.0 factor.",
		}, []string{"currency"}),
	}
}

func (m *ReportingMetrics) IncJobRun(job string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(jobLabel(job)).Inc()
}

func (m *ReportingMetrics) IncJobError(job string) {
	if m == nil {
		return
	}
	m.jobErrors.WithLabelValues(jobLabel(job)).Inc()
}

func (m *ReportingMetrics) ObserveJobDuration(job string, d time.Duration) {
	if m == nil {
		return
	}
	m.jobDuration.WithLabelValues(jobLabel(job)).Observe(d.Seconds())
}

func (m *ReportingMetrics) AddRowsWritten(job string, rows int) {
	if m == nil || rows <= 0 {
		return
	}
	m.rowsWritten.WithLabelValues(jobLabel(job)).Add(float64(rows))
}

func (m *ReportingMetrics) IncFXFallback(currency string) {
	if m == nil {
		return
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "unknown"
	}
	m.fxFallback.WithLabelValues(currency).Inc()
}

func jobLabel(job string) string {
	job = strings.TrimSpace(job)
	if job == "" {
		return "unknown"
	}
	return job
}

type promFactory struct {
	registerer prometheus.Registerer
}

func (f promFactory) counterVec(opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	vec := prometheus.NewCounterVec(opts, labels)
	if existing := f.register(vec); existing != nil {
		if v, ok := existing.(*prometheus.CounterVec); ok {
			return v
		}
	}
	return vec
}

func (f promFactory) histogramVec(opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	vec := prometheus.NewHistogramVec(opts, labels)
	if existing := f.register(vec); existing != nil {
		if v, ok := existing.(*prometheus.HistogramVec); ok {
			return v
		}
	}
	return vec
}

func (f promFactory) register(c prometheus.Collector) prometheus.Collector {
	if err := f.registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return are.ExistingCollector
		}
	}
	return nil
}
