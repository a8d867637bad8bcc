package domain

import "time"

// MetricRow is one precomputed business metric, pinned to a snapshot date.
// Rows are replaced wholesale per date and metric type; the surrogate key
// only exists so the id column stays a plain entity reference.
type MetricRow struct {
	RowID        int64     `gorm:"column:row_id;primaryKey;autoIncrement" json:"-"`
	SnapshotDate time.Time `gorm:"column:snapshot_date;index" json:"snapshot_date"`
	MetricType   string    `gorm:"column:metric_type;index" json:"metric_type"`
	EntityID     string    `gorm:"column:id" json:"id"`
	Label        string    `gorm:"column:label" json:"label"`
	Count        *int64    `gorm:"column:count" json:"count,omitempty"`
	ValueAUD     *float64  `gorm:"column:value_aud" json:"value_aud,omitempty"`
	Percentage   *float64  `gorm:"column:percentage" json:"percentage,omitempty"`
	Rank         *int64    `gorm:"column:rank" json:"rank,omitempty"`
}

func (MetricRow) TableName() string {
	return "metric_snapshots"
}

// Run is the audit record of one writer invocation.
type Run struct {
	RunID        string    `gorm:"primaryKey" json:"run_id"`
	Job          string    `gorm:"not null;index" json:"job"`
	SnapshotDate time.Time `gorm:"not null" json:"snapshot_date"`
	Rows         int       `gorm:"not null" json:"rows"`
	DryRun       bool      `gorm:"not null" json:"dry_run"`
	Status       string    `gorm:"not null" json:"status"`
	Error        string    `json:"error,omitempty"`
	StartedAt    time.Time `gorm:"not null" json:"started_at"`
	FinishedAt   time.Time `gorm:"not null" json:"finished_at"`
}

func (Run) TableName() string {
	return "snapshot_runs"
}

// Run statuses.
const (
	RunStatusWritten = "written"
	RunStatusDryRun  = "dry_run"
	RunStatusSkipped = "skipped"
	RunStatusFailed  = "failed"
)

// Row constructors keep the aggregators free of pointer noise.

func CountRow(date time.Time, metricType, id, label string, count int64) MetricRow {
	return MetricRow{SnapshotDate: date, MetricType: metricType, EntityID: id, Label: label, Count: &count}
}

func ValueRow(date time.Time, metricType, id, label string, value float64) MetricRow {
	return MetricRow{SnapshotDate: date, MetricType: metricType, EntityID: id, Label: label, ValueAUD: &value}
}

func PercentageRow(date time.Time, metricType, id, label string, pct float64) MetricRow {
	return MetricRow{SnapshotDate: date, MetricType: metricType, EntityID: id, Label: label, Percentage: &pct}
}

func (r MetricRow) WithCount(count int64) MetricRow {
	r.Count = &count
	return r
}

func (r MetricRow) WithValue(value float64) MetricRow {
	r.ValueAUD = &value
	return r
}

func (r MetricRow) WithPercentage(pct float64) MetricRow {
	r.Percentage = &pct
	return r
}

func (r MetricRow) WithRank(rank int64) MetricRow {
	r.Rank = &rank
	return r
}
