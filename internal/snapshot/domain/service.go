package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// Backup copies the rows for the given dates and metric types into a side
	// table named metric_snapshots_backup_<suffix>, replacing any previous
	// table of the same name.
	Backup(ctx context.Context, db *gorm.DB, dates []time.Time, metricTypes []string, suffix string) error
	// DeleteDates removes rows for the given dates, restricted to the metric
	// types the writing job owns so concurrent reports keep their rows.
	DeleteDates(ctx context.Context, db *gorm.DB, dates []time.Time, metricTypes []string) error
	Append(ctx context.Context, db *gorm.DB, rows []MetricRow) error

	LatestDate(ctx context.Context, db *gorm.DB, metricTypes []string) (time.Time, error)
	RowsAt(ctx context.Context, db *gorm.DB, date time.Time, metricTypes []string) ([]MetricRow, error)
	DistinctDates(ctx context.Context, db *gorm.DB, metricTypes []string, since time.Time) ([]time.Time, error)

	InsertRun(ctx context.Context, db *gorm.DB, run *Run) error
}

type WriteOptions struct {
	DryRun bool
}

type WriteResult struct {
	RunID   string
	Rows    int
	DryRun  bool
	CSVPath string
}

// Writer persists a job's metric rows for a snapshot date.
type Writer interface {
	Write(ctx context.Context, job string, rows []MetricRow, opts WriteOptions) (WriteResult, error)
}

// Reader serves the precomputed rows to the HTTP API.
type Reader interface {
	Latest(ctx context.Context, metricTypes []string) (time.Time, []MetricRow, error)
	// MonthlyTrend returns the rows of the latest snapshot date in each of the
	// last months calendar months, newest month first.
	MonthlyTrend(ctx context.Context, metricTypes []string, months int) ([]TrendPoint, error)
}

// TrendPoint is the snapshot chosen to represent one calendar month.
type TrendPoint struct {
	Date  time.Time
	Label string
	Rows  []MetricRow
}

var (
	ErrEmptySnapshot      = errors.New("empty_snapshot")
	ErrInvalidSnapshotRow = errors.New("invalid_snapshot_row")
	ErrNoSnapshots        = errors.New("no_snapshots")
)
