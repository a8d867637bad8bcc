package service

import (
	"context"
	"encoding/csv"
	"os"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/clock"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestWriter(t *testing.T) (*writer, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.MetricRow{}, &domain.Run{}))

	w := &writer{
		db:     db,
		log:    zaptest.NewLogger(t),
		outDir: t.TempDir(),
		clock:  clock.NewFakeClock(time.Date(2026, 9, 1, 3, 0, 0, 0, time.UTC)),
		repo:   repository.Provide(),
	}
	return w, db
}

func snapshotRows(date time.Time, metricType string, n int) []domain.MetricRow {
	rows := make([]domain.MetricRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, domain.CountRow(date, metricType, "", "row", int64(i)))
	}
	return rows
}

func TestWriterReplacesRowsForSameDate(t *testing.T) {
	w, db := newTestWriter(t)
	ctx := context.Background()
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	res, err := w.Write(ctx, "revenue", snapshotRows(date, "total_mrr", 3), domain.WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Rows)
	assert.NotEmpty(t, res.RunID)

	// A second write for the same date replaces, never appends.
	res, err = w.Write(ctx, "revenue", snapshotRows(date, "total_mrr", 2), domain.WriteOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)

	var count int64
	require.NoError(t, db.Model(&domain.MetricRow{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// The replaced rows survive in the job's dated backup table.
	var backed int64
	require.NoError(t, db.Table("metric_snapshots_backup_revenue_20260901").Count(&backed).Error)
	assert.Equal(t, int64(3), backed)
}

func TestWriterLeavesOtherJobsRowsAlone(t *testing.T) {
	w, db := newTestWriter(t)
	ctx := context.Background()
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	_, err := w.Write(ctx, "revenue", snapshotRows(date, "total_mrr", 3), domain.WriteOptions{})
	require.NoError(t, err)
	_, err = w.Write(ctx, "customers", snapshotRows(date, "total_customers", 2), domain.WriteOptions{})
	require.NoError(t, err)

	// The customers run replaces only its own metric types.
	var mrrRows int64
	require.NoError(t, db.Model(&domain.MetricRow{}).Where("metric_type = ?", "total_mrr").Count(&mrrRows).Error)
	assert.Equal(t, int64(3), mrrRows)

	// Re-running one job on the same date still replaces its rows.
	_, err = w.Write(ctx, "customers", snapshotRows(date, "total_customers", 4), domain.WriteOptions{})
	require.NoError(t, err)

	var custRows int64
	require.NoError(t, db.Model(&domain.MetricRow{}).Where("metric_type = ?", "total_customers").Count(&custRows).Error)
	assert.Equal(t, int64(4), custRows)
	require.NoError(t, db.Model(&domain.MetricRow{}).Where("metric_type = ?", "total_mrr").Count(&mrrRows).Error)
	assert.Equal(t, int64(3), mrrRows)
}

func TestWriterScopesReplacementToJobMetricTypes(t *testing.T) {
	w, db := newTestWriter(t)
	ctx := context.Background()
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	rows := append(snapshotRows(date, "total_mrr", 2), snapshotRows(date, "total_arr", 2)...)
	_, err := w.Write(ctx, "revenue", rows, domain.WriteOptions{})
	require.NoError(t, err)
	_, err = w.Write(ctx, "geographic", snapshotRows(date, "mrr_by_country", 5), domain.WriteOptions{})
	require.NoError(t, err)

	// Each job's backup table holds only that job's rows.
	var backed int64
	require.NoError(t, db.Table("metric_snapshots_backup_geographic_20260901").Count(&backed).Error)
	assert.Zero(t, backed)

	var total int64
	require.NoError(t, db.Model(&domain.MetricRow{}).Count(&total).Error)
	assert.Equal(t, int64(9), total)
}

func TestWriterLeavesOtherDatesAlone(t *testing.T) {
	w, db := newTestWriter(t)
	ctx := context.Background()
	july := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	august := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	_, err := w.Write(ctx, "revenue", snapshotRows(july, "total_mrr", 2), domain.WriteOptions{})
	require.NoError(t, err)
	_, err = w.Write(ctx, "revenue", snapshotRows(august, "total_mrr", 2), domain.WriteOptions{})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.MetricRow{}).Where("snapshot_date = ?", july).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestWriterDryRunWritesCSVOnly(t *testing.T) {
	w, db := newTestWriter(t)
	ctx := context.Background()
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	res, err := w.Write(ctx, "revenue", snapshotRows(date, "total_mrr", 3), domain.WriteOptions{DryRun: true})
	require.NoError(t, err)
	assert.True(t, res.DryRun)
	require.NotEmpty(t, res.CSVPath)

	f, err := os.Open(res.CSVPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "snapshot_date", records[0][0])
	assert.Equal(t, "2026-08-31", records[1][0])
	assert.Equal(t, "total_mrr", records[1][1])

	var count int64
	require.NoError(t, db.Model(&domain.MetricRow{}).Count(&count).Error)
	assert.Zero(t, count)

	var run domain.Run
	require.NoError(t, db.Where("run_id = ?", res.RunID).First(&run).Error)
	assert.Equal(t, domain.RunStatusDryRun, run.Status)
	assert.True(t, run.DryRun)
}

func TestWriterRejectsEmptySnapshot(t *testing.T) {
	w, db := newTestWriter(t)

	_, err := w.Write(context.Background(), "revenue", nil, domain.WriteOptions{})
	assert.ErrorIs(t, err, domain.ErrEmptySnapshot)

	var run domain.Run
	require.NoError(t, db.Where("job = ?", "revenue").First(&run).Error)
	assert.Equal(t, domain.RunStatusSkipped, run.Status)
}

func TestWriterRejectsInvalidRows(t *testing.T) {
	w, db := newTestWriter(t)
	rows := []domain.MetricRow{
		domain.CountRow(time.Time{}, "total_mrr", "", "zero date", 1),
	}

	_, err := w.Write(context.Background(), "revenue", rows, domain.WriteOptions{})
	assert.ErrorIs(t, err, domain.ErrInvalidSnapshotRow)

	var count int64
	require.NoError(t, db.Model(&domain.MetricRow{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestWriterRecordsRunAudit(t *testing.T) {
	w, db := newTestWriter(t)
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	res, err := w.Write(context.Background(), "customers", snapshotRows(date, "total_customers", 5), domain.WriteOptions{})
	require.NoError(t, err)

	var run domain.Run
	require.NoError(t, db.Where("run_id = ?", res.RunID).First(&run).Error)
	assert.Equal(t, "customers", run.Job)
	assert.Equal(t, domain.RunStatusWritten, run.Status)
	assert.Equal(t, 5, run.Rows)
	assert.True(t, run.SnapshotDate.UTC().Equal(date))
	assert.False(t, run.FinishedAt.Before(run.StartedAt))
}
