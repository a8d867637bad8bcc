package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestReader(t *testing.T) (*reader, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.MetricRow{}))

	r := &reader{
		db:   db,
		log:  zaptest.NewLogger(t),
		repo: repository.Provide(),
	}
	return r, db
}

func seedSnapshot(t *testing.T, db *gorm.DB, date time.Time, metricType string, count int64) {
	t.Helper()
	row := domain.CountRow(date, metricType, "", "row", count)
	require.NoError(t, db.Create(&row).Error)
}

func TestReaderLatestPicksNewestDate(t *testing.T) {
	r, db := newTestReader(t)
	ctx := context.Background()
	older := time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	seedSnapshot(t, db, older, "total_customers", 5)
	seedSnapshot(t, db, newer, "total_customers", 7)

	date, rows, err := r.Latest(ctx, []string{"total_customers"})
	require.NoError(t, err)
	assert.True(t, date.Equal(newer), "latest date %s", date)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), *rows[0].Count)
}

func TestReaderLatestFiltersMetricTypes(t *testing.T) {
	r, db := newTestReader(t)
	date := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	seedSnapshot(t, db, date, "total_customers", 5)
	seedSnapshot(t, db, date, "total_mrr", 9)

	_, rows, err := r.Latest(context.Background(), []string{"total_mrr"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "total_mrr", rows[0].MetricType)
}

func TestReaderLatestEmptyStore(t *testing.T) {
	r, _ := newTestReader(t)

	_, _, err := r.Latest(context.Background(), []string{"total_customers"})
	assert.ErrorIs(t, err, domain.ErrNoSnapshots)
}

func TestReaderMonthlyTrendPicksLatestSnapshotPerMonth(t *testing.T) {
	r, db := newTestReader(t)
	// Two snapshots in August: only the later one should represent the month.
	seedSnapshot(t, db, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), "total_customers", 6)
	seedSnapshot(t, db, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), "total_customers", 7)
	seedSnapshot(t, db, time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC), "total_customers", 5)
	seedSnapshot(t, db, time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC), "total_customers", 4)

	points, err := r.MonthlyTrend(context.Background(), []string{"total_customers"}, 12)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, "Aug 2026", points[0].Label)
	assert.True(t, points[0].Date.Equal(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(7), *points[0].Rows[0].Count)
	assert.Equal(t, "Jul 2026", points[1].Label)
	assert.Equal(t, "Jun 2026", points[2].Label)
}

func TestReaderMonthlyTrendHonorsWindow(t *testing.T) {
	r, db := newTestReader(t)
	for m := time.Month(1); m <= 8; m++ {
		seedSnapshot(t, db, time.Date(2026, m, 28, 0, 0, 0, 0, time.UTC), "total_customers", int64(m))
	}

	points, err := r.MonthlyTrend(context.Background(), []string{"total_customers"}, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.Equal(t, "Aug 2026", points[0].Label)
	assert.Equal(t, "Jun 2026", points[2].Label)
}

func TestReaderMonthlyTrendEmptyStore(t *testing.T) {
	r, _ := newTestReader(t)

	_, err := r.MonthlyTrend(context.Background(), []string{"total_customers"}, 12)
	assert.ErrorIs(t, err, domain.ErrNoSnapshots)
}
