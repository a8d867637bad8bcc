package service

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	catalogrepository "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/catalog/repository"
	companyrepository "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/company/repository"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/config"
	contractrepository "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/repository"
	fxrepository "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate/repository"
	fxservice "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate/service"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/migration"
	requisitionrepository "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/requisition/repository"
	snapshotdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newTestDeps(t *testing.T) deps {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, migration.AutoMigrate(db))

	log := zaptest.NewLogger(t)
	fxSvc, err := fxservice.New(fxservice.Params{
		DB:   db,
		Log:  log,
		Cfg:  config.Config{Snapshot: config.SnapshotConfig{TargetCurrency: "AUD"}},
		Repo: fxrepository.Provide(),
	})
	require.NoError(t, err)

	return deps{
		db:           db,
		log:          log,
		contracts:    contractrepository.Provide(),
		companies:    companyrepository.Provide(),
		fx:           fxSvc,
		catalog:      catalogrepository.Provide(),
		requisitions: requisitionrepository.Provide(),
	}
}

func findRow(t *testing.T, rows []snapshotdomain.MetricRow, metricType, entityID string) snapshotdomain.MetricRow {
	t.Helper()
	for _, row := range rows {
		if row.MetricType == metricType && row.EntityID == entityID {
			return row
		}
	}
	t.Fatalf("row %s/%s not found in %d rows", metricType, entityID, len(rows))
	return snapshotdomain.MetricRow{}
}

func countValue(t *testing.T, rows []snapshotdomain.MetricRow, metricType, entityID string) int64 {
	t.Helper()
	row := findRow(t, rows, metricType, entityID)
	require.NotNil(t, row.Count, "count column missing on %s", metricType)
	return *row.Count
}

func audValue(t *testing.T, rows []snapshotdomain.MetricRow, metricType, entityID string) float64 {
	t.Helper()
	row := findRow(t, rows, metricType, entityID)
	require.NotNil(t, row.ValueAUD, "value column missing on %s", metricType)
	return *row.ValueAUD
}

func pctValue(t *testing.T, rows []snapshotdomain.MetricRow, metricType, entityID string) float64 {
	t.Helper()
	row := findRow(t, rows, metricType, entityID)
	require.NotNil(t, row.Percentage, "percentage column missing on %s", metricType)
	return *row.Percentage
}

func mustDate(y int, m time.Month, d int) *time.Time {
	out := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &out
}
