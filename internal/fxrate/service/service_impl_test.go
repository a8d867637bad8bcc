package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/config"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

func newFXService(t *testing.T) (*gorm.DB, domain.Service) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.FXRate{}))

	svc, err := New(Params{
		DB:   db,
		Log:  zaptest.NewLogger(t),
		Cfg:  config.Config{Snapshot: config.SnapshotConfig{TargetCurrency: "AUD"}},
		Repo: repository.Provide(),
	})
	require.NoError(t, err)
	return db, svc
}

func TestNewRequiresTargetCurrency(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	_, err = New(Params{
		DB:   db,
		Log:  zaptest.NewLogger(t),
		Cfg:  config.Config{},
		Repo: repository.Provide(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTarget)
}

func TestConverterUsesLatestRatePerCurrency(t *testing.T) {
	db, svc := newFXService(t)
	asOf := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create([]domain.FXRate{
		{BaseCurrency: "USD", TargetCurrency: "AUD", Rate: 1.4, FXDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{BaseCurrency: "USD", TargetCurrency: "AUD", Rate: 1.5, FXDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		// A rate observed after asOf must not win.
		{BaseCurrency: "USD", TargetCurrency: "AUD", Rate: 2.0, FXDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{BaseCurrency: "PHP", TargetCurrency: "AUD", Rate: 0.027, FXDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
	}).Error)

	conv, err := svc.ConverterAt(context.Background(), asOf)
	require.NoError(t, err)

	got, fallback := conv.Convert(100, "USD")
	assert.False(t, fallback)
	assert.InDelta(t, 150, got, 1e-9)

	got, fallback = conv.Convert(1000, "PHP")
	assert.False(t, fallback)
	assert.InDelta(t, 27, got, 1e-9)
}

func TestConverterFallsBackToUnitFactor(t *testing.T) {
	_, svc := newFXService(t)

	conv, err := svc.ConverterAt(context.Background(), time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	got, fallback := conv.Convert(1800, "EUR")
	assert.True(t, fallback)
	assert.InDelta(t, 1800, got, 1e-9)
}

func TestConverterTargetCurrencyPassthrough(t *testing.T) {
	_, svc := newFXService(t)

	conv, err := svc.ConverterAt(context.Background(), time.Now().UTC())
	require.NoError(t, err)

	got, fallback := conv.Convert(250, "AUD")
	assert.False(t, fallback)
	assert.InDelta(t, 250, got, 1e-9)

	got, fallback = conv.Convert(250, "")
	assert.False(t, fallback)
	assert.InDelta(t, 250, got, 1e-9)
}

func TestConverterDateTiesBrokenByNewestRow(t *testing.T) {
	db, svc := newFXService(t)
	date := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create([]domain.FXRate{
		{BaseCurrency: "USD", TargetCurrency: "AUD", Rate: 1.45, FXDate: date},
		{BaseCurrency: "USD", TargetCurrency: "AUD", Rate: 1.55, FXDate: date},
	}).Error)

	conv, err := svc.ConverterAt(context.Background(), date.AddDate(0, 0, 1))
	require.NoError(t, err)

	got, fallback := conv.Convert(100, "USD")
	assert.False(t, fallback)
	assert.InDelta(t, 155, got, 1e-9)
}
