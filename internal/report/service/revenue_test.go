package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	companydomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/company/domain"
	contractdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/domain"
	fxratedomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRevenueJobEmptyWarehouse(t *testing.T) {
	d := newTestDeps(t)
	job := &revenueJob{deps: d, log: zaptest.NewLogger(t)}
	p := domain.PeriodAt(time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC))

	rows, err := job.Build(context.Background(), p)
	require.NoError(t, err)

	assert.Zero(t, countValue(t, rows, domain.MetricTotalActiveSubscriptions, ""))
	assert.Zero(t, audValue(t, rows, domain.MetricTotalMRR, ""))
	assert.Zero(t, audValue(t, rows, domain.MetricTotalARR, ""))
	// Zero denominators must produce zero, never NaN.
	assert.Zero(t, audValue(t, rows, domain.MetricAvgSubscriptionValue, ""))
	assert.Zero(t, pctValue(t, rows, domain.MetricChurnRate, ""))
	assert.Zero(t, pctValue(t, rows, domain.MetricRetentionRate, ""))
	assert.Zero(t, pctValue(t, rows, domain.MetricRecurringRevenuePct, ""))
}

func TestRevenueJobChurnAndRetention(t *testing.T) {
	d := newTestDeps(t)
	asOf := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	p := domain.PeriodAt(asOf)
	started := mustDate(2026, time.March, 1)
	inMonth := time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC)

	require.NoError(t, d.db.Create(&companydomain.Company{ID: "co_1", Name: "One", CreatedAt: asOf.AddDate(0, -6, 0)}).Error)

	// Eight survivors plus two contracts churned inside the month: a book of
	// ten at month start.
	var contracts []contractdomain.Contract
	for i := 0; i < 8; i++ {
		contracts = append(contracts, contractdomain.Contract{
			ID: fmt.Sprintf("ct_a%d", i), CompanyID: "co_1", Status: contractdomain.StatusActive,
			StartDate: started, Currency: "AUD", EORFee: 100,
			CreatedAt: started.AddDate(0, 0, -7), UpdatedAt: started.AddDate(0, 0, -7),
		})
	}
	for i := 0; i < 2; i++ {
		contracts = append(contracts, contractdomain.Contract{
			ID: fmt.Sprintf("ct_c%d", i), CompanyID: "co_1", Status: contractdomain.StatusEnded,
			StartDate: started, Currency: "AUD", EORFee: 100,
			CreatedAt: started.AddDate(0, 0, -7), UpdatedAt: inMonth,
		})
	}
	require.NoError(t, d.db.Create(contracts).Error)

	job := &revenueJob{deps: d, log: zaptest.NewLogger(t)}
	rows, err := job.Build(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, int64(8), countValue(t, rows, domain.MetricTotalActiveSubscriptions, ""))
	assert.Equal(t, int64(2), countValue(t, rows, domain.MetricChurnedSubscriptions, ""))
	assert.InDelta(t, 20, pctValue(t, rows, domain.MetricChurnRate, ""), 1e-9)
	assert.InDelta(t, 80, pctValue(t, rows, domain.MetricRetentionRate, ""), 1e-9)
}

func TestRevenueJobMRRConversionAndARR(t *testing.T) {
	d := newTestDeps(t)
	asOf := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	p := domain.PeriodAt(asOf)
	started := mustDate(2026, time.February, 1)

	require.NoError(t, d.db.Create(&companydomain.Company{ID: "co_1", Name: "One", CreatedAt: asOf.AddDate(0, -6, 0)}).Error)
	require.NoError(t, d.db.Create(&fxratedomain.FXRate{
		BaseCurrency: "USD", TargetCurrency: "AUD", Rate: 1.5,
		FXDate: asOf.AddDate(0, 0, -3),
	}).Error)
	require.NoError(t, d.db.Create(&contractdomain.Contract{
		ID: "ct_1", CompanyID: "co_1", Status: contractdomain.StatusActive,
		StartDate: started, Currency: "USD", EORFee: 100,
		CreatedAt: started.AddDate(0, 0, -7), UpdatedAt: started.AddDate(0, 0, -7),
	}).Error)

	job := &revenueJob{deps: d, log: zaptest.NewLogger(t)}
	rows, err := job.Build(context.Background(), p)
	require.NoError(t, err)

	// 100 USD at 1.5 is 150 AUD of MRR, 1800 AUD of ARR.
	assert.InDelta(t, 150, audValue(t, rows, domain.MetricTotalMRR, ""), 1e-9)
	assert.InDelta(t, 1800, audValue(t, rows, domain.MetricTotalARR, ""), 1e-9)
	assert.InDelta(t, 150, audValue(t, rows, domain.MetricEORMRR, ""), 1e-9)
	assert.InDelta(t, 12*audValue(t, rows, domain.MetricTotalMRR, ""), audValue(t, rows, domain.MetricTotalARR, ""), 1e-9)
	// A book with only EOR fees carries no add-on revenue.
	assert.Zero(t, audValue(t, rows, domain.MetricAddonMRR, ""))
	assert.Zero(t, pctValue(t, rows, domain.MetricAddonPercentage, ""))
}

func TestRevenueJobARRIsExactMultipleOfPersistedMRR(t *testing.T) {
	d := newTestDeps(t)
	asOf := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	p := domain.PeriodAt(asOf)
	started := mustDate(2026, time.February, 1)

	require.NoError(t, d.db.Create(&companydomain.Company{ID: "co_1", Name: "One", CreatedAt: asOf.AddDate(0, -6, 0)}).Error)
	// A fee that rounds on persist: 100.004 rounds to 100.00, so the served
	// ARR must be 1200.00, not round(1200.048).
	require.NoError(t, d.db.Create(&contractdomain.Contract{
		ID: "ct_1", CompanyID: "co_1", Status: contractdomain.StatusActive,
		StartDate: started, Currency: "AUD", EORFee: 100.004,
		CreatedAt: started.AddDate(0, 0, -7), UpdatedAt: started.AddDate(0, 0, -7),
	}).Error)

	job := &revenueJob{deps: d, log: zaptest.NewLogger(t)}
	rows, err := job.Build(context.Background(), p)
	require.NoError(t, err)

	mrr := audValue(t, rows, domain.MetricTotalMRR, "")
	arr := audValue(t, rows, domain.MetricTotalARR, "")
	assert.InDelta(t, 100.00, mrr, 1e-9)
	assert.InDelta(t, 1200.00, arr, 1e-9)
	assert.InDelta(t, 12*mrr, arr, 1e-9)
}

func TestRevenueJobAddonShareAndPerFeeCurrencies(t *testing.T) {
	d := newTestDeps(t)
	asOf := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	p := domain.PeriodAt(asOf)
	started := mustDate(2026, time.February, 1)

	require.NoError(t, d.db.Create(&companydomain.Company{ID: "co_1", Name: "One", CreatedAt: asOf.AddDate(0, -6, 0)}).Error)
	require.NoError(t, d.db.Create(&fxratedomain.FXRate{
		BaseCurrency: "USD", TargetCurrency: "AUD", Rate: 1.5,
		FXDate: asOf.AddDate(0, 0, -3),
	}).Error)
	// The EOR fee is billed in USD, the device fee falls back to the
	// contract currency.
	require.NoError(t, d.db.Create(&contractdomain.Contract{
		ID: "ct_1", CompanyID: "co_1", Status: contractdomain.StatusActive,
		StartDate: started, Currency: "AUD",
		EORFee: 100, EORFeeCurrency: "USD",
		DeviceFee: 50,
		CreatedAt: started.AddDate(0, 0, -7), UpdatedAt: started.AddDate(0, 0, -7),
	}).Error)

	job := &revenueJob{deps: d, log: zaptest.NewLogger(t)}
	rows, err := job.Build(context.Background(), p)
	require.NoError(t, err)

	assert.InDelta(t, 150, audValue(t, rows, domain.MetricEORMRR, ""), 1e-9)
	assert.InDelta(t, 50, audValue(t, rows, domain.MetricDeviceMRR, ""), 1e-9)
	assert.InDelta(t, 200, audValue(t, rows, domain.MetricTotalMRR, ""), 1e-9)
	// Everything beyond the EOR base fee is add-on revenue: 50 of 200.
	assert.InDelta(t, 50, audValue(t, rows, domain.MetricAddonMRR, ""), 1e-9)
	assert.InDelta(t, 25, pctValue(t, rows, domain.MetricAddonPercentage, ""), 1e-9)
}

func TestRevenueJobExcludesDemoAndErrorRecords(t *testing.T) {
	d := newTestDeps(t)
	asOf := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	p := domain.PeriodAt(asOf)
	started := mustDate(2026, time.February, 1)

	require.NoError(t, d.db.Create([]companydomain.Company{
		{ID: "co_real", Name: "Real", CreatedAt: asOf.AddDate(0, -6, 0)},
		{ID: "co_demo", Name: "Demo", IsDemo: true, CreatedAt: asOf.AddDate(0, -6, 0)},
	}).Error)
	require.NoError(t, d.db.Create([]contractdomain.Contract{
		{
			ID: "ct_real", CompanyID: "co_real", Status: contractdomain.StatusActive,
			StartDate: started, Currency: "AUD", EORFee: 100,
			CreatedAt: started.AddDate(0, 0, -7), UpdatedAt: started.AddDate(0, 0, -7),
		},
		{
			// Contracts of demo companies never reach the aggregates.
			ID: "ct_demo", CompanyID: "co_demo", Status: contractdomain.StatusActive,
			StartDate: started, Currency: "AUD", EORFee: 9999,
			CreatedAt: started.AddDate(0, 0, -7), UpdatedAt: started.AddDate(0, 0, -7),
		},
		{
			// Neither do error-flagged contracts of real companies.
			ID: "ct_err", CompanyID: "co_real", Status: contractdomain.StatusActive,
			StartDate: started, Currency: "AUD", EORFee: 9999, HasError: true,
			CreatedAt: started.AddDate(0, 0, -7), UpdatedAt: started.AddDate(0, 0, -7),
		},
	}).Error)

	job := &revenueJob{deps: d, log: zaptest.NewLogger(t)}
	rows, err := job.Build(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, int64(1), countValue(t, rows, domain.MetricTotalActiveSubscriptions, ""))
	assert.InDelta(t, 100, audValue(t, rows, domain.MetricTotalMRR, ""), 1e-9)
}

func TestRevenueJobOneTimeFeesRecognizedInCreationMonth(t *testing.T) {
	d := newTestDeps(t)
	asOf := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	p := domain.PeriodAt(asOf)
	started := mustDate(2026, time.August, 3)

	require.NoError(t, d.db.Create(&companydomain.Company{ID: "co_1", Name: "One", CreatedAt: asOf.AddDate(0, -6, 0)}).Error)
	require.NoError(t, d.db.Create([]contractdomain.Contract{
		{
			ID: "ct_new", CompanyID: "co_1", Status: contractdomain.StatusActive,
			StartDate: started, Currency: "AUD", EORFee: 500,
			PlacementFee: 4000, FinalisationFee: 250,
			CreatedAt: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			// Created months ago: its one-time fees belong to a past month.
			ID: "ct_old", CompanyID: "co_1", Status: contractdomain.StatusActive,
			StartDate: mustDate(2026, time.March, 1), Currency: "AUD", EORFee: 500,
			PlacementFee: 9999,
			CreatedAt:    time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
			UpdatedAt:    time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		},
	}).Error)

	job := &revenueJob{deps: d, log: zaptest.NewLogger(t)}
	rows, err := job.Build(context.Background(), p)
	require.NoError(t, err)

	assert.InDelta(t, 4250, audValue(t, rows, domain.MetricOneTimeRevenue, ""), 1e-9)
	assert.Equal(t, int64(1), countValue(t, rows, domain.MetricNewSubscriptions, ""))

	recurring := pctValue(t, rows, domain.MetricRecurringRevenuePct, "")
	oneTime := pctValue(t, rows, domain.MetricOneTimeRevenuePct, "")
	assert.InDelta(t, 100, recurring+oneTime, 0.02)
}
