package service

import (
	"context"
	"testing"
	"time"

	companydomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/company/domain"
	contractdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestGeographicJobBreaksDownByCountry(t *testing.T) {
	d := newTestDeps(t)
	asOf := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	p := domain.PeriodAt(asOf)
	started := mustDate(2026, time.January, 1)
	created := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, d.db.Create(&companydomain.Company{ID: "co_1", Name: "One", CreatedAt: created}).Error)
	require.NoError(t, d.db.Create([]contractdomain.Contract{
		{ID: "ct_au1", CompanyID: "co_1", Status: contractdomain.StatusActive, StartDate: started, CountryCode: "AU", Currency: "AUD", EORFee: 300, CreatedAt: created, UpdatedAt: created},
		{ID: "ct_au2", CompanyID: "co_1", Status: contractdomain.StatusActive, StartDate: started, CountryCode: "AU", Currency: "AUD", EORFee: 300, CreatedAt: created, UpdatedAt: created},
		{ID: "ct_ph1", CompanyID: "co_1", Status: contractdomain.StatusOffboarding, StartDate: started, CountryCode: "PH", Currency: "AUD", EORFee: 200, CreatedAt: created, UpdatedAt: created},
		{ID: "ct_ph2", CompanyID: "co_1", Status: contractdomain.StatusApproved, StartDate: mustDate(2026, time.October, 1), CountryCode: "PH", Currency: "AUD", EORFee: 999, CreatedAt: created, UpdatedAt: created},
		// Inactive contracts never appear in the breakdown.
		{ID: "ct_ph3", CompanyID: "co_1", Status: contractdomain.StatusEnded, StartDate: started, CountryCode: "PH", Currency: "AUD", EORFee: 400, CreatedAt: created, UpdatedAt: created},
	}).Error)

	job := &geographicJob{deps: d, log: zaptest.NewLogger(t)}
	rows, err := job.Build(context.Background(), p)
	require.NoError(t, err)
	// Two countries, five metric types each.
	assert.Len(t, rows, 10)

	assert.Equal(t, int64(2), countValue(t, rows, domain.MetricActiveContractsByCountry, "AU"))
	assert.Equal(t, int64(0), countValue(t, rows, domain.MetricActiveContractsByCountry, "PH"))
	assert.Equal(t, int64(1), countValue(t, rows, domain.MetricOffboardingByCountry, "PH"))
	assert.Equal(t, int64(1), countValue(t, rows, domain.MetricApprovedNotStartedByCountry, "PH"))

	// Offboarding still bills; approved-not-started does not.
	assert.InDelta(t, 600, audValue(t, rows, domain.MetricMRRByCountry, "AU"), 1e-9)
	assert.InDelta(t, 200, audValue(t, rows, domain.MetricMRRByCountry, "PH"), 1e-9)
	assert.InDelta(t, 7200, audValue(t, rows, domain.MetricARRByCountry, "AU"), 1e-9)
	assert.InDelta(t, 75, pctValue(t, rows, domain.MetricMRRByCountry, "AU"), 1e-9)
	assert.InDelta(t, 25, pctValue(t, rows, domain.MetricMRRByCountry, "PH"), 1e-9)

	auMRR := findRow(t, rows, domain.MetricMRRByCountry, "AU")
	require.NotNil(t, auMRR.Count)
	assert.Equal(t, int64(2), *auMRR.Count)
}

func TestGeographicJobBucketsMissingCountry(t *testing.T) {
	d := newTestDeps(t)
	p := domain.PeriodAt(time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	started := mustDate(2026, time.January, 1)
	created := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, d.db.Create(&companydomain.Company{ID: "co_1", Name: "One", CreatedAt: created}).Error)
	require.NoError(t, d.db.Create(&contractdomain.Contract{
		ID: "ct_1", CompanyID: "co_1", Status: contractdomain.StatusActive,
		StartDate: started, Currency: "AUD", EORFee: 100, CreatedAt: created, UpdatedAt: created,
	}).Error)

	job := &geographicJob{deps: d, log: zaptest.NewLogger(t)}
	rows, err := job.Build(context.Background(), p)
	require.NoError(t, err)

	assert.Equal(t, int64(1), countValue(t, rows, domain.MetricActiveContractsByCountry, "UNKNOWN"))
	assert.InDelta(t, 100, pctValue(t, rows, domain.MetricMRRByCountry, "UNKNOWN"), 1e-9)
}
