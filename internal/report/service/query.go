package service

import (
	"context"
	"sort"

	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	snapshotdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const apiDateLayout = "2006-01-02"

// Metric type sets per report. The query layer only ever reads the types a
// report owns, so concurrent pipeline runs of other reports cannot bleed in.
var (
	revenueScalarTypes = []string{
		domain.MetricTotalActiveSubscriptions,
		domain.MetricApprovedNotStarted,
		domain.MetricOffboardingSubscriptions,
		domain.MetricNewSubscriptions,
		domain.MetricChurnedSubscriptions,
		domain.MetricRetentionRate,
		domain.MetricChurnRate,
		domain.MetricTotalMRR,
		domain.MetricTotalARR,
		domain.MetricEORMRR,
		domain.MetricAddonMRR,
		domain.MetricAddonPercentage,
		domain.MetricDeviceMRR,
		domain.MetricHardwareMRR,
		domain.MetricSoftwareMRR,
		domain.MetricHealthMRR,
		domain.MetricAvgSubscriptionValue,
		domain.MetricOneTimeRevenue,
		domain.MetricRecurringRevenuePct,
		domain.MetricOneTimeRevenuePct,
		domain.MetricNewCustomers,
		domain.MetricLaptopsCount,
	}
	customerScalarTypes = []string{
		domain.MetricTotalCustomers,
		domain.MetricActiveCustomers,
		domain.MetricChurnedCustomers,
		domain.MetricNewCustomers,
		domain.MetricNetNewCustomers,
		domain.MetricAvgContractsPerCustomer,
		domain.MetricAvgDaysToFirstContract,
		domain.MetricTotalCustomerMRR,
		domain.MetricTotalCustomerARR,
		domain.MetricAvgContractValue,
		domain.MetricAvgARRPerCustomer,
		domain.MetricCustomersWithAddons,
	}
	geographyTypes = []string{
		domain.MetricActiveContractsByCountry,
		domain.MetricOffboardingByCountry,
		domain.MetricApprovedNotStartedByCountry,
		domain.MetricMRRByCountry,
		domain.MetricARRByCountry,
	}
	requisitionTypes = []string{
		domain.MetricApprovedRequisitions,
		domain.MetricRejectedRequisitions,
		domain.MetricApprovedPositions,
		domain.MetricOpenPositions,
		domain.MetricPotentialMRR,
		domain.MetricEstimatedPlacementFees,
	}
	addonGroupTypes = []string{
		domain.MetricPlan,
		domain.MetricPlanByCountry,
		domain.MetricDeviceType,
		domain.MetricHardwareAddon,
		domain.MetricHardwareGroup,
		domain.MetricSoftwareAddon,
		domain.MetricMembershipAddon,
		domain.MetricOSChoice,
		domain.MetricUserPersona,
	}
	healthScalarTypes = []string{
		domain.MetricHasHealthInsurance,
		domain.MetricHasDependents,
		domain.MetricTotalDependents,
		domain.MetricAvgDependents,
	}
	healthGroupTypes = []string{
		domain.MetricHealthInsurancePlan,
		domain.MetricHealthInsuranceByCountry,
		domain.MetricHealthInsuranceAddon,
	}
)

type QueryParams struct {
	fx.In

	Reader snapshotdomain.Reader
	Log    *zap.Logger
}

type query struct {
	reader snapshotdomain.Reader
	log    *zap.Logger
}

func NewQuery(p QueryParams) domain.Query {
	return &query{
		reader: p.Reader,
		log:    p.Log.Named("report.query"),
	}
}

func (q *query) RevenueLatest(ctx context.Context) (domain.LatestReport, error) {
	return q.latestScalars(ctx, revenueScalarTypes)
}

func (q *query) RevenueTrend(ctx context.Context, months int) (domain.TrendReport, error) {
	return q.trendScalars(ctx, revenueScalarTypes, months)
}

func (q *query) CustomersLatest(ctx context.Context) (domain.LatestReport, error) {
	return q.latestScalars(ctx, customerScalarTypes)
}

func (q *query) CustomersTrend(ctx context.Context, months int) (domain.TrendReport, error) {
	return q.trendScalars(ctx, customerScalarTypes, months)
}

func (q *query) TopCustomers(ctx context.Context, limit int) (domain.TopCustomersReport, error) {
	date, rows, err := q.reader.Latest(ctx, []string{domain.MetricTopCustomer})
	if err != nil {
		return domain.TopCustomersReport{}, err
	}
	report := domain.TopCustomersReport{SnapshotDate: date.Format(apiDateLayout)}
	for _, row := range rows {
		if len(report.Customers) >= limit {
			break
		}
		report.Customers = append(report.Customers, domain.RankedCustomer{
			CompanyID: row.EntityID,
			Label:     row.Label,
			ARR:       floatOrZero(row.ValueAUD),
			SharePct:  floatOrZero(row.Percentage),
			Rank:      intOrZero(row.Rank),
		})
	}
	return report, nil
}

func (q *query) GeographyCountries(ctx context.Context) (domain.GeographyReport, error) {
	date, rows, err := q.reader.Latest(ctx, geographyTypes)
	if err != nil {
		return domain.GeographyReport{}, err
	}
	return domain.GeographyReport{
		SnapshotDate: date.Format(apiDateLayout),
		Countries:    pivotCountries(rows),
	}, nil
}

func (q *query) GeographyTrend(ctx context.Context, months int) (domain.GeographyTrendReport, error) {
	points, err := q.reader.MonthlyTrend(ctx, geographyTypes, months)
	if err != nil {
		return domain.GeographyTrendReport{}, err
	}
	report := domain.GeographyTrendReport{Months: months}
	for _, pt := range points {
		report.Points = append(report.Points, domain.GeographyTrendPoint{
			SnapshotDate: pt.Date.Format(apiDateLayout),
			Month:        pt.Label,
			Countries:    pivotCountries(pt.Rows),
		})
	}
	return report, nil
}

func (q *query) RequisitionsLatest(ctx context.Context) (domain.RequisitionsReport, error) {
	date, rows, err := q.reader.Latest(ctx, requisitionTypes)
	if err != nil {
		return domain.RequisitionsReport{}, err
	}
	countries := pivotPipelines(rows)
	report := domain.RequisitionsReport{
		SnapshotDate: date.Format(apiDateLayout),
		Countries:    countries,
	}
	for _, c := range countries {
		report.Totals.ApprovedRequisitions += c.ApprovedRequisitions
		report.Totals.RejectedRequisitions += c.RejectedRequisitions
		report.Totals.ApprovedPositions += c.ApprovedPositions
		report.Totals.OpenPositions += c.OpenPositions
		report.Totals.PotentialMRR = round2(report.Totals.PotentialMRR + c.PotentialMRR)
		report.Totals.EstimatedPlacementFees = round2(report.Totals.EstimatedPlacementFees + c.EstimatedPlacementFees)
	}
	return report, nil
}

func (q *query) RequisitionsTrend(ctx context.Context, months int) (domain.TrendReport, error) {
	points, err := q.reader.MonthlyTrend(ctx, requisitionTypes, months)
	if err != nil {
		return domain.TrendReport{}, err
	}
	report := domain.TrendReport{Months: months}
	for _, pt := range points {
		// The trend serves totals; per-country history stays in the snapshots.
		metrics := make(map[string]domain.MetricValue, len(requisitionTypes))
		for _, row := range pt.Rows {
			mv := metrics[row.MetricType]
			if row.Count != nil {
				total := intOrZero(mv.Count) + *row.Count
				mv.Count = &total
			}
			if row.ValueAUD != nil {
				total := round2(floatOrZero(mv.ValueAUD) + *row.ValueAUD)
				mv.ValueAUD = &total
			}
			metrics[row.MetricType] = mv
		}
		report.Points = append(report.Points, domain.TrendPoint{
			SnapshotDate: pt.Date.Format(apiDateLayout),
			Month:        pt.Label,
			Metrics:      metrics,
		})
	}
	return report, nil
}

func (q *query) AddonsLatest(ctx context.Context) (domain.BreakdownReport, error) {
	date, rows, err := q.reader.Latest(ctx, addonGroupTypes)
	if err != nil {
		return domain.BreakdownReport{}, err
	}
	return domain.BreakdownReport{
		SnapshotDate: date.Format(apiDateLayout),
		Groups:       groupRows(rows),
	}, nil
}

func (q *query) HealthInsuranceLatest(ctx context.Context) (domain.BreakdownReport, error) {
	types := append(append([]string{}, healthScalarTypes...), healthGroupTypes...)
	date, rows, err := q.reader.Latest(ctx, types)
	if err != nil {
		return domain.BreakdownReport{}, err
	}
	report := domain.BreakdownReport{
		SnapshotDate: date.Format(apiDateLayout),
		Metrics:      map[string]domain.MetricValue{},
		Groups:       map[string][]domain.BreakdownEntry{},
	}
	scalar := map[string]bool{}
	for _, t := range healthScalarTypes {
		scalar[t] = true
	}
	for _, row := range rows {
		if scalar[row.MetricType] {
			report.Metrics[row.MetricType] = metricValue(row)
			continue
		}
		report.Groups[row.MetricType] = append(report.Groups[row.MetricType], breakdownEntry(row))
	}
	return report, nil
}

func (q *query) latestScalars(ctx context.Context, types []string) (domain.LatestReport, error) {
	date, rows, err := q.reader.Latest(ctx, types)
	if err != nil {
		return domain.LatestReport{}, err
	}
	return domain.LatestReport{
		SnapshotDate: date.Format(apiDateLayout),
		Metrics:      scalarMap(rows),
	}, nil
}

func (q *query) trendScalars(ctx context.Context, types []string, months int) (domain.TrendReport, error) {
	points, err := q.reader.MonthlyTrend(ctx, types, months)
	if err != nil {
		return domain.TrendReport{}, err
	}
	report := domain.TrendReport{Months: months}
	for _, pt := range points {
		report.Points = append(report.Points, domain.TrendPoint{
			SnapshotDate: pt.Date.Format(apiDateLayout),
			Month:        pt.Label,
			Metrics:      scalarMap(pt.Rows),
		})
	}
	return report, nil
}

func scalarMap(rows []snapshotdomain.MetricRow) map[string]domain.MetricValue {
	out := make(map[string]domain.MetricValue, len(rows))
	for _, row := range rows {
		out[row.MetricType] = metricValue(row)
	}
	return out
}

func metricValue(row snapshotdomain.MetricRow) domain.MetricValue {
	return domain.MetricValue{
		Count:      row.Count,
		ValueAUD:   row.ValueAUD,
		Percentage: row.Percentage,
	}
}

func breakdownEntry(row snapshotdomain.MetricRow) domain.BreakdownEntry {
	return domain.BreakdownEntry{
		ID:         row.EntityID,
		Label:      row.Label,
		Count:      intOrZero(row.Count),
		Percentage: floatOrZero(row.Percentage),
	}
}

func groupRows(rows []snapshotdomain.MetricRow) map[string][]domain.BreakdownEntry {
	out := map[string][]domain.BreakdownEntry{}
	for _, row := range rows {
		out[row.MetricType] = append(out[row.MetricType], breakdownEntry(row))
	}
	return out
}

func pivotCountries(rows []snapshotdomain.MetricRow) []domain.CountryBreakdown {
	byCountry := map[string]*domain.CountryBreakdown{}
	order := []string{}
	get := func(code string) *domain.CountryBreakdown {
		if c, ok := byCountry[code]; ok {
			return c
		}
		c := &domain.CountryBreakdown{CountryCode: code}
		byCountry[code] = c
		order = append(order, code)
		return c
	}
	for _, row := range rows {
		c := get(row.EntityID)
		switch row.MetricType {
		case domain.MetricActiveContractsByCountry:
			c.ActiveContracts = intOrZero(row.Count)
		case domain.MetricOffboardingByCountry:
			c.OffboardingContracts = intOrZero(row.Count)
		case domain.MetricApprovedNotStartedByCountry:
			c.ApprovedNotStarted = intOrZero(row.Count)
		case domain.MetricMRRByCountry:
			c.MRR = floatOrZero(row.ValueAUD)
			c.BillableContracts = intOrZero(row.Count)
		case domain.MetricARRByCountry:
			c.ARR = floatOrZero(row.ValueAUD)
		}
	}
	var totalMRR float64
	for _, code := range order {
		totalMRR += byCountry[code].MRR
	}
	out := make([]domain.CountryBreakdown, 0, len(order))
	for _, code := range order {
		c := *byCountry[code]
		// Shares are recomputed from the served values so they always sum
		// to 100 even across partially backfilled snapshots.
		c.MRRSharePct = pct(c.MRR, totalMRR)
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, k int) bool {
		if out[i].ActiveContracts != out[k].ActiveContracts {
			return out[i].ActiveContracts > out[k].ActiveContracts
		}
		return out[i].CountryCode < out[k].CountryCode
	})
	return out
}

func pivotPipelines(rows []snapshotdomain.MetricRow) []domain.CountryPipeline {
	byCountry := map[string]*domain.CountryPipeline{}
	order := []string{}
	get := func(code string) *domain.CountryPipeline {
		if c, ok := byCountry[code]; ok {
			return c
		}
		c := &domain.CountryPipeline{CountryCode: code}
		byCountry[code] = c
		order = append(order, code)
		return c
	}
	for _, row := range rows {
		c := get(row.EntityID)
		switch row.MetricType {
		case domain.MetricApprovedRequisitions:
			c.ApprovedRequisitions = intOrZero(row.Count)
		case domain.MetricRejectedRequisitions:
			c.RejectedRequisitions = intOrZero(row.Count)
		case domain.MetricApprovedPositions:
			c.ApprovedPositions = intOrZero(row.Count)
		case domain.MetricOpenPositions:
			c.OpenPositions = intOrZero(row.Count)
		case domain.MetricPotentialMRR:
			c.PotentialMRR = floatOrZero(row.ValueAUD)
		case domain.MetricEstimatedPlacementFees:
			c.EstimatedPlacementFees = floatOrZero(row.ValueAUD)
		}
	}
	out := make([]domain.CountryPipeline, 0, len(order))
	for _, code := range order {
		out = append(out, *byCountry[code])
	}
	return out
}

func intOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
