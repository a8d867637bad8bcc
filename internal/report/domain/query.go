package domain

import "context"

// MetricValue is one scalar metric as served by the API. Only the columns
// the aggregator populated are present in the JSON body.
type MetricValue struct {
	Count      *int64   `json:"count,omitempty"`
	ValueAUD   *float64 `json:"value_aud,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
}

// LatestReport is the flat metric map of the most recent snapshot.
type LatestReport struct {
	SnapshotDate string                 `json:"snapshot_date"`
	Metrics      map[string]MetricValue `json:"metrics"`
}

// TrendPoint is one month in a trend series.
type TrendPoint struct {
	SnapshotDate string                 `json:"snapshot_date"`
	Month        string                 `json:"month"`
	Metrics      map[string]MetricValue `json:"metrics"`
}

// TrendReport is a monthly series, newest month first.
type TrendReport struct {
	Months int          `json:"months"`
	Points []TrendPoint `json:"points"`
}

// RankedCustomer is one entry of the ARR top list.
type RankedCustomer struct {
	CompanyID string  `json:"company_id"`
	Label     string  `json:"label"`
	ARR       float64 `json:"arr"`
	SharePct  float64 `json:"share_pct"`
	Rank      int64   `json:"rank"`
}

type TopCustomersReport struct {
	SnapshotDate string           `json:"snapshot_date"`
	Customers    []RankedCustomer `json:"customers"`
}

// CountryBreakdown is the per-country slice of the geography report.
type CountryBreakdown struct {
	CountryCode          string  `json:"country_code"`
	ActiveContracts      int64   `json:"active_contracts"`
	OffboardingContracts int64   `json:"offboarding_contracts"`
	ApprovedNotStarted   int64   `json:"approved_not_started"`
	BillableContracts    int64   `json:"billable_contracts"`
	MRR                  float64 `json:"mrr"`
	ARR                  float64 `json:"arr"`
	MRRSharePct          float64 `json:"mrr_share_pct"`
}

type GeographyReport struct {
	SnapshotDate string             `json:"snapshot_date"`
	Countries    []CountryBreakdown `json:"countries"`
}

type GeographyTrendPoint struct {
	SnapshotDate string             `json:"snapshot_date"`
	Month        string             `json:"month"`
	Countries    []CountryBreakdown `json:"countries"`
}

type GeographyTrendReport struct {
	Months int                   `json:"months"`
	Points []GeographyTrendPoint `json:"points"`
}

// CountryPipeline is the hiring pipeline of one country.
type CountryPipeline struct {
	CountryCode            string  `json:"country_code"`
	ApprovedRequisitions   int64   `json:"approved_requisitions"`
	RejectedRequisitions   int64   `json:"rejected_requisitions"`
	ApprovedPositions      int64   `json:"approved_positions"`
	OpenPositions          int64   `json:"open_positions"`
	PotentialMRR           float64 `json:"potential_mrr"`
	EstimatedPlacementFees float64 `json:"estimated_placement_fees"`
}

type RequisitionsReport struct {
	SnapshotDate string            `json:"snapshot_date"`
	Totals       CountryPipeline   `json:"totals"`
	Countries    []CountryPipeline `json:"countries"`
}

// BreakdownEntry is one labeled slice of a categorical metric.
type BreakdownEntry struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// BreakdownReport groups categorical rows by metric type, with the report's
// scalar metrics alongside.
type BreakdownReport struct {
	SnapshotDate string                      `json:"snapshot_date"`
	Metrics      map[string]MetricValue      `json:"metrics,omitempty"`
	Groups       map[string][]BreakdownEntry `json:"groups"`
}

// Query serves the precomputed snapshots to the HTTP API. All methods return
// the snapshot repository's ErrNoSnapshots when nothing has been written yet.
type Query interface {
	RevenueLatest(ctx context.Context) (LatestReport, error)
	RevenueTrend(ctx context.Context, months int) (TrendReport, error)

	CustomersLatest(ctx context.Context) (LatestReport, error)
	CustomersTrend(ctx context.Context, months int) (TrendReport, error)
	TopCustomers(ctx context.Context, limit int) (TopCustomersReport, error)

	GeographyCountries(ctx context.Context) (GeographyReport, error)
	GeographyTrend(ctx context.Context, months int) (GeographyTrendReport, error)

	RequisitionsLatest(ctx context.Context) (RequisitionsReport, error)
	RequisitionsTrend(ctx context.Context, months int) (TrendReport, error)

	AddonsLatest(ctx context.Context) (BreakdownReport, error)
	HealthInsuranceLatest(ctx context.Context) (BreakdownReport, error)
}
