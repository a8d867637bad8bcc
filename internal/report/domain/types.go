package domain

import (
	"context"
	"errors"
	"time"

	snapshotdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
)

// Period pins one pipeline run to a reporting month. AsOf is the instant the
// point-in-time metrics are computed at; MonthStart/MonthEnd bound the
// month-scoped metrics (new, churned, one-time fees).
type Period struct {
	AsOf       time.Time
	MonthStart time.Time
	MonthEnd   time.Time
}

// PeriodAt builds the period for an ad-hoc run: the calendar month of asOf.
func PeriodAt(asOf time.Time) Period {
	asOf = asOf.UTC()
	start := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Period{
		AsOf:       asOf,
		MonthStart: start,
		MonthEnd:   start.AddDate(0, 1, 0),
	}
}

// PeriodForMonth builds the period for a backfill run of a whole month.
// Metrics are computed as of the last instant of that month.
func PeriodForMonth(year int, month time.Month) Period {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return Period{
		AsOf:       end.Add(-time.Second),
		MonthStart: start,
		MonthEnd:   end,
	}
}

// SnapshotDate is the date the run's rows are keyed by.
func (p Period) SnapshotDate() time.Time {
	return time.Date(p.AsOf.Year(), p.AsOf.Month(), p.AsOf.Day(), 0, 0, 0, 0, time.UTC)
}

// InMonth reports whether t falls inside the reporting month.
func (p Period) InMonth(t time.Time) bool {
	t = t.UTC()
	return !t.Before(p.MonthStart) && t.Before(p.MonthEnd)
}

// Job computes the metric rows of one report for a period.
type Job interface {
	Name() string
	Build(ctx context.Context, p Period) ([]snapshotdomain.MetricRow, error)
}

// Job names.
const (
	JobRevenue         = "revenue"
	JobCustomers       = "customers"
	JobGeographic      = "geographic"
	JobHealthInsurance = "health_insurance"
	JobPlansAddons     = "plans_addons"
	JobRequisitions    = "requisitions"
)

// Revenue metric types.
const (
	MetricTotalActiveSubscriptions = "total_active_subscriptions"
	MetricApprovedNotStarted       = "approved_not_started"
	MetricOffboardingSubscriptions = "offboarding_subscriptions"
	MetricNewSubscriptions         = "new_subscriptions"
	MetricChurnedSubscriptions     = "churned_subscriptions"
	MetricRetentionRate            = "retention_rate"
	MetricChurnRate                = "churn_rate"
	MetricTotalMRR                 = "total_mrr"
	MetricTotalARR                 = "total_arr"
	MetricEORMRR                   = "eor_mrr"
	MetricAddonMRR                 = "addon_mrr"
	MetricAddonPercentage          = "addon_percentage"
	MetricDeviceMRR                = "device_mrr"
	MetricHardwareMRR              = "hardware_mrr"
	MetricSoftwareMRR              = "software_mrr"
	MetricHealthMRR                = "health_mrr"
	MetricAvgSubscriptionValue     = "avg_subscription_value"
	MetricOneTimeRevenue           = "one_time_revenue"
	MetricRecurringRevenuePct      = "recurring_revenue_pct"
	MetricOneTimeRevenuePct        = "one_time_revenue_pct"
	MetricLaptopsCount             = "laptops_count"
)

// Customer metric types.
const (
	MetricTotalCustomers          = "total_customers"
	MetricActiveCustomers         = "active_customers"
	MetricChurnedCustomers        = "churned_customers"
	MetricNewCustomers            = "new_customers"
	MetricNetNewCustomers         = "net_new_customers"
	MetricAvgContractsPerCustomer = "avg_contracts_per_customer"
	MetricAvgDaysToFirstContract  = "avg_days_to_first_contract"
	MetricTotalCustomerMRR        = "total_customer_mrr"
	MetricTotalCustomerARR        = "total_customer_arr"
	MetricAvgContractValue        = "avg_contract_value"
	MetricAvgARRPerCustomer       = "avg_arr_per_customer"
	MetricCustomersWithAddons     = "customers_with_addons"
	MetricTopCustomer             = "top_customer"
)

// Geographic metric types.
const (
	MetricActiveContractsByCountry    = "active_contracts_by_country"
	MetricOffboardingByCountry        = "offboarding_contracts_by_country"
	MetricApprovedNotStartedByCountry = "approved_not_started_by_country"
	MetricMRRByCountry                = "mrr_by_country"
	MetricARRByCountry                = "arr_by_country"
)

// Health insurance metric types.
const (
	MetricHealthInsurancePlan      = "health_insurance_plan"
	MetricHasHealthInsurance       = "has_health_insurance"
	MetricHealthInsuranceByCountry = "health_insurance_by_country"
	MetricHealthInsuranceAddon     = "health_insurance_addon"
	MetricHasDependents            = "has_dependents"
	MetricTotalDependents          = "total_dependents"
	MetricAvgDependents            = "avg_dependents"
)

// Plan and add-on metric types.
const (
	MetricPlan            = "plan"
	MetricPlanByCountry   = "plan_by_country"
	MetricDeviceType      = "device_type"
	MetricHardwareAddon   = "hardware_addon"
	MetricHardwareGroup   = "hardware_group"
	MetricSoftwareAddon   = "software_addon"
	MetricMembershipAddon = "membership_addon"
	MetricOSChoice        = "os_choice"
	MetricUserPersona     = "user_persona"
)

// Requisition metric types.
const (
	MetricApprovedRequisitions   = "approved_requisitions"
	MetricRejectedRequisitions   = "rejected_requisitions"
	MetricApprovedPositions      = "approved_positions"
	MetricOpenPositions          = "open_positions"
	MetricPotentialMRR           = "potential_mrr"
	MetricEstimatedPlacementFees = "estimated_placement_fees"
)

var (
	ErrUnknownJob = errors.New("unknown_job")
)
