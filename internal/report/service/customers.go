package service

import (
	"context"
	"fmt"
	"sort"

	companydomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/company/domain"
	contractdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	snapshotdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"go.uber.org/zap"
)

// topCustomersPersisted is how many ranked customers each snapshot keeps.
// The API can serve any smaller limit from the persisted set.
const topCustomersPersisted = 10

// customersJob computes the customer report: customer lifecycle counts,
// engagement averages, and the ARR-ranked top customer list.
type customersJob struct {
	deps
	log *zap.Logger
}

func (j *customersJob) Name() string { return domain.JobCustomers }

type customerAgg struct {
	company       companydomain.Company
	contracts     int
	billable      int
	anyActive     bool
	anyNonChurned bool
	withAddons    int
	arr           float64
	lastUpdated   int64
	firstContract int64
}

func (j *customersJob) Build(ctx context.Context, p domain.Period) ([]snapshotdomain.MetricRow, error) {
	companies, err := j.companies.List(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	contracts, err := j.contracts.List(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	conv, err := j.fx.ConverterAt(ctx, p.AsOf)
	if err != nil {
		return nil, fmt.Errorf("fx converter: %w", err)
	}

	aggs := make(map[string]*customerAgg, len(companies))
	for _, co := range companies {
		aggs[co.ID] = &customerAgg{company: co}
	}

	var totalMRR float64
	var billableContracts int
	for _, c := range contracts {
		agg, ok := aggs[c.CompanyID]
		if !ok {
			// Orphaned contract rows are an ingest defect, not a report one.
			j.log.Warn("contract references unknown company",
				zap.String("contract_id", c.ID),
				zap.String("company_id", c.CompanyID),
			)
			continue
		}
		agg.contracts++
		cls := c.Classify(p.AsOf)
		if cls != contractdomain.ClassInactive {
			agg.anyNonChurned = true
		}
		if upd := c.UpdatedAt.UTC().Unix(); upd > agg.lastUpdated {
			agg.lastUpdated = upd
		}
		if created := c.CreatedAt.UTC().Unix(); agg.firstContract == 0 || created < agg.firstContract {
			agg.firstContract = created
		}
		if !billable(cls) {
			continue
		}
		agg.anyActive = true
		agg.billable++
		billableContracts++
		if c.HasAddons() {
			agg.withAddons++
		}
		mrr := contractMRR(conv, c)
		agg.arr += mrr * 12
		totalMRR += mrr
	}

	var (
		totalCustomers  = int64(len(companies))
		activeCustomers int64
		churnedTotal    int64
		churnedInMonth  int64
		newCustomers    int64
		withAddons      int64
		daysSum         float64
		daysSamples     int64
	)
	ranked := make([]*customerAgg, 0, len(aggs))
	for _, agg := range aggs {
		if p.InMonth(agg.company.CreatedAt) {
			newCustomers++
		}
		if agg.anyActive {
			activeCustomers++
			if agg.withAddons > 0 {
				withAddons++
			}
			ranked = append(ranked, agg)
		}
		if agg.contracts > 0 && !agg.anyNonChurned {
			churnedTotal++
			if p.InMonth(timeFromUnix(agg.lastUpdated)) {
				churnedInMonth++
			}
		}
		if agg.firstContract > 0 {
			days := float64(agg.firstContract-agg.company.CreatedAt.UTC().Unix()) / 86400
			if days >= 0 {
				daysSum += days
				daysSamples++
			}
		}
	}

	totalARR := totalMRR * 12
	// ARR is persisted as an exact 12x of the persisted MRR.
	persistedMRR := round2(totalMRR)
	persistedARR := round2(persistedMRR * 12)
	sort.Slice(ranked, func(i, k int) bool {
		a, b := ranked[i], ranked[k]
		if a.arr != b.arr {
			return a.arr > b.arr
		}
		if a.company.Name != b.company.Name {
			return a.company.Name < b.company.Name
		}
		return a.company.ID < b.company.ID
	})
	if len(ranked) > topCustomersPersisted {
		ranked = ranked[:topCustomersPersisted]
	}

	date := p.SnapshotDate()
	rows := []snapshotdomain.MetricRow{
		snapshotdomain.CountRow(date, domain.MetricTotalCustomers, "", "Total customers", totalCustomers),
		snapshotdomain.CountRow(date, domain.MetricActiveCustomers, "", "Active customers", activeCustomers),
		snapshotdomain.CountRow(date, domain.MetricChurnedCustomers, "", "Churned customers", churnedTotal),
		snapshotdomain.CountRow(date, domain.MetricNewCustomers, "", "New customers", newCustomers),
		snapshotdomain.CountRow(date, domain.MetricNetNewCustomers, "", "Net new customers", newCustomers-churnedInMonth),
		snapshotdomain.ValueRow(date, domain.MetricAvgContractsPerCustomer, "", "Avg contracts per customer", round2(div(float64(billableContracts), float64(activeCustomers)))),
		snapshotdomain.ValueRow(date, domain.MetricAvgDaysToFirstContract, "", "Avg days to first contract", round2(div(daysSum, float64(daysSamples)))),
		snapshotdomain.ValueRow(date, domain.MetricTotalCustomerMRR, "", "Total MRR", persistedMRR),
		snapshotdomain.ValueRow(date, domain.MetricTotalCustomerARR, "", "Total ARR", persistedARR),
		snapshotdomain.ValueRow(date, domain.MetricAvgContractValue, "", "Avg contract value", round2(div(totalMRR, float64(billableContracts)))),
		snapshotdomain.ValueRow(date, domain.MetricAvgARRPerCustomer, "", "Avg ARR per customer", round2(div(totalARR, float64(activeCustomers)))),
		snapshotdomain.CountRow(date, domain.MetricCustomersWithAddons, "", "Customers with add-ons", withAddons).
			WithPercentage(pct(float64(withAddons), float64(activeCustomers))),
	}

	for i, agg := range ranked {
		row := snapshotdomain.ValueRow(date, domain.MetricTopCustomer, agg.company.ID, agg.company.DisplayLabel(), round2(agg.arr)).
			WithPercentage(pct(agg.arr, totalARR)).
			WithRank(int64(i + 1))
		rows = append(rows, row)
	}

	j.log.Info("customer report computed",
		zap.Time("snapshot_date", date),
		zap.Int64("active_customers", activeCustomers),
		zap.Int("top_customers", len(ranked)),
	)
	return rows, nil
}
