package service

import (
	"context"
	"fmt"
	"sort"

	contractdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	snapshotdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"go.uber.org/zap"
)

// geographicJob breaks contract counts and MRR down per country. Percentage
// columns carry each country's share of the respective total.
type geographicJob struct {
	deps
	log *zap.Logger
}

func (j *geographicJob) Name() string { return domain.JobGeographic }

type countryAgg struct {
	active             int64
	offboarding        int64
	approvedNotStarted int64
	billable           int64
	mrr                float64
}

const unknownCountry = "UNKNOWN"

func (j *geographicJob) Build(ctx context.Context, p domain.Period) ([]snapshotdomain.MetricRow, error) {
	contracts, err := j.contracts.List(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	conv, err := j.fx.ConverterAt(ctx, p.AsOf)
	if err != nil {
		return nil, fmt.Errorf("fx converter: %w", err)
	}

	byCountry := map[string]*countryAgg{}
	var totalActive, totalOffboarding, totalApproved, totalBillable int64
	var totalMRR float64
	for _, c := range contracts {
		cls := c.Classify(p.AsOf)
		if cls == contractdomain.ClassInactive {
			continue
		}
		country := c.CountryCode
		if country == "" {
			country = unknownCountry
		}
		agg := byCountry[country]
		if agg == nil {
			agg = &countryAgg{}
			byCountry[country] = agg
		}
		switch cls {
		case contractdomain.ClassActive:
			agg.active++
			totalActive++
		case contractdomain.ClassOffboarding:
			agg.offboarding++
			totalOffboarding++
		case contractdomain.ClassApprovedNotStarted:
			agg.approvedNotStarted++
			totalApproved++
		}
		if billable(cls) {
			agg.billable++
			totalBillable++
			mrr := contractMRR(conv, c)
			agg.mrr += mrr
			totalMRR += mrr
		}
	}

	countries := make([]string, 0, len(byCountry))
	for country := range byCountry {
		countries = append(countries, country)
	}
	sort.Strings(countries)

	date := p.SnapshotDate()
	rows := make([]snapshotdomain.MetricRow, 0, len(countries)*5)
	for _, country := range countries {
		agg := byCountry[country]
		// ARR derives from the persisted MRR so the served pair stays an
		// exact 12x multiple after rounding.
		mrr := round2(agg.mrr)
		rows = append(rows,
			snapshotdomain.CountRow(date, domain.MetricActiveContractsByCountry, country, country, agg.active).
				WithPercentage(pct(float64(agg.active), float64(totalActive))),
			snapshotdomain.CountRow(date, domain.MetricOffboardingByCountry, country, country, agg.offboarding).
				WithPercentage(pct(float64(agg.offboarding), float64(totalOffboarding))),
			snapshotdomain.CountRow(date, domain.MetricApprovedNotStartedByCountry, country, country, agg.approvedNotStarted).
				WithPercentage(pct(float64(agg.approvedNotStarted), float64(totalApproved))),
			snapshotdomain.ValueRow(date, domain.MetricMRRByCountry, country, country, mrr).
				WithCount(agg.billable).
				WithPercentage(pct(agg.mrr, totalMRR)),
			snapshotdomain.ValueRow(date, domain.MetricARRByCountry, country, country, round2(mrr*12)).
				WithCount(agg.billable).
				WithPercentage(pct(agg.mrr, totalMRR)),
		)
	}

	j.log.Info("geographic report computed",
		zap.Time("snapshot_date", date),
		zap.Int("countries", len(countries)),
		zap.Float64("total_mrr", round2(totalMRR)),
	)
	return rows, nil
}
