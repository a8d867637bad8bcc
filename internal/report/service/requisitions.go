package service

import (
	"context"
	"fmt"

	catalogdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/catalog/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	requisitiondomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/requisition/domain"
	snapshotdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"go.uber.org/zap"
)

// placementBaseSalaryUSD is the assumed annual salary the recruitment fee
// percentage is applied to when estimating placement revenue.
const placementBaseSalaryUSD = 50000

// requisitionsJob reports the hiring pipeline per country: requisition
// decisions inside the month, the open seat backlog, and the revenue those
// seats would add once filled.
type requisitionsJob struct {
	deps
	log *zap.Logger
}

func (j *requisitionsJob) Name() string { return domain.JobRequisitions }

type requisitionCountryAgg struct {
	approved          int64
	rejected          int64
	approvedPositions int64
	openPositions     int64
	potentialMRR      float64
	placementFees     float64
}

func (j *requisitionsJob) Build(ctx context.Context, p domain.Period) ([]snapshotdomain.MetricRow, error) {
	reqs, err := j.requisitions.ListBetween(ctx, j.db, p.MonthStart, p.MonthEnd)
	if err != nil {
		return nil, fmt.Errorf("list requisitions: %w", err)
	}
	reqIDs := make([]string, 0, len(reqs))
	approvedReqs := map[string]bool{}
	for _, r := range reqs {
		reqIDs = append(reqIDs, r.ID)
		if r.Status == requisitiondomain.StatusApproved {
			approvedReqs[r.ID] = true
		}
	}
	positions, err := j.requisitions.ListPositions(ctx, j.db, reqIDs)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	openPositions, err := j.requisitions.ListOpenPositions(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list open positions: %w", err)
	}
	plans, err := j.catalog.ListPlans(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	addons, err := j.catalog.ListAddons(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list addons: %w", err)
	}
	conv, err := j.fx.ConverterAt(ctx, p.AsOf)
	if err != nil {
		return nil, fmt.Errorf("fx converter: %w", err)
	}
	plansByID := catalogdomain.PlansByID(plans)
	addonsByKey := catalogdomain.AddonsByKey(addons)

	byCountry := map[string]*requisitionCountryAgg{}
	agg := func(country string) *requisitionCountryAgg {
		if country == "" {
			country = unknownCountry
		}
		a := byCountry[country]
		if a == nil {
			a = &requisitionCountryAgg{}
			byCountry[country] = a
		}
		return a
	}

	for _, r := range reqs {
		switch r.Status {
		case requisitiondomain.StatusApproved:
			agg(r.CountryCode).approved++
		case requisitiondomain.StatusRejected:
			agg(r.CountryCode).rejected++
		}
	}

	// seatMRR prices a seat as if it were an active subscription: plan price
	// plus every attached add-on, each converted from its own currency.
	seatMRR := func(pos requisitiondomain.Position) float64 {
		var mrr float64
		if plan, ok := plansByID[pos.PlanID]; ok {
			v, _ := conv.Convert(plan.MonthlyPrice, plan.Currency)
			mrr += v
		}
		for _, keys := range [][]string{pos.HardwareKeys, pos.SoftwareKeys, pos.MembershipKeys} {
			for _, key := range keys {
				if addon, ok := addonsByKey[key]; ok {
					v, _ := conv.Convert(addon.MonthlyPrice, addon.Currency)
					mrr += v
				}
			}
		}
		return mrr
	}

	for _, pos := range positions {
		if !approvedReqs[pos.RequisitionID] {
			continue
		}
		a := agg(pos.CountryCode)
		a.approvedPositions++
		a.potentialMRR += seatMRR(pos)
		if pos.RecruitmentFeePct > 0 {
			fee, _ := conv.Convert(pos.RecruitmentFeePct/100*placementBaseSalaryUSD, "USD")
			a.placementFees += fee
		}
	}
	for _, pos := range openPositions {
		agg(pos.CountryCode).openPositions++
	}

	date := p.SnapshotDate()
	var rows []snapshotdomain.MetricRow
	for _, country := range sortedKeys(byCountry) {
		a := byCountry[country]
		rows = append(rows,
			snapshotdomain.CountRow(date, domain.MetricApprovedRequisitions, country, country, a.approved),
			snapshotdomain.CountRow(date, domain.MetricRejectedRequisitions, country, country, a.rejected),
			snapshotdomain.CountRow(date, domain.MetricApprovedPositions, country, country, a.approvedPositions),
			snapshotdomain.CountRow(date, domain.MetricOpenPositions, country, country, a.openPositions),
			snapshotdomain.ValueRow(date, domain.MetricPotentialMRR, country, country, round2(a.potentialMRR)),
			snapshotdomain.ValueRow(date, domain.MetricEstimatedPlacementFees, country, country, round2(a.placementFees)),
		)
	}

	j.log.Info("requisitions report computed",
		zap.Time("snapshot_date", date),
		zap.Int("requisitions", len(reqs)),
		zap.Int("countries", len(byCountry)),
	)
	return rows, nil
}
