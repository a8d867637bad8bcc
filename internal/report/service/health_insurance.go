package service

import (
	"context"
	"fmt"
	"sort"

	catalogdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/catalog/domain"
	contractdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	snapshotdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"go.uber.org/zap"
)

// healthInsuranceJob reports health plan take-up across the active book:
// plan distribution, per-country penetration, and dependent coverage.
type healthInsuranceJob struct {
	deps
	log *zap.Logger
}

func (j *healthInsuranceJob) Name() string { return domain.JobHealthInsurance }

func (j *healthInsuranceJob) Build(ctx context.Context, p domain.Period) ([]snapshotdomain.MetricRow, error) {
	contracts, err := j.contracts.List(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	addons, err := j.catalog.ListAddons(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list addons: %w", err)
	}
	healthAddonKeys := map[string]string{}
	for _, a := range addons {
		if a.Category == catalogdomain.AddonCategoryHealthInsurance {
			healthAddonKeys[a.Key] = a.Name
		}
	}

	var (
		activeTotal     int64
		insured         int64
		withDependents  int64
		totalDependents int64
		planCounts      = map[string]int64{}
		countryActive   = map[string]int64{}
		countryInsured  = map[string]int64{}
		addonCounts     = map[string]int64{}
	)
	for _, c := range contracts {
		if c.Classify(p.AsOf) != contractdomain.ClassActive {
			continue
		}
		activeTotal++
		country := c.CountryCode
		if country == "" {
			country = unknownCountry
		}
		countryActive[country]++

		for _, key := range c.Addons {
			if _, ok := healthAddonKeys[key]; ok {
				addonCounts[key]++
			}
		}

		if !c.HasHealthInsurance() {
			continue
		}
		insured++
		planCounts[c.HealthPlan]++
		countryInsured[country]++
		if c.DependentsCount > 0 {
			withDependents++
			totalDependents += int64(c.DependentsCount)
		}
	}

	date := p.SnapshotDate()
	rows := []snapshotdomain.MetricRow{
		snapshotdomain.CountRow(date, domain.MetricHasHealthInsurance, "", "Contracts with health insurance", insured).
			WithPercentage(pct(float64(insured), float64(activeTotal))),
		snapshotdomain.CountRow(date, domain.MetricHasDependents, "", "Insured with dependents", withDependents).
			WithPercentage(pct(float64(withDependents), float64(insured))),
		snapshotdomain.CountRow(date, domain.MetricTotalDependents, "", "Covered dependents", totalDependents),
		snapshotdomain.ValueRow(date, domain.MetricAvgDependents, "", "Avg dependents per insured", round2(div(float64(totalDependents), float64(withDependents)))),
	}

	for _, plan := range sortedKeys(planCounts) {
		rows = append(rows,
			snapshotdomain.CountRow(date, domain.MetricHealthInsurancePlan, plan, plan, planCounts[plan]).
				WithPercentage(pct(float64(planCounts[plan]), float64(insured))))
	}
	for _, country := range sortedKeys(countryInsured) {
		rows = append(rows,
			snapshotdomain.CountRow(date, domain.MetricHealthInsuranceByCountry, country, country, countryInsured[country]).
				WithPercentage(pct(float64(countryInsured[country]), float64(countryActive[country]))))
	}
	for _, key := range sortedKeys(healthAddonKeys) {
		rows = append(rows,
			snapshotdomain.CountRow(date, domain.MetricHealthInsuranceAddon, key, healthAddonKeys[key], addonCounts[key]).
				WithPercentage(pct(float64(addonCounts[key]), float64(activeTotal))))
	}

	j.log.Info("health insurance report computed",
		zap.Time("snapshot_date", date),
		zap.Int64("insured", insured),
		zap.Int64("active", activeTotal),
	)
	return rows, nil
}

// sortedKeys returns the map keys in ascending order so snapshot rows land in
// a stable order across runs.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
