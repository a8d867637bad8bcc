package service

import (
	"context"
	"fmt"

	catalogdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/catalog/domain"
	contractdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	snapshotdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"go.uber.org/zap"
)

const unknownPlan = "UNKNOWN"

// plansAddonsJob reports the plan and add-on mix of the active book. Catalog
// add-ons nobody subscribes to still get a zero row so dashboards can chart
// the full catalog.
type plansAddonsJob struct {
	deps
	log *zap.Logger
}

func (j *plansAddonsJob) Name() string { return domain.JobPlansAddons }

func (j *plansAddonsJob) Build(ctx context.Context, p domain.Period) ([]snapshotdomain.MetricRow, error) {
	contracts, err := j.contracts.List(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	plans, err := j.catalog.ListPlans(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	addons, err := j.catalog.ListAddons(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list addons: %w", err)
	}
	plansByID := catalogdomain.PlansByID(plans)
	addonsByKey := catalogdomain.AddonsByKey(addons)

	var active int64
	planCounts := map[string]int64{}
	planCountry := map[string]int64{}
	planCountryLabel := map[string]string{}
	deviceCounts := map[string]int64{}
	personaCounts := map[string]int64{}
	osCounts := map[string]int64{}
	groupCounts := map[string]int64{}
	addonCounts := map[string]map[string]int64{
		catalogdomain.AddonCategoryHardware:   {},
		catalogdomain.AddonCategorySoftware:   {},
		catalogdomain.AddonCategoryMembership: {},
	}
	// Zero-fill from the catalog so the snapshot covers every add-on.
	for _, a := range addons {
		if counts, ok := addonCounts[a.Category]; ok {
			counts[a.Key] = 0
		}
	}

	var hardwareInstances int64
	for _, c := range contracts {
		if c.Classify(p.AsOf) != contractdomain.ClassActive {
			continue
		}
		active++

		planCode := unknownPlan
		persona := catalogdomain.PersonaUnmatched
		if plan, ok := plansByID[c.PlanID]; ok {
			planCode = plan.Code
			persona = plan.Persona()
		}
		planCounts[planCode]++
		personaCounts[persona]++

		country := c.CountryCode
		if country == "" {
			country = unknownCountry
		}
		pcKey := planCode + ":" + country
		planCountry[pcKey]++
		planCountryLabel[pcKey] = fmt.Sprintf("%s (%s)", planCode, country)

		device := c.DeviceType
		if device == "" {
			device = "NONE"
		}
		deviceCounts[device]++

		for _, key := range c.Addons {
			addon, ok := addonsByKey[key]
			if !ok {
				continue
			}
			if counts, found := addonCounts[addon.Category]; found {
				counts[key]++
			}
			if addon.Category == catalogdomain.AddonCategoryHardware {
				hardwareInstances++
				osCounts[addon.OSChoice()]++
				groupCounts[addon.HardwareGroup()]++
			}
		}
	}

	date := p.SnapshotDate()
	var rows []snapshotdomain.MetricRow
	appendCounts := func(metricType string, counts map[string]int64, labels map[string]string, denom int64) {
		for _, key := range sortedKeys(counts) {
			label := key
			if labels != nil {
				label = labels[key]
			}
			rows = append(rows,
				snapshotdomain.CountRow(date, metricType, key, label, counts[key]).
					WithPercentage(pct(float64(counts[key]), float64(denom))))
		}
	}

	appendCounts(domain.MetricPlan, planCounts, nil, active)
	appendCounts(domain.MetricPlanByCountry, planCountry, planCountryLabel, active)
	appendCounts(domain.MetricDeviceType, deviceCounts, nil, active)
	appendCounts(domain.MetricUserPersona, personaCounts, nil, active)
	appendCounts(domain.MetricOSChoice, osCounts, nil, hardwareInstances)
	appendCounts(domain.MetricHardwareGroup, groupCounts, nil, hardwareInstances)

	addonLabels := map[string]string{}
	for _, a := range addons {
		addonLabels[a.Key] = a.Name
	}
	appendCounts(domain.MetricHardwareAddon, addonCounts[catalogdomain.AddonCategoryHardware], addonLabels, active)
	appendCounts(domain.MetricSoftwareAddon, addonCounts[catalogdomain.AddonCategorySoftware], addonLabels, active)
	appendCounts(domain.MetricMembershipAddon, addonCounts[catalogdomain.AddonCategoryMembership], addonLabels, active)

	j.log.Info("plans and add-ons report computed",
		zap.Time("snapshot_date", date),
		zap.Int64("active", active),
		zap.Int("rows", len(rows)),
	)
	return rows, nil
}
