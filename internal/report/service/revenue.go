package service

import (
	"context"
	"fmt"

	contractdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	snapshotdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"go.uber.org/zap"
)

// revenueJob computes the subscription and revenue report: lifecycle counts,
// churn and retention for the reporting month, and MRR/ARR normalized into
// the target currency.
type revenueJob struct {
	deps
	log *zap.Logger
}

func (j *revenueJob) Name() string { return domain.JobRevenue }

func (j *revenueJob) Build(ctx context.Context, p domain.Period) ([]snapshotdomain.MetricRow, error) {
	contracts, err := j.contracts.List(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	companies, err := j.companies.List(ctx, j.db)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	conv, err := j.fx.ConverterAt(ctx, p.AsOf)
	if err != nil {
		return nil, fmt.Errorf("fx converter: %w", err)
	}

	var (
		active, approvedNotStarted, offboarding int64
		newSubs, churned                        int64
		laptops                                 int64
		eorMRR, deviceMRR, hardwareMRR          float64
		softwareMRR, healthMRR                  float64
		oneTime                                 float64
		billableCount                           int64
	)
	for _, c := range contracts {
		cls := c.Classify(p.AsOf)
		switch cls {
		case contractdomain.ClassActive:
			active++
		case contractdomain.ClassApprovedNotStarted:
			approvedNotStarted++
		case contractdomain.ClassOffboarding:
			offboarding++
		case contractdomain.ClassInactive:
			// Churn is dated by the status transition, not the end date.
			if p.InMonth(c.UpdatedAt) {
				churned++
			}
		}

		if c.StartDate != nil && p.InMonth(*c.StartDate) && cls != contractdomain.ClassInactive {
			newSubs++
		}

		if billable(cls) {
			billableCount++
			for _, fee := range c.RecurringFees() {
				v, _ := conv.Convert(fee.Amount, fee.Currency)
				switch fee.Category {
				case contractdomain.FeeEOR:
					eorMRR += v
				case contractdomain.FeeDevice:
					deviceMRR += v
				case contractdomain.FeeHardware:
					hardwareMRR += v
				case contractdomain.FeeSoftware:
					softwareMRR += v
				case contractdomain.FeeHealth:
					healthMRR += v
				}
			}
			if c.DeviceType != "" && c.DeviceType != "NONE" {
				laptops++
			}
		}

		if p.InMonth(c.CreatedAt) {
			fee, _ := conv.Convert(c.OneTimeFee(), c.Currency)
			oneTime += fee
		}
	}

	var newCustomers int64
	for _, co := range companies {
		if p.InMonth(co.CreatedAt) {
			newCustomers++
		}
	}

	totalMRR := eorMRR + deviceMRR + hardwareMRR + softwareMRR + healthMRR
	// Everything billed beyond the EOR base fee counts as add-on revenue.
	addonMRR := totalMRR - eorMRR
	// The persisted ARR derives from the persisted MRR, so the served pair
	// stays an exact 12x multiple after rounding.
	persistedMRR := round2(totalMRR)
	persistedARR := round2(persistedMRR * 12)
	// The churn base is the book at month start: survivors plus the churned.
	churnBase := float64(active+offboarding) + float64(churned)
	churnRate := pct(float64(churned), churnBase)
	retentionRate := 0.0
	if churnBase > 0 {
		retentionRate = round2(100 - churnRate)
	}
	totalRevenue := totalMRR + oneTime

	date := p.SnapshotDate()
	rows := []snapshotdomain.MetricRow{
		snapshotdomain.CountRow(date, domain.MetricTotalActiveSubscriptions, "", "Active subscriptions", active),
		snapshotdomain.CountRow(date, domain.MetricApprovedNotStarted, "", "Approved not started", approvedNotStarted),
		snapshotdomain.CountRow(date, domain.MetricOffboardingSubscriptions, "", "Offboarding subscriptions", offboarding),
		snapshotdomain.CountRow(date, domain.MetricNewSubscriptions, "", "New subscriptions", newSubs),
		snapshotdomain.CountRow(date, domain.MetricChurnedSubscriptions, "", "Churned subscriptions", churned),
		snapshotdomain.PercentageRow(date, domain.MetricRetentionRate, "", "Retention rate", retentionRate),
		snapshotdomain.PercentageRow(date, domain.MetricChurnRate, "", "Churn rate", churnRate),
		snapshotdomain.ValueRow(date, domain.MetricTotalMRR, "", "Total MRR", persistedMRR),
		snapshotdomain.ValueRow(date, domain.MetricTotalARR, "", "Total ARR", persistedARR),
		snapshotdomain.ValueRow(date, domain.MetricEORMRR, "", "EOR MRR", round2(eorMRR)),
		snapshotdomain.ValueRow(date, domain.MetricAddonMRR, "", "Add-on MRR", round2(addonMRR)),
		snapshotdomain.PercentageRow(date, domain.MetricAddonPercentage, "", "Add-on MRR share", pct(addonMRR, totalMRR)),
		snapshotdomain.ValueRow(date, domain.MetricDeviceMRR, "", "Device MRR", round2(deviceMRR)),
		snapshotdomain.ValueRow(date, domain.MetricHardwareMRR, "", "Hardware MRR", round2(hardwareMRR)),
		snapshotdomain.ValueRow(date, domain.MetricSoftwareMRR, "", "Software MRR", round2(softwareMRR)),
		snapshotdomain.ValueRow(date, domain.MetricHealthMRR, "", "Health MRR", round2(healthMRR)),
		snapshotdomain.ValueRow(date, domain.MetricAvgSubscriptionValue, "", "Avg subscription value", round2(div(totalMRR, float64(billableCount)))),
		snapshotdomain.ValueRow(date, domain.MetricOneTimeRevenue, "", "One-time revenue", round2(oneTime)),
		snapshotdomain.PercentageRow(date, domain.MetricRecurringRevenuePct, "", "Recurring revenue share", pct(totalMRR, totalRevenue)),
		snapshotdomain.PercentageRow(date, domain.MetricOneTimeRevenuePct, "", "One-time revenue share", pct(oneTime, totalRevenue)),
		snapshotdomain.CountRow(date, domain.MetricNewCustomers, "", "New customers", newCustomers),
		snapshotdomain.CountRow(date, domain.MetricLaptopsCount, "", "Laptops deployed", laptops),
	}

	j.log.Info("revenue report computed",
		zap.Time("snapshot_date", date),
		zap.Int64("active", active),
		zap.Float64("total_mrr", persistedMRR),
		zap.String("currency", conv.Target()),
	)
	return rows, nil
}
