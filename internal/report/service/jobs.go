package service

import (
	"math"
	"time"

	catalogdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/catalog/domain"
	companydomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/company/domain"
	contractdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/domain"
	fxdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	requisitiondomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/requisition/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type JobsParams struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Contracts    contractdomain.Repository
	Companies    companydomain.Repository
	FX           fxdomain.Service
	Catalog      catalogdomain.Repository
	Requisitions requisitiondomain.Repository
}

// deps is the shared toolbox every aggregator builds from.
type deps struct {
	db           *gorm.DB
	log          *zap.Logger
	contracts    contractdomain.Repository
	companies    companydomain.Repository
	fx           fxdomain.Service
	catalog      catalogdomain.Repository
	requisitions requisitiondomain.Repository
}

// NewJobs returns the full pipeline in its canonical run order.
func NewJobs(p JobsParams) []domain.Job {
	d := deps{
		db:           p.DB,
		log:          p.Log,
		contracts:    p.Contracts,
		companies:    p.Companies,
		fx:           p.FX,
		catalog:      p.Catalog,
		requisitions: p.Requisitions,
	}
	return []domain.Job{
		&revenueJob{deps: d, log: p.Log.Named("report.revenue")},
		&customersJob{deps: d, log: p.Log.Named("report.customers")},
		&geographicJob{deps: d, log: p.Log.Named("report.geographic")},
		&healthInsuranceJob{deps: d, log: p.Log.Named("report.health_insurance")},
		&plansAddonsJob{deps: d, log: p.Log.Named("report.plans_addons")},
		&requisitionsJob{deps: d, log: p.Log.Named("report.requisitions")},
	}
}

// contractMRR converts each recurring fee with its own currency before
// summing; fee categories on one contract may be priced in different
// currencies.
func contractMRR(conv fxdomain.Converter, c contractdomain.Contract) float64 {
	var total float64
	for _, fee := range c.RecurringFees() {
		v, _ := conv.Convert(fee.Amount, fee.Currency)
		total += v
	}
	return total
}

// round2 rounds monetary and percentage values to cents before they are
// persisted, so re-runs produce byte-identical rows.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// pct returns part/total as a percentage, 0 when total is zero.
func pct(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return round2(part / total * 100)
}

// div returns a/b, 0 when b is zero.
func div(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func timeFromUnix(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}

// billable reports whether a classification contributes to recurring revenue.
// Offboarding contracts still bill until their end date passes.
func billable(cls contractdomain.Classification) bool {
	return cls == contractdomain.ClassActive || cls == contractdomain.ClassOffboarding
}
