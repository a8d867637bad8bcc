package report

import (
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report",
	fx.Provide(service.NewJobs),
	fx.Provide(service.NewRunner),
	fx.Provide(service.NewQuery),
)
