package company

import (
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/company/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("company",
	fx.Provide(repository.Provide),
)
