package contract

import (
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("contract",
	fx.Provide(repository.Provide),
)
