package requisition

import (
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/requisition/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("requisition",
	fx.Provide(repository.Provide),
)
