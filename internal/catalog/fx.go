package catalog

import (
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/catalog/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("catalog",
	fx.Provide(repository.Provide),
)
