package snapshot

import (
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/repository"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/service"
	"go.uber.org/fx"
)

var Module = fx.Module("snapshot",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewWriter),
	fx.Provide(service.NewReader),
)
