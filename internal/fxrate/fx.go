package fxrate

import (
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate/repository"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("fxrate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
