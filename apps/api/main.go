package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/cache"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/catalog"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/clock"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/company"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/config"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/migration"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/observability"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/requisition"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/server"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/pkg/db"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Warehouse and snapshot readers backing the API.
		contract.Module,
		company.Module,
		fxrate.Module,
		catalog.Module,
		requisition.Module,
		snapshot.Module,
		report.Module,

		cache.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
