package migration

import (
	catalogdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/catalog/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/clock"
	companydomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/company/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/config"
	contractdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/domain"
	fxratedomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate/domain"
	requisitiondomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/requisition/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/seed"
	snapshotdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, dbCfg db.Config, clk clock.Clock) error {
		if dbCfg.Type == db.Postgres {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Versioned migrations are written for postgres. Dev and test
			// databases are built from the models instead.
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoData(conn, clk.Now())
		}
		return nil
	}),
)

// AutoMigrate builds the schema straight from the models.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&companydomain.Company{},
		&contractdomain.Contract{},
		&fxratedomain.FXRate{},
		&requisitiondomain.Requisition{},
		&requisitiondomain.Position{},
		&catalogdomain.Plan{},
		&catalogdomain.Addon{},
		&snapshotdomain.MetricRow{},
		&snapshotdomain.Run{},
	)
}
