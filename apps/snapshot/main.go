package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

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
	reportdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	reportservice "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/service"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/requisition"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/pkg/db"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/pkg/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "write CSVs instead of touching the snapshot table")
	month := flag.String("month", "", "reporting month as YYYY-MM, defaults to the current month")
	jobs := flag.String("job", "", "comma separated report names, defaults to the full pipeline")
	flag.Parse()

	var only []string
	for _, name := range strings.Split(*jobs, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			only = append(only, trimmed)
		}
	}

	app := fx.New(
		config.Module,
		log.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		contract.Module,
		company.Module,
		fxrate.Module,
		catalog.Module,
		requisition.Module,
		snapshot.Module,
		report.Module,
		// Lets the pipeline drop the API replicas' cached responses after a
		// write; without REDIS_ADDR it is a no-op.
		cache.Module,

		fx.Invoke(func(lc fx.Lifecycle, runner *reportservice.Runner, clk clock.Clock, shutdowner fx.Shutdowner, logger *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						code := 0
						if err := runPipeline(runner, clk, *month, *dryRun, only); err != nil {
							logger.Error("snapshot run failed", zap.Error(err))
							code = 1
						}
						_ = shutdowner.Shutdown(fx.ExitCode(code))
					}()
					return nil
				},
			})
		}),
	)
	app.Run()
}

func runPipeline(runner *reportservice.Runner, clk clock.Clock, month string, dryRun bool, only []string) error {
	period, err := resolvePeriod(clk, month)
	if err != nil {
		return err
	}
	return runner.Run(context.Background(), period, reportservice.RunOptions{
		DryRun: dryRun,
		Only:   only,
	})
}

func resolvePeriod(clk clock.Clock, month string) (reportdomain.Period, error) {
	if month == "" {
		return reportdomain.PeriodAt(clk.Now()), nil
	}
	parsed, err := time.Parse("2006-01", month)
	if err != nil {
		return reportdomain.Period{}, fmt.Errorf("invalid --month %q, want YYYY-MM: %w", month, err)
	}
	return reportdomain.PeriodForMonth(parsed.Year(), parsed.Month()), nil
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
