package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/cache"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/clock"
	obsmetrics "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/observability/metrics"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	snapshotdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/pkg/log/ctxlogger"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/pkg/telemetry/correlation"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type RunnerParams struct {
	fx.In

	Jobs   []domain.Job
	Writer snapshotdomain.Writer
	Clock  clock.Clock
	Log    *zap.Logger
	// The response cache is only wired in processes that carry redis config;
	// a nil cache makes invalidation a no-op.
	Cache *cache.Cache `optional:"true"`
}

type RunOptions struct {
	DryRun bool
	// Only restricts the run to the named jobs. Empty runs the whole pipeline.
	Only []string
}

// Runner executes the snapshot pipeline. Jobs run in order; a failing job
// does not stop the ones after it, and all failures are reported together.
type Runner struct {
	jobs   []domain.Job
	writer snapshotdomain.Writer
	clock  clock.Clock
	log    *zap.Logger
	cache  *cache.Cache
}

func NewRunner(p RunnerParams) *Runner {
	return &Runner{
		jobs:   p.Jobs,
		writer: p.Writer,
		clock:  p.Clock,
		log:    p.Log.Named("report.runner"),
		cache:  p.Cache,
	}
}

// PeriodNow builds the period for an ad-hoc run at the current instant.
func (r *Runner) PeriodNow() domain.Period {
	return domain.PeriodAt(r.clock.Now())
}

func (r *Runner) Run(ctx context.Context, p domain.Period, opts RunOptions) error {
	selected, err := r.selectJobs(opts.Only)
	if err != nil {
		return err
	}

	ctx, _ = correlation.EnsureCorrelationID(ctx)
	var errs []error
	var written bool
	for _, job := range selected {
		wrote, err := r.runOne(ctx, job, p, opts)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", job.Name(), err))
		}
		written = written || wrote
	}
	if written {
		// Cached API responses now serve replaced rows; drop them early.
		r.cache.Invalidate(ctx, cache.KeyPrefix)
	}
	return errors.Join(errs...)
}

func (r *Runner) runOne(ctx context.Context, job domain.Job, p domain.Period, opts RunOptions) (bool, error) {
	ctx = ctxlogger.ContextWithJob(ctx, job.Name())
	log := ctxlogger.WithContext(ctx, r.log)
	obsmetrics.Reporting().IncJobRun(job.Name())

	rows, err := job.Build(ctx, p)
	if err != nil {
		obsmetrics.Reporting().IncJobError(job.Name())
		log.Error("report build failed", zap.String("job", job.Name()), zap.Error(err))
		return false, err
	}

	res, err := r.writer.Write(ctx, job.Name(), rows, snapshotdomain.WriteOptions{DryRun: opts.DryRun})
	if err != nil {
		if errors.Is(err, snapshotdomain.ErrEmptySnapshot) {
			log.Warn("report produced no rows, snapshot kept",
				zap.String("job", job.Name()),
				zap.Time("snapshot_date", p.SnapshotDate()),
			)
			return false, nil
		}
		return false, err
	}

	log.Info("report snapshot persisted",
		zap.String("job", job.Name()),
		zap.String("run_id", res.RunID),
		zap.Int("rows", res.Rows),
		zap.Bool("dry_run", res.DryRun),
		zap.String("csv_path", res.CSVPath),
	)
	return !res.DryRun, nil
}

func (r *Runner) selectJobs(only []string) ([]domain.Job, error) {
	if len(only) == 0 {
		return r.jobs, nil
	}
	byName := make(map[string]domain.Job, len(r.jobs))
	for _, job := range r.jobs {
		byName[job.Name()] = job
	}
	selected := make([]domain.Job, 0, len(only))
	for _, name := range only {
		job, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownJob, name)
		}
		selected = append(selected, job)
	}
	return selected, nil
}
