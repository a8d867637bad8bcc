package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/clock"
	reportdomain "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/domain"
	reportservice "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/report/service"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: invalid configuration")

type Params struct {
	fx.In

	Runner *reportservice.Runner
	Clock  clock.Clock
	Log    *zap.Logger
	Config Config `optional:"true"`
}

// Scheduler drives the snapshot pipeline on a fixed interval. Each report
// runs in its own bounded context so one slow warehouse query cannot starve
// the rest of the pipeline.
type Scheduler struct {
	runner *reportservice.Runner
	clock  clock.Clock
	log    *zap.Logger
	cfg    Config
}

func New(p Params) (*Scheduler, error) {
	if p.Runner == nil || p.Clock == nil || p.Log == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		runner: p.Runner,
		clock:  p.Clock,
		log:    p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:    p.Config.withDefaults(),
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	start := s.clock.Now()
	err := fn(ctx)
	elapsed := s.clock.Now().Sub(start)

	if err == nil {
		s.log.Info("job finished", zap.String("job", name), zap.Duration("elapsed", elapsed))
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		// Soft timeout. The next tick picks the report up again.
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", s.cfg.JobTimeout),
			zap.Error(err),
		)
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// RunOnce executes one pipeline pass for the current reporting period.
func (s *Scheduler) RunOnce(parent context.Context) error {
	period := reportdomain.PeriodAt(s.clock.Now())

	var err error
	for _, name := range []string{
		reportdomain.JobRevenue,
		reportdomain.JobCustomers,
		reportdomain.JobGeographic,
		reportdomain.JobHealthInsurance,
		reportdomain.JobPlansAddons,
		reportdomain.JobRequisitions,
	} {
		if !s.isJobEnabled(name) {
			continue
		}
		job := name
		err = errors.Join(err, s.runJob(parent, job, func(ctx context.Context) error {
			return s.runner.Run(ctx, period, reportservice.RunOptions{Only: []string{job}})
		}))
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("snapshot run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(name string) bool {
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, name) {
			return true
		}
	}
	return false
}
