package service

import (
	"context"
	"strings"
	"time"

	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/config"
	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate/domain"
	obsmetrics "github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Cfg  config.Config
	Repo domain.Repository
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	target string
	repo   domain.Repository
}

func New(p Params) (domain.Service, error) {
	target := strings.ToUpper(strings.TrimSpace(p.Cfg.Snapshot.TargetCurrency))
	if target == "" {
		return nil, domain.ErrInvalidTarget
	}
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("fxrate.service"),
		target: target,
		repo:   p.Repo,
	}, nil
}

func (s *Service) ConverterAt(ctx context.Context, asOf time.Time) (domain.Converter, error) {
	rates, err := s.repo.LatestRates(ctx, s.db, s.target, asOf)
	if err != nil {
		return nil, err
	}
	s.log.Debug("fx rates loaded",
		zap.Time("as_of", asOf),
		zap.Int("currencies", len(rates)),
	)
	return &converter{
		rates:  rates,
		target: s.target,
		log:    s.log,
	}, nil
}

type converter struct {
	rates  map[string]float64
	target string
	log    *zap.Logger
}

func (c *converter) Target() string {
	return c.target
}

func (c *converter) Convert(amount float64, currency string) (float64, bool) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" || currency == c.target {
		return amount, false
	}
	if rate, ok := c.rates[currency]; ok {
		return amount * rate, false
	}

	// No rate on file: substitute a 1.0 factor so the metric still lands,
	// and surface the substitution loudly.
	c.log.Warn("missing fx rate, using 1.0 factor",
		zap.String("currency", currency),
		zap.String("target", c.target),
	)
	obsmetrics.Reporting().IncFXFallback(currency)
	return amount, true
}
