package service

import (
	"context"
	"time"

	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/snapshot/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ReaderParams struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type reader struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func NewReader(p ReaderParams) domain.Reader {
	return &reader{
		db:   p.DB,
		log:  p.Log.Named("snapshot.reader"),
		repo: p.Repo,
	}
}

func (r *reader) Latest(ctx context.Context, metricTypes []string) (time.Time, []domain.MetricRow, error) {
	date, err := r.repo.LatestDate(ctx, r.db, metricTypes)
	if err != nil {
		return time.Time{}, nil, err
	}
	rows, err := r.repo.RowsAt(ctx, r.db, date, metricTypes)
	if err != nil {
		return time.Time{}, nil, err
	}
	return date, rows, nil
}

const trendMonthLabel = "Jan 2006"

func (r *reader) MonthlyTrend(ctx context.Context, metricTypes []string, months int) ([]domain.TrendPoint, error) {
	if months <= 0 {
		months = 12
	}
	latest, err := r.repo.LatestDate(ctx, r.db, metricTypes)
	if err != nil {
		return nil, err
	}

	cutoff := time.Date(latest.Year(), latest.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)
	dates, err := r.repo.DistinctDates(ctx, r.db, metricTypes, cutoff)
	if err != nil {
		return nil, err
	}

	// Dates arrive newest first, so the first date seen for a month is the
	// latest snapshot of that month.
	seen := make(map[string]struct{}, months)
	points := make([]domain.TrendPoint, 0, months)
	for _, date := range dates {
		month := date.UTC().Format("2006-01")
		if _, ok := seen[month]; ok {
			continue
		}
		seen[month] = struct{}{}
		rows, err := r.repo.RowsAt(ctx, r.db, date, metricTypes)
		if err != nil {
			return nil, err
		}
		points = append(points, domain.TrendPoint{
			Date:  date.UTC(),
			Label: date.UTC().Format(trendMonthLabel),
			Rows:  rows,
		})
		if len(points) == months {
			break
		}
	}
	return points, nil
}
