package repository

import (
	"context"
	"time"

	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/fxrate/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) LatestRates(ctx context.Context, db *gorm.DB, target string, asOf time.Time) (map[string]float64, error) {
	var rates []domain.FXRate
	err := db.WithContext(ctx).
		Model(&domain.FXRate{}).
		Where("target_currency = ? AND fx_date <= ?", target, asOf).
		Order("fx_date asc, id asc").
		Find(&rates).Error
	if err != nil {
		return nil, err
	}

	// Ascending scan so the newest observation per currency wins.
	latest := make(map[string]float64, len(rates))
	for _, rate := range rates {
		latest[rate.BaseCurrency] = rate.Rate
	}
	return latest, nil
}
