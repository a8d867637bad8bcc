package repository

import (
	"context"
	"time"

	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/contract/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// reportable excludes error-flagged contracts and contracts of demo
// companies from every aggregate.
func reportable(db *gorm.DB) *gorm.DB {
	return db.
		Where("has_error = ?", false).
		Where("company_id NOT IN (SELECT id FROM companies WHERE is_demo = ?)", true)
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := reportable(db.WithContext(ctx).Model(&domain.Contract{})).
		Order("created_at asc, id asc").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *repo) ListCreatedBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]domain.Contract, error) {
	var contracts []domain.Contract
	err := reportable(db.WithContext(ctx).Model(&domain.Contract{})).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at asc, id asc").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}
