package repository

import (
	"context"

	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListPlans(ctx context.Context, db *gorm.DB) ([]domain.Plan, error) {
	var plans []domain.Plan
	err := db.WithContext(ctx).
		Model(&domain.Plan{}).
		Order("code asc").
		Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *repo) ListAddons(ctx context.Context, db *gorm.DB) ([]domain.Addon, error) {
	var addons []domain.Addon
	err := db.WithContext(ctx).
		Model(&domain.Addon{}).
		Order("key asc").
		Find(&addons).Error
	if err != nil {
		return nil, err
	}
	return addons, nil
}
