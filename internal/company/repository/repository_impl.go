package repository

import (
	"context"

	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/company/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) List(ctx context.Context, db *gorm.DB) ([]domain.Company, error) {
	var companies []domain.Company
	err := db.WithContext(ctx).
		Model(&domain.Company{}).
		Where("is_demo = ?", false).
		Order("created_at asc, id asc").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}
