package repository

import (
	"context"
	"time"

	"github.com/steve-waters-outstaffer/outataffer-platform-reporting/internal/requisition/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ListBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]domain.Requisition, error) {
	var requisitions []domain.Requisition
	err := db.WithContext(ctx).
		Model(&domain.Requisition{}).
		Where("updated_at >= ? AND updated_at < ?", from, to).
		Where("company_id NOT IN (SELECT id FROM companies WHERE is_demo = ?)", true).
		Order("updated_at asc, id asc").
		Find(&requisitions).Error
	if err != nil {
		return nil, err
	}
	return requisitions, nil
}

func (r *repo) ListPositions(ctx context.Context, db *gorm.DB, requisitionIDs []string) ([]domain.Position, error) {
	if len(requisitionIDs) == 0 {
		return nil, nil
	}
	var positions []domain.Position
	err := db.WithContext(ctx).
		Model(&domain.Position{}).
		Where("requisition_id IN ?", requisitionIDs).
		Order("id asc").
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *repo) ListOpenPositions(ctx context.Context, db *gorm.DB) ([]domain.Position, error) {
	var positions []domain.Position
	err := db.WithContext(ctx).
		Model(&domain.Position{}).
		Where("status = ?", domain.PositionOpen).
		Where("requisition_id NOT IN (SELECT id FROM requisitions WHERE company_id IN (SELECT id FROM companies WHERE is_demo = ?))", true).
		Order("id asc").
		Find(&positions).Error
	if err != nil {
		return nil, err
	}
	return positions, nil
}
