package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	ListBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]Requisition, error)
	ListPositions(ctx context.Context, db *gorm.DB, requisitionIDs []string) ([]Position, error)
	ListOpenPositions(ctx context.Context, db *gorm.DB) ([]Position, error)
}
