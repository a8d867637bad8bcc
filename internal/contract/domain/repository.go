package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]Contract, error)
	ListCreatedBetween(ctx context.Context, db *gorm.DB, from, to time.Time) ([]Contract, error)
}
