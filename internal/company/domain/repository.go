package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	List(ctx context.Context, db *gorm.DB) ([]Company, error)
}

// MapByID indexes companies for join-style lookups in the aggregators.
func MapByID(companies []Company) map[string]Company {
	out := make(map[string]Company, len(companies))
	for _, c := range companies {
		out[c.ID] = c
	}
	return out
}
