package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListPlans(ctx context.Context, db *gorm.DB) ([]Plan, error)
	ListAddons(ctx context.Context, db *gorm.DB) ([]Addon, error)
}

// PlansByID indexes plans for aggregation lookups.
func PlansByID(plans []Plan) map[string]Plan {
	out := make(map[string]Plan, len(plans))
	for _, p := range plans {
		out[p.ID] = p
	}
	return out
}

// AddonsByKey indexes add-ons by their key.
func AddonsByKey(addons []Addon) map[string]Addon {
	out := make(map[string]Addon, len(addons))
	for _, a := range addons {
		out[a.Key] = a
	}
	return out
}
