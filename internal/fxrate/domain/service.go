package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// LatestRates returns one rate per base currency: the observation with the
	// greatest FXDate not after asOf. Date ties are broken by the greatest ID.
	LatestRates(ctx context.Context, db *gorm.DB, target string, asOf time.Time) (map[string]float64, error)
}

// Converter normalizes amounts into the snapshot target currency.
type Converter interface {
	// Convert returns the amount in the target currency. The bool reports
	// whether the 1.0 fallback factor was used because no rate was known.
	Convert(amount float64, currency string) (float64, bool)
	Target() string
}

// Service builds converters pinned to a reporting date.
type Service interface {
	ConverterAt(ctx context.Context, asOf time.Time) (Converter, error)
}

var (
	ErrInvalidTarget = errors.New("invalid_target_currency")
)
