package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Contract is an ingested replica of a platform employment contract.
// The reporting warehouse only reads this table.
type Contract struct {
	ID        string     `gorm:"primaryKey" json:"id"`
	CompanyID string     `gorm:"not null;index" json:"company_id"`
	Status    string     `gorm:"not null;index" json:"status"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	CountryCode string `gorm:"index" json:"country_code"`
	Currency    string `json:"currency"`

	// Monthly recurring fees. Each category may carry its own currency tag;
	// an empty tag falls back to the contract currency.
	EORFee              float64 `gorm:"column:eor_fee" json:"eor_fee"`
	EORFeeCurrency      string  `gorm:"column:eor_fee_currency" json:"eor_fee_currency,omitempty"`
	DeviceFee           float64 `json:"device_fee"`
	DeviceFeeCurrency   string  `json:"device_fee_currency,omitempty"`
	HardwareFee         float64 `json:"hardware_fee"`
	HardwareFeeCurrency string  `json:"hardware_fee_currency,omitempty"`
	SoftwareFee         float64 `json:"software_fee"`
	SoftwareFeeCurrency string  `json:"software_fee_currency,omitempty"`
	HealthFee           float64 `json:"health_fee"`
	HealthFeeCurrency   string  `json:"health_fee_currency,omitempty"`

	// One-time fees in contract currency, recognized in the month of CreatedAt.
	PlacementFee    float64 `json:"placement_fee"`
	FinalisationFee float64 `json:"finalisation_fee"`

	PlanID string                      `json:"plan_id"`
	Addons datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"addons,omitempty"`

	HealthPlan      string `json:"health_plan"`
	DependentsCount int    `json:"dependents_count"`
	DeviceType      string `json:"device_type"`

	// Ingest marks broken upstream records; they never reach the aggregates.
	HasError bool `gorm:"column:has_error;not null;default:false;index" json:"has_error"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;index" json:"updated_at"`
}

func (Contract) TableName() string {
	return "contracts"
}

// Recurring fee categories.
const (
	FeeEOR      = "eor"
	FeeDevice   = "device"
	FeeHardware = "hardware"
	FeeSoftware = "software"
	FeeHealth   = "health"
)

// FeeAmount is one recurring fee with its effective currency.
type FeeAmount struct {
	Category string
	Amount   float64
	Currency string
}

// RecurringFees returns the monthly fee columns with their effective
// currencies. Categories without their own tag use the contract currency,
// so every fee must be converted individually before summing.
func (c Contract) RecurringFees() []FeeAmount {
	return []FeeAmount{
		{Category: FeeEOR, Amount: c.EORFee, Currency: c.feeCurrency(c.EORFeeCurrency)},
		{Category: FeeDevice, Amount: c.DeviceFee, Currency: c.feeCurrency(c.DeviceFeeCurrency)},
		{Category: FeeHardware, Amount: c.HardwareFee, Currency: c.feeCurrency(c.HardwareFeeCurrency)},
		{Category: FeeSoftware, Amount: c.SoftwareFee, Currency: c.feeCurrency(c.SoftwareFeeCurrency)},
		{Category: FeeHealth, Amount: c.HealthFee, Currency: c.feeCurrency(c.HealthFeeCurrency)},
	}
}

func (c Contract) feeCurrency(tag string) string {
	if tag != "" {
		return tag
	}
	return c.Currency
}

// OneTimeFee returns the sum of the one-time fee columns in contract currency.
func (c Contract) OneTimeFee() float64 {
	return c.PlacementFee + c.FinalisationFee
}

// HasAddons reports whether the contract carries at least one add-on.
func (c Contract) HasAddons() bool {
	return len(c.Addons) > 0
}

// HasHealthInsurance reports whether the contract has a health plan attached.
func (c Contract) HasHealthInsurance() bool {
	plan := c.HealthPlan
	return plan != "" && plan != HealthPlanNone
}
