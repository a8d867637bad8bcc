package domain

import "time"

// FXRate is one warehouse exchange-rate observation.
type FXRate struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BaseCurrency   string    `gorm:"not null;index" json:"base_currency"`
	TargetCurrency string    `gorm:"not null;index" json:"target_currency"`
	Rate           float64   `gorm:"not null" json:"rate"`
	FXDate         time.Time `gorm:"column:fx_date;not null;index" json:"fx_date"`
}

func (FXRate) TableName() string {
	return "fx_rates"
}
