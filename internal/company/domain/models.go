package domain

import "time"

// Company is an ingested replica of a platform customer account. Demo
// accounts stay in the table but never reach the aggregates.
type Company struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Industry    string    `json:"industry"`
	Size        string    `json:"size"`
	CountryCode string    `json:"country_code"`
	IsDemo      bool      `gorm:"column:is_demo;not null;default:false;index" json:"is_demo"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
}

func (Company) TableName() string {
	return "companies"
}

// DisplayLabel is the dashboard label for ranked customer rows.
func (c Company) DisplayLabel() string {
	industry := c.Industry
	if industry == "" {
		industry = "Unknown"
	}
	size := c.Size
	if size == "" {
		size = "Unknown"
	}
	return c.Name + " (" + industry + ", " + size + ")"
}
