package domain

import "strings"

// Plan is a platform subscription plan reference row.
type Plan struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	Code         string  `gorm:"not null;index" json:"code"`
	Name         string  `gorm:"not null" json:"name"`
	MonthlyPrice float64 `json:"monthly_price"`
	Currency     string  `json:"currency"`
}

func (Plan) TableName() string {
	return "plans"
}

// Persona suffixes carried in plan codes.
const (
	PersonaEveryday  = "Everyday"
	PersonaPower     = "Power User"
	PersonaDesDev    = "Designer / Developer"
	PersonaUltimate  = "Ultimate"
	PersonaUnmatched = "Other"
)

// Persona derives the user persona from the plan code suffix.
func (p Plan) Persona() string {
	code := strings.ToUpper(p.Code)
	switch {
	case strings.HasSuffix(code, "_DES_DEV"):
		return PersonaDesDev
	case strings.HasSuffix(code, "_EVERYDAY"):
		return PersonaEveryday
	case strings.HasSuffix(code, "_POWER"):
		return PersonaPower
	case strings.HasSuffix(code, "_ULTIMATE"):
		return PersonaUltimate
	default:
		return PersonaUnmatched
	}
}

// Addon categories.
const (
	AddonCategoryHardware        = "hardware"
	AddonCategorySoftware        = "software"
	AddonCategoryMembership      = "membership"
	AddonCategoryHealthInsurance = "health_insurance"
)

// Addon is a platform add-on reference row.
type Addon struct {
	ID           string  `gorm:"primaryKey" json:"id"`
	Key          string  `gorm:"not null;uniqueIndex" json:"key"`
	Name         string  `gorm:"not null" json:"name"`
	Category     string  `gorm:"not null;index" json:"category"`
	GroupName    string  `json:"group_name"`
	MonthlyPrice float64 `json:"monthly_price"`
	Currency     string  `json:"currency"`
}

func (Addon) TableName() string {
	return "addons"
}

// OS choices derived from hardware add-on keys.
const (
	OSWindows = "Windows"
	OSMac     = "macOS"
	OSOther   = "Other"
)

// OSChoice maps a hardware add-on to an operating system bucket. The key
// prefix is authoritative; the name keywords cover legacy rows.
func (a Addon) OSChoice() string {
	key := strings.ToUpper(a.Key)
	if strings.HasPrefix(key, "WIN_") {
		return OSWindows
	}
	if strings.HasPrefix(key, "APPLE_") {
		return OSMac
	}
	name := strings.ToLower(a.Name)
	switch {
	case strings.Contains(name, "macbook"), strings.Contains(name, "imac"), strings.Contains(name, "apple"):
		return OSMac
	case strings.Contains(name, "windows"), strings.Contains(name, "thinkpad"), strings.Contains(name, "surface"):
		return OSWindows
	default:
		return OSOther
	}
}

// HardwareGroup buckets hardware add-ons for the hardware_group metric.
func (a Addon) HardwareGroup() string {
	if a.GroupName != "" {
		return a.GroupName
	}
	key := strings.ToUpper(a.Key)
	switch {
	case strings.Contains(key, "MONITOR"):
		return "Monitor"
	case strings.Contains(key, "DOCK"):
		return "Dock"
	case strings.Contains(key, "KEYBOARD"), strings.Contains(key, "MOUSE"):
		return "Peripherals"
	default:
		return "Laptop"
	}
}
