package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Requisition statuses.
const (
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusPending  = "PENDING"
)

// Position statuses.
const (
	PositionOpen   = "OPEN"
	PositionFilled = "FILLED"
	PositionClosed = "CLOSED"
)

// Requisition is an ingested hiring requisition.
type Requisition struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	CompanyID   string    `gorm:"not null;index" json:"company_id"`
	CountryCode string    `gorm:"not null;index" json:"country_code"`
	Status      string    `gorm:"not null;index" json:"status"`
	CreatedAt   time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Requisition) TableName() string {
	return "requisitions"
}

// Position is a single seat on a requisition, with the plan and add-ons the
// seat would subscribe to once filled.
type Position struct {
	ID            string `gorm:"primaryKey" json:"id"`
	RequisitionID string `gorm:"not null;index" json:"requisition_id"`
	CountryCode   string `gorm:"not null;index" json:"country_code"`
	Status        string `gorm:"not null;index" json:"status"`

	PlanID         string                      `json:"plan_id"`
	HardwareKeys   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"hardware_keys,omitempty"`
	SoftwareKeys   datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"software_keys,omitempty"`
	MembershipKeys datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"membership_keys,omitempty"`

	// RecruitmentFeePct is the placement fee percentage agreed for the seat.
	RecruitmentFeePct float64 `json:"recruitment_fee_pct"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Position) TableName() string {
	return "positions"
}
