package domain

import "time"

// Lifecycle is the coarse contract state the reports aggregate over.
type Lifecycle string

const (
	LifecycleActive   Lifecycle = "active"
	LifecycleInactive Lifecycle = "inactive"
)

// Raw platform statuses.
const (
	StatusActive      = "ACTIVE"
	StatusApproved    = "APPROVED"
	StatusOnboarded   = "ONBOARDED"
	StatusOffboarding = "OFFBOARDING"
	StatusCancelled   = "CANCELLED"
	StatusTerminated  = "TERMINATED"
	StatusEnded       = "ENDED"
	StatusRejected    = "REJECTED"
	StatusDraft       = "DRAFT"
)

const HealthPlanNone = "NONE"

var statusLifecycle = map[string]Lifecycle{
	StatusActive:      LifecycleActive,
	StatusApproved:    LifecycleActive,
	StatusOnboarded:   LifecycleActive,
	StatusOffboarding: LifecycleActive,
	StatusCancelled:   LifecycleInactive,
	StatusTerminated:  LifecycleInactive,
	StatusEnded:       LifecycleInactive,
	StatusRejected:    LifecycleInactive,
	StatusDraft:       LifecycleInactive,
}

// LifecycleOf maps a raw platform status to its lifecycle.
// Unknown statuses count as inactive.
func LifecycleOf(status string) (Lifecycle, bool) {
	lc, ok := statusLifecycle[status]
	if !ok {
		return LifecycleInactive, false
	}
	return lc, true
}

// Classification buckets the reports are computed over.
type Classification string

const (
	ClassActive             Classification = "active"
	ClassApprovedNotStarted Classification = "approved_not_started"
	ClassOffboarding        Classification = "offboarding"
	ClassInactive           Classification = "inactive"
)

// Classify buckets a contract as of a reporting date. Offboarding wins over
// active; a contract without a start date, or starting after asOf, is
// approved-not-started.
func (c Contract) Classify(asOf time.Time) Classification {
	lc, _ := LifecycleOf(c.Status)
	if lc == LifecycleInactive {
		return ClassInactive
	}
	if c.Status == StatusOffboarding {
		return ClassOffboarding
	}
	if c.StartDate == nil || c.StartDate.After(asOf) {
		return ClassApprovedNotStarted
	}
	return ClassActive
}
