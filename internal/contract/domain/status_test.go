package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLifecycleOf(t *testing.T) {
	active := []string{StatusActive, StatusApproved, StatusOnboarded, StatusOffboarding}
	for _, status := range active {
		lc, known := LifecycleOf(status)
		assert.Equal(t, LifecycleActive, lc, status)
		assert.True(t, known, status)
	}

	inactive := []string{StatusCancelled, StatusTerminated, StatusEnded, StatusRejected, StatusDraft}
	for _, status := range inactive {
		lc, known := LifecycleOf(status)
		assert.Equal(t, LifecycleInactive, lc, status)
		assert.True(t, known, status)
	}

	lc, known := LifecycleOf("SOMETHING_NEW")
	assert.Equal(t, LifecycleInactive, lc)
	assert.False(t, known)
}

func TestClassify(t *testing.T) {
	asOf := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	past := asOf.AddDate(0, -2, 0)
	future := asOf.AddDate(0, 0, 10)

	t.Run("started active contract", func(t *testing.T) {
		c := Contract{Status: StatusActive, StartDate: &past}
		assert.Equal(t, ClassActive, c.Classify(asOf))
	})

	t.Run("start date in the future", func(t *testing.T) {
		c := Contract{Status: StatusActive, StartDate: &future}
		assert.Equal(t, ClassApprovedNotStarted, c.Classify(asOf))
	})

	t.Run("no start date yet", func(t *testing.T) {
		c := Contract{Status: StatusApproved}
		assert.Equal(t, ClassApprovedNotStarted, c.Classify(asOf))
	})

	t.Run("offboarding wins over start date", func(t *testing.T) {
		c := Contract{Status: StatusOffboarding, StartDate: &past}
		assert.Equal(t, ClassOffboarding, c.Classify(asOf))
	})

	t.Run("terminated is inactive regardless of dates", func(t *testing.T) {
		c := Contract{Status: StatusTerminated, StartDate: &past}
		assert.Equal(t, ClassInactive, c.Classify(asOf))
	})

	t.Run("unknown status treated as inactive", func(t *testing.T) {
		c := Contract{Status: "MYSTERY", StartDate: &past}
		assert.Equal(t, ClassInactive, c.Classify(asOf))
	})
}

func TestContractFees(t *testing.T) {
	c := Contract{
		Currency:        "AUD",
		EORFee:          500,
		DeviceFee:       60,
		HardwareFee:     25,
		SoftwareFee:     15,
		HealthFee:       90,
		PlacementFee:    4000,
		FinalisationFee: 250,
	}

	fees := c.RecurringFees()
	var total float64
	for _, fee := range fees {
		total += fee.Amount
		assert.Equal(t, "AUD", fee.Currency, fee.Category)
	}
	assert.InDelta(t, 690, total, 1e-9)
	assert.InDelta(t, 4250, c.OneTimeFee(), 1e-9)
}

func TestRecurringFeesCurrencyTags(t *testing.T) {
	c := Contract{
		Currency:       "AUD",
		EORFee:         2000,
		EORFeeCurrency: "USD",
		DeviceFee:      60,
	}

	byCategory := map[string]FeeAmount{}
	for _, fee := range c.RecurringFees() {
		byCategory[fee.Category] = fee
	}
	// Tagged categories keep their own currency, untagged ones fall back to
	// the contract currency.
	assert.Equal(t, "USD", byCategory[FeeEOR].Currency)
	assert.Equal(t, "AUD", byCategory[FeeDevice].Currency)
	assert.Equal(t, "AUD", byCategory[FeeHealth].Currency)
}

func TestHasHealthInsurance(t *testing.T) {
	assert.False(t, Contract{HealthPlan: ""}.HasHealthInsurance())
	assert.False(t, Contract{HealthPlan: HealthPlanNone}.HasHealthInsurance())
	assert.True(t, Contract{HealthPlan: "STANDARD"}.HasHealthInsurance())
}
