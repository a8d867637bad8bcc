package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodAt(t *testing.T) {
	asOf := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	p := PeriodAt(asOf)

	assert.Equal(t, asOf, p.AsOf)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), p.MonthStart)
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), p.MonthEnd)
	assert.Equal(t, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), p.SnapshotDate())
}

func TestPeriodForMonth(t *testing.T) {
	p := PeriodForMonth(2026, time.February)

	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), p.MonthStart)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), p.MonthEnd)
	// AsOf sits at the last instant of the month, so the snapshot is keyed to
	// the month's final day.
	assert.Equal(t, time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC), p.SnapshotDate())
}

func TestPeriodInMonth(t *testing.T) {
	p := PeriodForMonth(2026, time.August)

	assert.True(t, p.InMonth(time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.InMonth(time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.InMonth(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, p.InMonth(time.Date(2026, 7, 31, 23, 59, 59, 0, time.UTC)))
}

func TestPeriodAtNormalizesToUTC(t *testing.T) {
	sydney := time.FixedZone("AEST", 10*3600)
	// 01:00 on Sep 1 in Sydney is still Aug 31 in UTC.
	p := PeriodAt(time.Date(2026, 9, 1, 1, 0, 0, 0, sydney))

	assert.Equal(t, time.August, p.AsOf.Month())
	assert.Equal(t, time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), p.SnapshotDate())
}
