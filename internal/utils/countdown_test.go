package utils

import (
	"testing"
	"time"

	"aluko-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCountdown(t *testing.T) {
	rental := &domain.Rental{
		StartDate:  "2024-06-10",
		EndDate:    "2024-06-12",
		PickupTime: "10:00",
		ReturnTime: "18:00",
	}

	t.Run("Approved counts down to pickup", func(t *testing.T) {
		r := *rental
		r.Status = domain.RentalStatusApproved
		now := time.Date(2024, 6, 8, 4, 47, 0, 0, time.UTC)

		info, ok := Countdown(now, &r, time.UTC)
		assert.True(t, ok)
		assert.False(t, info.IsOverdue)
		assert.Equal(t, "Pickup in 2d 5h 13m", info.Label)
		assert.Equal(t, time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC), info.Target)
	})

	t.Run("Active counts down to return", func(t *testing.T) {
		r := *rental
		r.Status = domain.RentalStatusActive
		now := time.Date(2024, 6, 12, 14, 48, 0, 0, time.UTC)

		info, ok := Countdown(now, &r, time.UTC)
		assert.True(t, ok)
		assert.False(t, info.IsOverdue)
		assert.Equal(t, "Return due in 3h 12m", info.Label)
	})

	t.Run("Past deadline is overdue", func(t *testing.T) {
		r := *rental
		r.Status = domain.RentalStatusActive
		now := time.Date(2024, 6, 12, 18, 0, 1, 0, time.UTC)

		info, ok := Countdown(now, &r, time.UTC)
		assert.True(t, ok)
		assert.True(t, info.IsOverdue)
		assert.Contains(t, info.Label, "Return overdue")
	})

	t.Run("Exactly at deadline is overdue", func(t *testing.T) {
		r := *rental
		r.Status = domain.RentalStatusApproved
		now := time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC)

		info, ok := Countdown(now, &r, time.UTC)
		assert.True(t, ok)
		assert.True(t, info.IsOverdue)
	})

	t.Run("No deadline outside approved or active", func(t *testing.T) {
		for _, status := range []domain.RentalStatus{
			domain.RentalStatusPending,
			domain.RentalStatusCompleted,
			domain.RentalStatusCancelled,
			domain.RentalStatusRejected,
		} {
			r := *rental
			r.Status = status
			_, ok := Countdown(time.Now(), &r, time.UTC)
			assert.False(t, ok, "status %s", status)
		}
	})
}

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{49*time.Hour + 30*time.Minute, "2d 1h 30m"},
		{3*time.Hour + 12*time.Minute + 59*time.Second, "3h 12m"},
		{45*time.Minute + 10*time.Second, "45m 10s"},
		{9 * time.Second, "9s"},
		{0, "0s"},
		{-time.Minute, "1m 0s"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatRemaining(tt.d), "duration %s", tt.d)
	}
}

func TestDistanceKm(t *testing.T) {
	// Madrid to Barcelona, roughly 505 km as the crow flies.
	d := DistanceKm(40.4168, -3.7038, 41.3874, 2.1686)
	assert.InDelta(t, 505, d, 5)

	assert.Equal(t, 0.0, DistanceKm(40.0, -3.0, 40.0, -3.0))
}
