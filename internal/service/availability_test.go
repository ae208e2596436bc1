package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/service"
)

func TestAvailabilityService_IsRangeFree(t *testing.T) {
	ctx := context.Background()

	t.Run("Free when nothing overlaps", func(t *testing.T) {
		repo := new(MockAvailabilityRepo)
		repo.On("QueryOverlap", mock.Anything, "listing-1", "2026-09-10", "2026-09-12", "").
			Return([]domain.AvailabilityBlock{}, nil)

		svc := service.NewAvailabilityService(repo)
		free, err := svc.IsRangeFree(ctx, "listing-1", "2026-09-10", "2026-09-12", "")
		require.NoError(t, err)
		assert.True(t, free)
	})

	t.Run("Occupied when any block overlaps", func(t *testing.T) {
		repo := new(MockAvailabilityRepo)
		repo.On("QueryOverlap", mock.Anything, "listing-1", "2026-09-10", "2026-09-12", "").
			Return([]domain.AvailabilityBlock{{RentalID: "other", StartDate: "2026-09-12", EndDate: "2026-09-15"}}, nil)

		svc := service.NewAvailabilityService(repo)
		free, err := svc.IsRangeFree(ctx, "listing-1", "2026-09-10", "2026-09-12", "")
		require.NoError(t, err)
		assert.False(t, free)
	})
}

func TestAvailabilityService_Lock(t *testing.T) {
	ctx := context.Background()

	repo := new(MockAvailabilityRepo)
	repo.On("InsertBlock", mock.Anything, mock.MatchedBy(func(b *domain.AvailabilityBlock) bool {
		return b.ListingID == "listing-1" && b.RentalID == "rental-1" &&
			b.StartDate == "2026-09-10" && b.EndDate == "2026-09-12"
	})).Return(domain.ErrRangeConflict)

	svc := service.NewAvailabilityService(repo)
	err := svc.Lock(ctx, "listing-1", "2026-09-10", "2026-09-12", "rental-1")
	assert.ErrorIs(t, err, domain.ErrRangeConflict)
	// A range conflict is a definitive answer; one attempt is enough.
	repo.AssertNumberOfCalls(t, "InsertBlock", 1)
}

func TestAvailabilityService_BlockedDays(t *testing.T) {
	ctx := context.Background()

	repo := new(MockAvailabilityRepo)
	repo.On("ListByListing", mock.Anything, "listing-1").Return([]domain.AvailabilityBlock{
		// Straddles the month boundary; only the September days count.
		{RentalID: "a", StartDate: "2026-08-30", EndDate: "2026-09-02"},
		{RentalID: "b", StartDate: "2026-09-10", EndDate: "2026-09-11"},
		// Outside September entirely.
		{RentalID: "c", StartDate: "2026-10-05", EndDate: "2026-10-07"},
	}, nil)

	svc := service.NewAvailabilityService(repo)
	days, err := svc.BlockedDays(ctx, "listing-1", 2026, time.September)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-09-01", "2026-09-02", "2026-09-10", "2026-09-11"}, days)
}
