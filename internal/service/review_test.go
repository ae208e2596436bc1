package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/service"
)

func TestReviewService_SubmitReview(t *testing.T) {
	ctx := context.Background()

	completed := &domain.Rental{
		ID:       "rental-1",
		OwnerID:  "owner-1",
		RenterID: "renter-1",
		Status:   domain.RentalStatusCompleted,
	}

	t.Run("Renter reviews the owner", func(t *testing.T) {
		reviewRepo := new(MockReviewRepo)
		rentalRepo := new(MockRentalRepo)
		rentalRepo.On("GetByID", mock.Anything, "rental-1").Return(completed, nil)
		reviewRepo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
			return r.ReviewerID == "renter-1" && r.RevieweeID == "owner-1" && r.Rating == 5
		})).Return(nil)

		svc := service.NewReviewService(reviewRepo, rentalRepo)
		review, err := svc.SubmitReview(ctx, "renter-1", "rental-1", 5, "great owner")
		require.NoError(t, err)
		assert.Equal(t, "owner-1", review.RevieweeID)
	})

	t.Run("Rating bounds", func(t *testing.T) {
		svc := service.NewReviewService(new(MockReviewRepo), new(MockRentalRepo))
		_, err := svc.SubmitReview(ctx, "renter-1", "rental-1", 0, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = svc.SubmitReview(ctx, "renter-1", "rental-1", 6, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Only completed rentals may be reviewed", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		active := *completed
		active.Status = domain.RentalStatusActive
		rentalRepo.On("GetByID", mock.Anything, "rental-1").Return(&active, nil)

		svc := service.NewReviewService(new(MockReviewRepo), rentalRepo)
		_, err := svc.SubmitReview(ctx, "renter-1", "rental-1", 4, "")
		assert.ErrorIs(t, err, domain.ErrStateConflict)
	})

	t.Run("Only participants may review", func(t *testing.T) {
		rentalRepo := new(MockRentalRepo)
		rentalRepo.On("GetByID", mock.Anything, "rental-1").Return(completed, nil)

		svc := service.NewReviewService(new(MockReviewRepo), rentalRepo)
		_, err := svc.SubmitReview(ctx, "stranger", "rental-1", 4, "")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}
