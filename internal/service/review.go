package service

import (
	"context"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/repository"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	rentalRepo repository.RentalRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, rentalRepo repository.RentalRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, rentalRepo: rentalRepo}
}

// SubmitReview records a rating for the counterparty of a completed rental.
// Only participants may review, and only after completion.
func (s *reviewService) SubmitReview(ctx context.Context, reviewerID, rentalID string, rating int32, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.Validationf("rating must be between 1 and 5")
	}

	var rental *domain.Rental
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		rental, err = s.rentalRepo.GetByID(ctx, rentalID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rental.Party(reviewerID) == "" {
		return nil, domain.ErrUnauthorized
	}
	if rental.Status != domain.RentalStatusCompleted {
		return nil, domain.ErrStateConflict
	}

	review := &domain.Review{
		RentalID:   rentalID,
		ReviewerID: reviewerID,
		RevieweeID: rental.Counterparty(reviewerID),
		Rating:     rating,
		Comment:    comment,
	}
	err = withRetry(ctx, func(ctx context.Context) error {
		return s.reviewRepo.Create(ctx, review)
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListRentalsAwaitingReview(ctx context.Context, userID string) ([]domain.Rental, error) {
	var rentals []domain.Rental
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		rentals, err = s.reviewRepo.ListRentalsAwaitingReview(ctx, userID)
		return err
	})
	return rentals, err
}
