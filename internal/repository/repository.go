package repository

import (
	"context"

	"aluko-backend/internal/domain"
)

type ListingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
}

type RentalRepository interface {
	Create(ctx context.Context, rental *domain.Rental) error
	GetByID(ctx context.Context, id string) (*domain.Rental, error)

	// ConditionalUpdateStatus applies a compare-and-swap transition:
	// UPDATE ... WHERE id = $1 AND status = expected. Zero affected rows
	// means another client got there first and the call fails with
	// domain.ErrStateConflict; on success the fresh snapshot is returned.
	ConditionalUpdateStatus(ctx context.Context, id string, expected, next domain.RentalStatus, patch domain.RentalPatch) (*domain.Rental, error)

	ListByRenter(ctx context.Context, renterID string, statuses []domain.RentalStatus) ([]domain.Rental, error)
	ListByOwner(ctx context.Context, ownerID string, statuses []domain.RentalStatus) ([]domain.Rental, error)

	// CountOpenForRenterOnListing counts the renter's pending, approved
	// and active rentals on one listing; a renter may hold at most one.
	CountOpenForRenterOnListing(ctx context.Context, renterID, listingID string) (int32, error)

	// ListActivePastReturn finds active rentals whose end date precedes
	// the cutoff and that are not yet flagged overdue.
	ListActivePastReturn(ctx context.Context, cutoffDate string) ([]domain.Rental, error)
}

type AvailabilityRepository interface {
	// InsertBlock performs the atomic check-then-lock: the insert only
	// happens if no block of the same listing overlaps the range, in a
	// single statement, and fails with domain.ErrRangeConflict otherwise.
	InsertBlock(ctx context.Context, block *domain.AvailabilityBlock) error

	// DeleteBlockByRental removes a rental's block; a no-op if absent.
	DeleteBlockByRental(ctx context.Context, rentalID string) error

	// QueryOverlap returns blocks of the listing overlapping the
	// inclusive range, ignoring the one owned by excludeRentalID ("" to
	// exclude nothing).
	QueryOverlap(ctx context.Context, listingID, startDate, endDate, excludeRentalID string) ([]domain.AvailabilityBlock, error)

	ListByListing(ctx context.Context, listingID string) ([]domain.AvailabilityBlock, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID string) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error

	// ListRentalsAwaitingReview returns completed rentals the user has
	// not yet reviewed the counterparty for.
	ListRentalsAwaitingReview(ctx context.Context, userID string) ([]domain.Rental, error)
}
