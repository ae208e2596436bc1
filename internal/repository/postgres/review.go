package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"aluko-backend/internal/domain"
	"aluko-backend/internal/repository"

	"github.com/google/uuid"
)

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	review.CreatedOn = time.Now()

	query := `INSERT INTO reviews (id, rental_id, reviewer_id, reviewee_id, rating, comment, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.RentalID, review.ReviewerID, review.RevieweeID, review.Rating, review.Comment, review.CreatedOn)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// A completed rental with no review row from the user is one the user
// still owes; the review_request notification points here.
func (r *reviewRepository) ListRentalsAwaitingReview(ctx context.Context, userID string) ([]domain.Rental, error) {
	query := `SELECT ` + rentalColumns + ` FROM rentals
	          WHERE status = $1 AND (renter_id = $2 OR owner_id = $2)
	            AND NOT EXISTS (
	                SELECT 1 FROM reviews WHERE reviews.rental_id = rentals.id AND reviews.reviewer_id = $2
	            )
	          ORDER BY updated_on DESC`
	rows, err := r.db.QueryContext(ctx, query, domain.RentalStatusCompleted, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRentals(rows)
}
