package domain

import "time"

// Review is the post-rental rating each party owes the other once a rental
// completes. A completed rental with no review row from a given party is
// what "owes a review" means; no separate flag column is kept.
type Review struct {
	ID         string    `json:"id"`
	RentalID   string    `json:"rental_id"`
	ReviewerID string    `json:"reviewer_id"`
	RevieweeID string    `json:"reviewee_id"`
	Rating     int32     `json:"rating"` // 1-5
	Comment    string    `json:"comment,omitempty"`
	CreatedOn  time.Time `json:"created_on"`
}
