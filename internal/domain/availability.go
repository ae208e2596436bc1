package domain

import "time"

// AvailabilityBlock reserves one inclusive date range of a listing for one
// rental. A block exists exactly while its rental is in a locking status;
// releasing is keyed by rental id so it stays idempotent.
type AvailabilityBlock struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	RentalID  string    `json:"rental_id"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	CreatedOn time.Time `json:"created_on"`
}

// RangesOverlap is the authoritative overlap test for two inclusive
// yyyy-mm-dd ranges. ISO dates order lexicographically, so plain string
// comparison is exact here.
func RangesOverlap(aStart, aEnd, bStart, bEnd string) bool {
	return aStart <= bEnd && bStart <= aEnd
}
