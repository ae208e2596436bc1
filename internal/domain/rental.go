package domain

import "time"

type RentalStatus string

const (
	RentalStatusPending   RentalStatus = "pending"
	RentalStatusApproved  RentalStatus = "approved"
	RentalStatusActive    RentalStatus = "active"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
	RentalStatusRejected  RentalStatus = "rejected"
)

// Terminal reports whether no further transition may leave the status.
func (s RentalStatus) Terminal() bool {
	switch s {
	case RentalStatusCompleted, RentalStatusCancelled, RentalStatusRejected:
		return true
	}
	return false
}

// Locking reports whether a rental in this status holds an availability
// block against its listing. Pending rentals hold the range only softly:
// they are re-checked at approval time and never own a block row.
func (s RentalStatus) Locking() bool {
	return s == RentalStatusApproved || s == RentalStatusActive
}

type DeliveryMethod string

const (
	DeliveryMethodPickup  DeliveryMethod = "pickup"
	DeliveryMethodAddress DeliveryMethod = "delivery"
)

// PricingSnapshot is the frozen money breakdown computed when a rental is
// created or re-edited. All amounts are whole euro cents; the snapshot is
// immutable until the rental is edited and repriced.
type PricingSnapshot struct {
	TotalDays          int32 `json:"total_days"`
	PricePerDayCents   int64 `json:"price_per_day_cents"`
	SubtotalCents      int64 `json:"subtotal_cents"`
	ServiceFeeCents    int64 `json:"service_fee_cents"`
	DeliveryFeeCents   int64 `json:"delivery_fee_cents"`
	TotalAmountCents   int64 `json:"total_amount_cents"`
	OwnerAmountCents   int64 `json:"owner_amount_cents"`
	DepositAmountCents int64 `json:"deposit_amount_cents"`
}

type Rental struct {
	ID        string `json:"id"`
	ListingID string `json:"listing_id"`
	OwnerID   string `json:"owner_id"`
	RenterID  string `json:"renter_id"`

	// Calendar dates, inclusive on both ends, yyyy-mm-dd, time-zone naive.
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	PickupTime string `json:"pickup_time"` // HH:MM, local
	ReturnTime string `json:"return_time"` // HH:MM, local

	DeliveryMethod DeliveryMethod `json:"delivery_method"`

	Pricing PricingSnapshot `json:"pricing"`

	Status RentalStatus `json:"status"`

	// Handoff codes exist only while the rental is approved or active.
	// Each code is entered by the counterparty of the person it belongs to.
	OwnerCode      *string `json:"owner_code,omitempty"`
	RenterCode     *string `json:"renter_code,omitempty"`
	OwnerCodeUsed  bool    `json:"owner_code_used"`
	RenterCodeUsed bool    `json:"renter_code_used"`

	PickupConfirmedAt *time.Time `json:"pickup_confirmed_at,omitempty"`
	ReturnConfirmedAt *time.Time `json:"return_confirmed_at,omitempty"`

	// Overdue is a reminder flag set by the nightly sweep, not a lifecycle
	// state: an overdue rental is still active.
	Overdue bool `json:"overdue"`

	RejectionReason string    `json:"rejection_reason,omitempty"`
	CreatedOn       time.Time `json:"created_on"`
	UpdatedOn       time.Time `json:"updated_on"`
}

// Party returns the role userID plays on the rental, or "" for a stranger.
func (r *Rental) Party(userID string) string {
	switch userID {
	case r.OwnerID:
		return "owner"
	case r.RenterID:
		return "renter"
	}
	return ""
}

// Counterparty returns the other side of the rental relative to userID.
func (r *Rental) Counterparty(userID string) string {
	if userID == r.OwnerID {
		return r.RenterID
	}
	return r.OwnerID
}

// RentalPatch lists the columns a conditional status update may touch.
// Nil pointer fields are left alone. ClearHandoffState nulls both codes,
// both used flags and pickup_confirmed_at in the same statement, which is
// what an edit-reset needs.
type RentalPatch struct {
	OwnerCode         *string
	RenterCode        *string
	OwnerCodeUsed     *bool
	RenterCodeUsed    *bool
	PickupConfirmedAt *time.Time
	ReturnConfirmedAt *time.Time
	RejectionReason   *string
	Overdue           *bool
	ClearHandoffState bool

	StartDate  *string
	EndDate    *string
	PickupTime *string
	ReturnTime *string
	Pricing    *PricingSnapshot
}
