package service

import (
	"context"
	"time"

	"aluko-backend/internal/domain"
)

// CreateRentalInput is a renter's request for a date range on a listing.
type CreateRentalInput struct {
	ListingID      string                `json:"listing_id"`
	StartDate      string                `json:"start_date"`
	EndDate        string                `json:"end_date"`
	PickupTime     string                `json:"pickup_time"`
	ReturnTime     string                `json:"return_time"`
	DeliveryMethod domain.DeliveryMethod `json:"delivery_method"`
	DeliveryLat    float64               `json:"delivery_lat,omitempty"`
	DeliveryLng    float64               `json:"delivery_lng,omitempty"`
}

// EditDatesInput re-schedules an existing rental. An edit on an approved
// or active rental sends it back to pending for re-approval.
type EditDatesInput struct {
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	PickupTime string `json:"pickup_time"`
	ReturnTime string `json:"return_time"`
}

type RentalService interface {
	CreateRentalRequest(ctx context.Context, renterID string, input CreateRentalInput) (*domain.Rental, error)
	ApproveRental(ctx context.Context, ownerID, rentalID string) (*domain.Rental, error)
	RejectRental(ctx context.Context, ownerID, rentalID, reason string) (*domain.Rental, error)
	ConfirmPickup(ctx context.Context, ownerID, rentalID, code string) (*domain.Rental, error)
	ConfirmReturn(ctx context.Context, renterID, rentalID, code string) (*domain.Rental, error)
	CancelRental(ctx context.Context, userID, rentalID string) (*domain.Rental, error)
	EditRentalDates(ctx context.Context, renterID, rentalID string, input EditDatesInput) (*domain.Rental, error)

	GetRental(ctx context.Context, userID, rentalID string) (*domain.Rental, error)
	ListRentals(ctx context.Context, renterID string, statuses []domain.RentalStatus) ([]domain.Rental, error)
	ListLendings(ctx context.Context, ownerID string, statuses []domain.RentalStatus) ([]domain.Rental, error)
}

type AvailabilityService interface {
	IsRangeFree(ctx context.Context, listingID, startDate, endDate, excludeRentalID string) (bool, error)
	Lock(ctx context.Context, listingID, startDate, endDate, rentalID string) error
	Release(ctx context.Context, rentalID string) error

	// BlockedDays expands the listing's blocks into individual calendar
	// days within one month, for calendar highlighting only.
	BlockedDays(ctx context.Context, listingID string, year int, month time.Month) ([]string, error)
}

// Notifier is the fire-and-forget notification boundary: a failure to
// persist or deliver never blocks the state transition that caused it.
type Notifier interface {
	Notify(ctx context.Context, userID string, typ domain.NotificationType, title, message, relatedRentalID string)
}

type NotificationService interface {
	Notifier
	GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
}

// PushSender delivers one message to one device token.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

type EmailService interface {
	SendRentalRequestNotification(ctx context.Context, ownerEmail, renterName, listingTitle string) error
	SendRentalApprovalNotification(ctx context.Context, renterEmail, listingTitle, renterCode string) error
	SendRentalRejectionNotification(ctx context.Context, renterEmail, listingTitle, reason string) error
}

type ReviewService interface {
	SubmitReview(ctx context.Context, reviewerID, rentalID string, rating int32, comment string) (*domain.Review, error)
	ListRentalsAwaitingReview(ctx context.Context, userID string) ([]domain.Rental, error)
}
