package domain

import "time"

type NotificationType string

const (
	NotificationRentalRequest   NotificationType = "rental_request"
	NotificationRentalApproved  NotificationType = "rental_approved"
	NotificationRentalRejected  NotificationType = "rental_rejected"
	NotificationRentalActive    NotificationType = "rental_active"
	NotificationRentalCompleted NotificationType = "rental_completed"
	NotificationRentalCancelled NotificationType = "rental_cancelled"
	NotificationRentalEdited    NotificationType = "rental_edited"
	NotificationPickupReminder  NotificationType = "pickup_reminder"
	NotificationReturnReminder  NotificationType = "return_reminder"
	NotificationReviewRequest   NotificationType = "review_request"
)

type Notification struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	Type            NotificationType `json:"type"`
	Title           string           `json:"title"`
	Message         string           `json:"message"`
	RelatedRentalID *string          `json:"related_rental_id,omitempty"`
	Read            bool             `json:"read"`
	CreatedOn       time.Time        `json:"created_on"`
}
