package domain

import "time"

// User carries only what the rental core needs to address the two parties:
// a display name for notification copy, an email for the mail channel and
// device tokens for push. Account management lives outside this backend.
type User struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PushTokens          []string  `json:"push_tokens,omitempty"`
	AllowsNotifications bool      `json:"allows_notifications"`
	CreatedOn           time.Time `json:"created_on"`
}
