package domain

import "time"

// Notification is an in-app message for a customer or seller. Delivery
// to external channels (email, push) is the notification collaborator's
// concern; these rows are written fire-and-forget and never on the
// failure path of a booking operation.
type Notification struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	Attributes map[string]string `json:"attributes,omitempty"`
	IsRead     bool              `json:"is_read"`
	CreatedOn  time.Time         `json:"created_on"`
}
