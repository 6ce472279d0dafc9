package domain

import "time"

// NotificationCategory classifies advisory messages.
type NotificationCategory string

const (
	NotificationInfo    NotificationCategory = "info"
	NotificationSuccess NotificationCategory = "success"
	NotificationWarning NotificationCategory = "warning"
)

// Notification is an ephemeral advisory message. It lives only for the
// session and is independent of ticket identity.
type Notification struct {
	ID        string               `json:"id"`
	Category  NotificationCategory `json:"category"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	CreatedAt time.Time            `json:"created_at"`
	Read      bool                 `json:"read"`
}
