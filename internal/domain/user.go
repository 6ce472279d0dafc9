package domain

import "time"

// User is a dashboard operator. Role is an opaque string supplied by the
// session store; the lifecycle engine compares it case-insensitively
// against the configured elevated marker.
type User struct {
	ID           string
	Name         string
	Login        string
	Email        string
	PasswordHash string
	Role         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
