package domain

import "time"

// Session lives only in process memory. Expiry is measured from
// LastActivity (sliding), not IssuedAt.
type Session struct {
	ID           string
	UserID       string
	Username     string
	Role         string
	IssuedAt     time.Time
	LastActivity time.Time
}
