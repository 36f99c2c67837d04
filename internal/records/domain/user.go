package domain

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string  // bcrypt encoded
	RoleID       string  // Foreign key to roles table
	MFASecret    *string // TOTP secret (nullable, base32 encoded)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
