package domain

import "time"

// Role names are a closed set. The roles table exists so patients and users
// can carry real foreign keys, but no roles beyond these three are ever
// provisioned.
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
)

type Role struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
