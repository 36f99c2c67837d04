package store

import (
	"context"
	"errors"
	"time"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	// ErrConstraint reports a rejected write: a foreign key pointing at a
	// nonexistent row or a CHECK the engine refused. Nothing is committed.
	ErrConstraint = errors.New("store: constraint violated")
)

// Store is the root data access interface. Concrete drivers (sqlite)
// implement this. Sub-repositories keep concerns tidy and make it obvious
// when code is about to start a transaction inside a transaction.
type Store interface {
	Users() Users
	Roles() Roles
	Patients() Patients
	Audit() Audit

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing on nil and
	// rolling back on error. Every gate operation runs through this so the
	// data access and its audit entry form one atomic unit.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// UpdateMFASecret sets or clears the TOTP secret for a user.
	UpdateMFASecret(ctx context.Context, userID string, secret *string) error

	// IsEmpty returns true if there are no users (provisioning check).
	IsEmpty(ctx context.Context) (bool, error)
}

type Roles interface {
	// GetRoleByID fetches a role by its id.
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)

	// GetRoleByName fetches a role by name (admin, doctor, receptionist).
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// CreateRole inserts a new role (id is ULID).
	CreateRole(ctx context.Context, r domain.Role) error

	// IsEmpty returns true if there are no roles.
	IsEmpty(ctx context.Context) (bool, error)
}

type Patients interface {
	// GetPatientByID returns a patient by id.
	GetPatientByID(ctx context.Context, id string) (domain.Patient, error)

	// ListPatients returns all patients, oldest first.
	ListPatients(ctx context.Context) ([]domain.Patient, error)

	// CreatePatient inserts a new record. A nonexistent attending id
	// violates the foreign key and fails; it is never silently nulled.
	CreatePatient(ctx context.Context, p domain.Patient) error

	// UpdatePatient rewrites the mutable fields and bumps updated_at.
	UpdatePatient(ctx context.Context, p domain.Patient) error

	// CountPatientsBefore reports how many records the sweeper would purge.
	CountPatientsBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeletePatientsBefore removes records created before cutoff and
	// returns the number deleted.
	DeletePatientsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Audit is append-only. There is no update and no single-row delete; only
// the retention sweeper removes entries, in bulk, after logging the purge.
type Audit interface {
	// Append writes one audit entry.
	Append(ctx context.Context, e domain.AuditEntry) error

	// List returns entries matching the filter, newest first. The store is
	// filter-agnostic; the gate enforces who may call this.
	List(ctx context.Context, f domain.AuditFilter) ([]domain.AuditEntry, error)

	// CountBefore reports how many entries predate cutoff.
	CountBefore(ctx context.Context, cutoff time.Time) (int64, error)

	// DeleteBefore removes entries older than cutoff and returns the
	// number deleted.
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
