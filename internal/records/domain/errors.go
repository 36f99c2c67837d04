package domain

import (
	"errors"
	"fmt"
)

// Outcome taxonomy surfaced to callers. Everything the gate returns is one of
// these (or wraps one); the presentation layer owns user-facing wording.
var (
	// ErrAuthFailure covers bad credentials and expired sessions alike. It
	// deliberately carries no detail about which, to prevent enumeration.
	ErrAuthFailure = errors.New("authentication failed")

	// ErrDenied means the access policy forbids the action for this
	// role/class pair. Unknown pairs resolve here too (fail-closed).
	ErrDenied = errors.New("access denied")

	// ErrDecryptionFailure means a pseudonym token was tampered with or
	// sealed under a different key. No partial plaintext is ever returned.
	ErrDecryptionFailure = errors.New("decryption failed")

	// ErrStorageUnavailable means the record store or audit log could not
	// be reached or could not durably record the attempt. Access without an
	// audit trail is worse than refusing service, so this propagates.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ValidationError names the write constraint that was violated. No partial
// write is committed when one of these is returned.
type ValidationError struct {
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Constraint)
}

// NewValidationError builds a ValidationError for the named constraint.
func NewValidationError(constraint string) *ValidationError {
	return &ValidationError{Constraint: constraint}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
