package cryptox

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades hashing time for brute-force resistance. The default
// cost is fine for a records service whose login path is also rate limited.
const bcryptCost = bcrypt.DefaultCost

// ErrPasswordMismatch is returned when a password does not verify against
// its stored hash. Callers should collapse this into their own generic
// authentication failure before it reaches a user.
var ErrPasswordMismatch = errors.New("cryptox: password does not match")

// HashPassword returns a salted bcrypt hash of the password. The salt is
// generated per call and embedded in the encoded hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash in
// constant shape: any mismatch, malformed hash included, is reported as
// ErrPasswordMismatch with no further detail.
func VerifyPassword(password, encodedHash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// DummyVerify burns a bcrypt comparison against a fixed hash. Login paths
// call this when the username is unknown so that unknown-user and
// wrong-password attempts cost the same.
func DummyVerify(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

// A valid bcrypt hash of an unguessable throwaway value.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")
