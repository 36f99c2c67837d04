// Package anonymize is the masking pipeline between the record store and
// anything a non-privileged role sees. It offers two strategies: irreversible
// display masking for on-screen redaction, and reversible encryption-based
// pseudonymisation for fields that privileged roles must later recover.
package anonymize

import (
	"errors"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/pkg/cryptox"
	"github.com/oakfieldhealth/wardgate/pkg/maskx"
)

// Anonymizer holds the process-wide field encryption keeper. The keeper is
// injected once at startup and never re-derived per call.
type Anonymizer struct {
	keeper *cryptox.Keeper
}

func New(keeper *cryptox.Keeper) *Anonymizer {
	return &Anonymizer{keeper: keeper}
}

// MaskName irreversibly masks a patient name for display.
func (a *Anonymizer) MaskName(name string) string {
	return maskx.Name(name)
}

// MaskContact irreversibly masks a contact string, preserving its format
// and last four digits.
func (a *Anonymizer) MaskContact(contact string) string {
	return maskx.Contact(contact)
}

// MaskDiagnosis reduces a diagnosis to its category.
func (a *Anonymizer) MaskDiagnosis(diagnosis string) string {
	return maskx.DiagnosisCategory(diagnosis)
}

// Pseudonymize seals a value under the process key. Ciphertext is fresh per
// call (random nonce) but always recovers to the same plaintext.
func (a *Anonymizer) Pseudonymize(value string) (string, error) {
	return a.keeper.Seal(value)
}

// Recover reverses Pseudonymize. Only callers already holding Full access
// reach this; tampered or foreign-keyed tokens come back as
// domain.ErrDecryptionFailure, never as partial plaintext.
func (a *Anonymizer) Recover(token string) (string, error) {
	value, err := a.keeper.Open(token)
	if err != nil {
		if errors.Is(err, cryptox.ErrDecrypt) {
			return "", domain.ErrDecryptionFailure
		}
		return "", err
	}
	return value, nil
}
