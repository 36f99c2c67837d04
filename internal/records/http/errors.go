package http

import (
	"errors"
	"net/http"

	"github.com/oakfieldhealth/wardgate/internal/records/domain"
	"github.com/oakfieldhealth/wardgate/pkg/wardsdk"
)

// writeGateError maps a gate error onto the wire. Validation failures carry
// the violated constraint; everything else stays deliberately terse.
func writeGateError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		wardsdk.ErrValidation.WithDescription(verr.Constraint).WriteError(w)
	case errors.Is(err, domain.ErrAuthFailure):
		wardsdk.ErrAuthFailure.WriteError(w)
	case errors.Is(err, domain.ErrDenied):
		wardsdk.ErrAccessDenied.WriteError(w)
	case errors.Is(err, domain.ErrDecryptionFailure):
		wardsdk.ErrDecryption.WriteError(w)
	case errors.Is(err, domain.ErrStorageUnavailable):
		wardsdk.ErrUnavailable.WriteError(w)
	default:
		wardsdk.ErrServerError.WriteError(w)
	}
}
