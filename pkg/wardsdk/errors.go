package wardsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes shared by the server and this SDK.
const (
	ErrorCodeInvalidRequest = "invalid_request"
	ErrorCodeAuthFailure    = "authentication_failed"
	ErrorCodeAccessDenied   = "access_denied"
	ErrorCodeValidation     = "validation_failed"
	ErrorCodeDecryption     = "decryption_failed"
	ErrorCodeServerError    = "server_error"
	ErrorCodeUnavailable    = "storage_unavailable"
)

// APIError is the error type both written by the server's handlers and
// decoded by the SDK client, so wire errors survive the round trip.
type APIError struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this error to an HTTP response.
func (e *APIError) WriteError(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

// WithDescription returns a copy carrying a more specific description.
func (e *APIError) WithDescription(desc string) *APIError {
	return &APIError{StatusCode: e.StatusCode, Code: e.Code, Description: desc}
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrAuthFailure = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeAuthFailure,
		Description: "invalid credentials or expired session",
	}

	ErrAccessDenied = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeAccessDenied,
		Description: "the access policy forbids this action for your role",
	}

	ErrValidation = &APIError{
		StatusCode:  http.StatusUnprocessableEntity,
		Code:        ErrorCodeValidation,
		Description: "the submitted record violates a write constraint",
	}

	ErrDecryption = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeDecryption,
		Description: "the stored pseudonym could not be decrypted",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "an unexpected error occurred",
	}

	ErrUnavailable = &APIError{
		StatusCode:  http.StatusServiceUnavailable,
		Code:        ErrorCodeUnavailable,
		Description: "the record store or audit log is unavailable",
	}
)
