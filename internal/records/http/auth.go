package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/oakfieldhealth/wardgate/internal/records/service"
	"github.com/oakfieldhealth/wardgate/pkg/httpx"
	"github.com/oakfieldhealth/wardgate/pkg/slogx"
	"github.com/oakfieldhealth/wardgate/pkg/wardsdk"
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	Gate   *service.Gate
	Logger *slog.Logger
}

// HandleLogin handles POST /v1/login
//
//	@Summary		Authenticate and open a session
//	@Description	Verifies username and password (and TOTP code for enrolled accounts)
//	@Description	and returns a bearer session handle. Sessions expire after 30 minutes
//	@Description	of inactivity.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		wardsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	wardsdk.LoginResponse	"Session handle and role"
//	@Failure		400		{object}	wardsdk.ErrorResponse	"Malformed request"
//	@Failure		401		{object}	wardsdk.ErrorResponse	"Invalid credentials"
//	@Failure		503		{object}	wardsdk.ErrorResponse	"Audit log unavailable"
//	@Router			/v1/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req wardsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		wardsdk.ErrInvalidRequest.WithDescription("invalid JSON body").WriteError(w)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		wardsdk.ErrInvalidRequest.WithDescription("username and password are required").WriteError(w)
		return
	}

	token, sess, err := h.Gate.Login(ctx, req.Username, req.Password, req.MFACode)
	if err != nil {
		log.Warn("login rejected", "username", req.Username)
		writeGateError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, wardsdk.LoginResponse{
		Token:    token,
		Role:     sess.Role,
		Username: sess.Username,
		IssuedAt: sess.IssuedAt,
	})
}

// HandleLogout handles POST /v1/logout
//
//	@Summary		Close the current session
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		204	"Session revoked"
//	@Failure		401	{object}	wardsdk.ErrorResponse	"Invalid or expired session"
//	@Router			/v1/logout [post].
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.Gate.Logout(ctx, httpx.SessionTokenFromCtx(ctx)); err != nil {
		writeGateError(w, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
