package http

import (
	"net/http"
	"time"

	"github.com/oakfieldhealth/wardgate/internal/records/store"
	"github.com/oakfieldhealth/wardgate/pkg/httpx"
	"github.com/oakfieldhealth/wardgate/pkg/wardsdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	Returns 200 only when the record store answers a ping. A service that
//	@Description	cannot reach its store cannot audit, so it must not take traffic.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	wardsdk.HealthResponse	"status, uptime, version"
//	@Failure		503	{object}	wardsdk.HealthResponse	"store unreachable"
//	@Router			/readyz [get].
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := wardsdk.HealthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		}
		if err := st.Ping(r.Context()); err != nil {
			resp.Status = "unavailable"
			httpx.WriteJSON(w, http.StatusServiceUnavailable, resp)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}
