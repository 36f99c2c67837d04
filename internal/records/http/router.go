package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/oakfieldhealth/wardgate/internal/records/service"
	"github.com/oakfieldhealth/wardgate/internal/records/store"
	"github.com/oakfieldhealth/wardgate/pkg/httpx"
	"github.com/oakfieldhealth/wardgate/pkg/slogx"

	_ "github.com/oakfieldhealth/wardgate/api/records" // Swagger docs
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	Gate  *service.Gate
}

func NewRouter(buildVersion string, st store.Store, gate *service.Gate, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		store:        st,
		Gate:         gate,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPatients()
	r.registerAudit()
	r.registerExports()
	r.registerMFA()
	r.registerRetention()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Wardgate Patient Records API
//	@version		0.1.0
//	@description	Access-controlled hospital records service. Every data access is
//	@description	authenticated, checked against a fixed role/class policy table, shaped
//	@description	to the granted view level, and recorded on an append-only audit trail.
//
//	@contact.name				Oakfield Health Platform Team
//	@contact.url				https://github.com/oakfieldhealth/wardgate
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session handle issued by /v1/login. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps h with session validation and a per-user rate limit.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.SessionMiddleware(r.Gate),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{Gate: r.Gate, Logger: r.logger}

	// POST /login - strict rate limit by IP (authentication attempts)
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/logout",
		r.secured(http.HandlerFunc(h.HandleLogout), httpx.ModerateLimit))
}

func (r *Router) registerPatients() {
	h := &PatientsHandler{Gate: r.Gate, Logger: r.logger}

	r.Mux.Handle("GET /v1/patients",
		r.secured(http.HandlerFunc(h.HandleList), httpx.LenientLimit))
	r.Mux.Handle("POST /v1/patients",
		r.secured(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/patients/{id}",
		r.secured(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/patients/{id}/identity",
		r.secured(http.HandlerFunc(h.HandleRecoverIdentity), httpx.ModerateLimit))
}

func (r *Router) registerAudit() {
	h := &AuditHandler{Gate: r.Gate, Logger: r.logger}

	r.Mux.Handle("GET /v1/audit",
		r.secured(http.HandlerFunc(h.HandleList), httpx.ModerateLimit))
}

func (r *Router) registerExports() {
	h := &ExportHandler{Gate: r.Gate, Logger: r.logger}

	r.Mux.Handle("GET /v1/export/patients.csv",
		r.secured(http.HandlerFunc(h.HandlePatients), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/export/audit.csv",
		r.secured(http.HandlerFunc(h.HandleAudit), httpx.ModerateLimit))
}

func (r *Router) registerMFA() {
	h := &MFAHandler{Gate: r.Gate, Logger: r.logger}

	r.Mux.Handle("POST /v1/mfa/totp/enroll",
		r.secured(http.HandlerFunc(h.HandleEnroll), httpx.ModerateLimit))

	// Strict limit: TOTP codes are brute-forceable at 6 digits.
	r.Mux.Handle("POST /v1/mfa/totp/verify",
		r.secured(http.HandlerFunc(h.HandleVerify), httpx.StrictLimit))
}

func (r *Router) registerRetention() {
	h := &RetentionHandler{Gate: r.Gate, Logger: r.logger}

	r.Mux.Handle("POST /v1/retention/sweep",
		r.secured(http.HandlerFunc(h.HandleSweep), httpx.StrictLimit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
