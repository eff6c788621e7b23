// Package httpapi assembles the HTTP surface: storefront endpoints behind
// session-token auth, admin endpoints behind the API secret, and the
// operational endpoints.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	advisoryhandler "discountgate/internal/advisory/handler"
	policyhandler "discountgate/internal/policy/handler"
	signalhandler "discountgate/internal/signal/handler"
	"discountgate/pkg/platform/httputil"
	"discountgate/pkg/platform/middleware/admin"
	"discountgate/pkg/platform/middleware/device"
	"discountgate/pkg/platform/middleware/metadata"
	"discountgate/pkg/platform/middleware/requestid"
	"discountgate/pkg/platform/middleware/requesttime"
	"discountgate/pkg/platform/middleware/sessionauth"
)

// HealthChecker reports the reachability of one backing dependency.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Deps carries everything the router mounts.
type Deps struct {
	Logger *slog.Logger

	Tokens sessionauth.TokenValidator
	// AdminSecretHash guards the admin group; empty leaves it unmounted.
	AdminSecretHash string

	Policy   *policyhandler.Handler
	Signals  *signalhandler.Handler
	Advisory *advisoryhandler.Handler

	// Health maps dependency names to their checkers.
	Health map[string]HealthChecker
}

// NewRouter wires all endpoints with the shared middleware chain.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(device.Classify)

	r.Get("/healthz", healthHandler(deps.Health))
	r.Handle("/metrics", promhttp.Handler())

	// Storefront surface, authenticated by the embed script's session token.
	r.Group(func(r chi.Router) {
		r.Use(sessionauth.RequireSessionToken(deps.Tokens, deps.Logger))
		deps.Policy.Register(r)
		deps.Signals.Register(r)
		deps.Advisory.Register(r)
	})

	if deps.AdminSecretHash != "" {
		r.Group(func(r chi.Router) {
			r.Use(admin.RequireAdminSecret(deps.AdminSecretHash, deps.Logger))
			deps.Policy.RegisterAdmin(r)
		})
	}

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checkers map[string]HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checkers))}
		status := http.StatusOK
		for name, checker := range checkers {
			if err := checker.Health(ctx); err != nil {
				resp.Status = "degraded"
				resp.Checks[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}

		httputil.WriteJSON(w, status, resp)
	}
}
