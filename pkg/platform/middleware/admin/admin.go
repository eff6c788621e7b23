// Package admin guards the policy management endpoints with an API secret.
package admin

import (
	"log/slog"
	"net/http"

	"discountgate/internal/secrets"
	dErrors "discountgate/pkg/domain-errors"
	"discountgate/pkg/platform/httputil"
	"discountgate/pkg/requestcontext"
)

// Header carries the admin API secret.
const Header = "X-Admin-Secret"

// RequireAdminSecret rejects requests whose X-Admin-Secret header does not
// verify against the configured bcrypt hash.
func RequireAdminSecret(secretHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if err := secrets.Verify(r.Header.Get(Header), secretHash); err != nil {
				logger.WarnContext(ctx, "admin secret mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid admin credentials"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
