// Package sessionauth authenticates storefront requests with the session
// token minted for the shop's embed script.
package sessionauth

import (
	"log/slog"
	"net/http"
	"strings"

	"discountgate/internal/token"
	dErrors "discountgate/pkg/domain-errors"
	"discountgate/pkg/platform/httputil"
	"discountgate/pkg/requestcontext"
)

// TokenValidator validates a session token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.Claims, error)
}

// RequireSessionToken rejects requests without a valid Bearer session token
// and stores the token's shop domain in the context.
func RequireSessionToken(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(raw)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithShopDomain(ctx, claims.ShopDomain)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
