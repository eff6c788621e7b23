// Package requestid assigns each request a unique ID for log correlation.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"discountgate/pkg/requestcontext"
)

// Header is the response header carrying the assigned request ID.
const Header = "X-Request-ID"

// Middleware sets a request ID in the context and echoes it in the response.
// An inbound X-Request-ID is honored so IDs survive proxy hops.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), id)
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
