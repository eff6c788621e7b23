package sessionauth

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discountgate/internal/token"
	"discountgate/pkg/requestcontext"
)

func protected(t *testing.T, validator TokenValidator) (http.Handler, *string) {
	t.Helper()
	var seenShop string
	handler := RequireSessionToken(validator, slog.Default())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenShop = requestcontext.ShopDomain(r.Context())
			w.WriteHeader(http.StatusNoContent)
		}),
	)
	return handler, &seenShop
}

func TestRequireSessionToken_Valid(t *testing.T) {
	svc := token.NewService("key", "discountgate", "storefront")
	raw, err := svc.GenerateSessionToken("shop.example.com", time.Hour)
	require.NoError(t, err)

	handler, seenShop := protected(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/policy/evaluate", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "shop.example.com", *seenShop)
}

func TestRequireSessionToken_MissingHeader(t *testing.T) {
	handler, _ := protected(t, token.NewService("key", "discountgate", "storefront"))

	req := httptest.NewRequest(http.MethodPost, "/policy/evaluate", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireSessionToken_WrongKey(t *testing.T) {
	other := token.NewService("other-key", "discountgate", "storefront")
	raw, err := other.GenerateSessionToken("shop.example.com", time.Hour)
	require.NoError(t, err)

	handler, _ := protected(t, token.NewService("key", "discountgate", "storefront"))

	req := httptest.NewRequest(http.MethodPost, "/policy/evaluate", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
