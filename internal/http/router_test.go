package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discountgate/internal/advisory"
	advisoryhandler "discountgate/internal/advisory/handler"
	advisoryservice "discountgate/internal/advisory/service"
	"discountgate/internal/bridge"
	policyhandler "discountgate/internal/policy/handler"
	policyservice "discountgate/internal/policy/service"
	"discountgate/internal/policy/store"
	"discountgate/internal/secrets"
	"discountgate/internal/signal"
	signalhandler "discountgate/internal/signal/handler"
	signalservice "discountgate/internal/signal/service"
	"discountgate/internal/token"
	"discountgate/pkg/testutil"
)

const testShop = "shop.example.com"

type routerFixture struct {
	router      http.Handler
	tokens      *token.Service
	adminSecret string
	policies    *store.InMemory
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()

	logger := slog.Default()
	tokens := token.NewService("test-key", "discountgate", "storefront")
	policies := store.NewInMemory()

	b := bridge.New(
		bridge.Keys{Prefix: "newsletter_subscription_"},
		bridge.NewInMemoryKV(),
		bridge.NewInMemoryKV(),
	)
	strategyCfg := signal.DefaultStrategyConfig()

	polSvc, err := policyservice.New(policies)
	require.NoError(t, err)
	sigSvc := signalservice.New(
		signal.NewTotalDetector(strategyCfg, logger),
		signal.NewSubscriptionDetector(b, logger),
		b,
		policies,
	)
	advSvc := advisoryservice.New(sigSvc, policies, advisory.NewPlanner(strategyCfg))

	adminSecret := "super-secret"
	hash, err := secrets.Hash(adminSecret)
	require.NoError(t, err)

	router := NewRouter(Deps{
		Logger:          logger,
		Tokens:          tokens,
		AdminSecretHash: hash,
		Policy:          policyhandler.New(polSvc, logger),
		Signals:         signalhandler.New(sigSvc, logger),
		Advisory:        advisoryhandler.New(advSvc, logger),
	})

	return &routerFixture{
		router:      router,
		tokens:      tokens,
		adminSecret: adminSecret,
		policies:    policies,
	}
}

func (f *routerFixture) sessionToken(t *testing.T) string {
	t.Helper()
	raw, err := f.tokens.GenerateSessionToken(testShop, time.Hour)
	require.NoError(t, err)
	return raw
}

func TestRouter_EvaluateEndToEnd(t *testing.T) {
	f := newRouterFixture(t)
	require.NoError(t, f.policies.Put(context.Background(), &store.Record{
		StoreID:           testShop,
		MaxEligibleAmount: 100000,
		RestrictedCodes:   []string{"WELCOME50"},
	}))

	req := testutil.NewJSONRequest(t, http.MethodPost, "/policy/evaluate", map[string]any{
		"cart": map[string]any{
			"total_amount":           "1200.00",
			"currency":               "EUR",
			"applied_discount_codes": []string{"WELCOME50"},
		},
		"customer": map[string]any{
			"email": "sam@example.com",
			"tags":  []map[string]any{{"tag": "newsletter subscribers", "has_tag": true}},
		},
	})
	req.Header.Set("Authorization", "Bearer "+f.sessionToken(t))
	rr := testutil.DoRequest(f.router, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Operations []struct {
			Message string `json:"message"`
			Target  string `json:"target"`
		} `json:"operations"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Operations, 1)
	assert.Equal(t, "cart", resp.Operations[0].Target)
	assert.Contains(t, resp.Operations[0].Message, "WELCOME50")
	assert.Contains(t, resp.Operations[0].Message, "200.00 EUR")
}

func TestRouter_StorefrontRequiresToken(t *testing.T) {
	f := newRouterFixture(t)

	for _, path := range []string{"/policy/evaluate", "/signals/detect", "/advisory/plan"} {
		req := testutil.NewJSONRequest(t, http.MethodPost, path, map[string]any{})
		rr := testutil.DoRequest(f.router, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestRouter_AdminRoundTrip(t *testing.T) {
	f := newRouterFixture(t)

	put := testutil.NewJSONRequest(t, http.MethodPut, "/admin/policies/"+testShop, map[string]any{
		"max_eligible_amount": 100000,
		"restricted_codes":    []string{"WELCOME50"},
	})
	put.Header.Set("X-Admin-Secret", f.adminSecret)
	rr := testutil.DoRequest(f.router, put)
	require.Equal(t, http.StatusOK, rr.Code)

	get := testutil.NewRequest(t, http.MethodGet, "/admin/policies/"+testShop)
	get.Header.Set("X-Admin-Secret", f.adminSecret)
	rr = testutil.DoRequest(f.router, get)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		StoreID         string   `json:"store_id"`
		RestrictedCodes []string `json:"restricted_codes"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, testShop, resp.StoreID)
	assert.Equal(t, []string{"WELCOME50"}, resp.RestrictedCodes)
}

func TestRouter_AdminRequiresSecret(t *testing.T) {
	f := newRouterFixture(t)

	req := testutil.NewRequest(t, http.MethodGet, "/admin/policies/"+testShop)
	req.Header.Set("X-Admin-Secret", "wrong")
	rr := testutil.DoRequest(f.router, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

type stubChecker struct{ err error }

func (s stubChecker) Health(context.Context) error { return s.err }

func TestRouter_Healthz(t *testing.T) {
	f := newRouterFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	assert.Equal(t, http.StatusOK, rr.Code)

	logger := slog.Default()
	router := NewRouter(Deps{
		Logger:   logger,
		Tokens:   f.tokens,
		Policy:   policyHandlerForHealth(t),
		Signals:  signalHandlerForHealth(t),
		Advisory: advisoryHandlerForHealth(t),
		Health:   map[string]HealthChecker{"redis": stubChecker{err: errors.New("down")}},
	})

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "down", resp.Checks["redis"])
}

func policyHandlerForHealth(t *testing.T) *policyhandler.Handler {
	t.Helper()
	svc, err := policyservice.New(store.NewInMemory())
	require.NoError(t, err)
	return policyhandler.New(svc, slog.Default())
}

func signalHandlerForHealth(t *testing.T) *signalhandler.Handler {
	t.Helper()
	logger := slog.Default()
	b := bridge.New(bridge.Keys{Prefix: "p_"}, bridge.NewInMemoryKV(), bridge.NewInMemoryKV())
	svc := signalservice.New(
		signal.NewTotalDetector(signal.DefaultStrategyConfig(), logger),
		signal.NewSubscriptionDetector(b, logger),
		b,
		store.NewInMemory(),
	)
	return signalhandler.New(svc, logger)
}

func advisoryHandlerForHealth(t *testing.T) *advisoryhandler.Handler {
	t.Helper()
	logger := slog.Default()
	b := bridge.New(bridge.Keys{Prefix: "p_"}, bridge.NewInMemoryKV(), bridge.NewInMemoryKV())
	sigSvc := signalservice.New(
		signal.NewTotalDetector(signal.DefaultStrategyConfig(), logger),
		signal.NewSubscriptionDetector(b, logger),
		b,
		store.NewInMemory(),
	)
	svc := advisoryservice.New(sigSvc, store.NewInMemory(), advisory.NewPlanner(signal.DefaultStrategyConfig()))
	return advisoryhandler.New(svc, logger)
}
