package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"discountgate/internal/policy"
	"discountgate/internal/policy/handler/mocks"
	"discountgate/internal/policy/store"
	dErrors "discountgate/pkg/domain-errors"
	"discountgate/pkg/testutil"
)

func newTestHandler(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockService(ctrl)

	h := New(mockService, slog.Default())
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterAdmin(r)
	return r, mockService
}

func TestHandleEvaluate_Allowed(t *testing.T) {
	router, mockService := newTestHandler(t)

	mockService.EXPECT().
		Evaluate(gomock.Any(), gomock.Any()).
		Return(policy.Decision{Allowed: true}, nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/policy/evaluate", EvaluateRequest{
		Cart: &CartPayload{TotalAmount: "50.00"},
	})
	rr := testutil.DoRequest(router, testutil.WithShop(req, "shop.example.com"))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Empty(t, resp.Operations)
}

func TestHandleEvaluate_Blocked(t *testing.T) {
	router, mockService := newTestHandler(t)

	mockService.EXPECT().
		Evaluate(gomock.Any(), gomock.Eq(policy.EvaluateRequest{
			StoreID: "shop.example.com",
			Cart: &policy.CartSnapshot{
				TotalAmount:          "1200.00",
				AppliedDiscountCodes: []string{"WELCOME50"},
			},
		})).
		Return(policy.Decision{
			Allowed: false,
			Message: "remove 200.00 to use this code",
		}, nil)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/policy/evaluate", EvaluateRequest{
		Cart: &CartPayload{
			TotalAmount:          "1200.00",
			AppliedDiscountCodes: []string{"WELCOME50"},
		},
	})
	rr := testutil.DoRequest(router, testutil.WithShop(req, "shop.example.com"))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp EvaluateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Operations, 1)
	assert.Equal(t, "remove 200.00 to use this code", resp.Operations[0].Message)
	assert.Equal(t, OperationTargetCart, resp.Operations[0].Target)
}

func TestHandleEvaluate_MissingShopIsUnauthorized(t *testing.T) {
	router, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/policy/evaluate", EvaluateRequest{})
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandleEvaluate_TooManyCodesRejected(t *testing.T) {
	router, _ := newTestHandler(t)

	codes := make([]string, maxDiscountCodes+1)
	for i := range codes {
		codes[i] = "CODE"
	}
	req := testutil.NewJSONRequest(t, http.MethodPost, "/policy/evaluate", EvaluateRequest{
		Cart: &CartPayload{AppliedDiscountCodes: codes},
	})
	rr := testutil.DoRequest(router, testutil.WithShop(req, "shop.example.com"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleEvaluate_ServiceError(t *testing.T) {
	router, mockService := newTestHandler(t)

	mockService.EXPECT().
		Evaluate(gomock.Any(), gomock.Any()).
		Return(policy.Decision{}, dErrors.New(dErrors.CodeInternal, "policy store unavailable"))

	req := testutil.NewJSONRequest(t, http.MethodPost, "/policy/evaluate", EvaluateRequest{
		Cart: &CartPayload{TotalAmount: "50.00"},
	})
	rr := testutil.DoRequest(router, testutil.WithShop(req, "shop.example.com"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestHandleGetPolicy(t *testing.T) {
	router, mockService := newTestHandler(t)

	mockService.EXPECT().
		Policy(gomock.Any(), "shop.example.com").
		Return(&store.Record{
			StoreID:           "shop.example.com",
			MaxEligibleAmount: 100000,
			RestrictedCodes:   []string{"WELCOME50"},
		}, nil)

	req := testutil.NewRequest(t, http.MethodGet, "/admin/policies/shop.example.com")
	rr := testutil.DoRequest(router, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp PolicyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "shop.example.com", resp.StoreID)
	assert.Equal(t, int64(100000), resp.MaxEligibleAmount)
	assert.Equal(t, []string{"WELCOME50"}, resp.RestrictedCodes)
}

func TestHandleGetPolicy_NotFound(t *testing.T) {
	router, mockService := newTestHandler(t)

	mockService.EXPECT().
		Policy(gomock.Any(), "missing.example.com").
		Return(nil, dErrors.New(dErrors.CodeNotFound, "no policy configured for store"))

	req := testutil.NewRequest(t, http.MethodGet, "/admin/policies/missing.example.com")
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandlePutPolicy(t *testing.T) {
	router, mockService := newTestHandler(t)

	mockService.EXPECT().
		UpdatePolicy(gomock.Any(), gomock.Eq(&store.Record{
			StoreID:           "shop.example.com",
			MaxEligibleAmount: 100000,
			RestrictedCodes:   []string{"WELCOME50"},
		})).
		Return(nil)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/admin/policies/shop.example.com", PutPolicyRequest{
		MaxEligibleAmount: 100000,
		RestrictedCodes:   []string{"WELCOME50"},
	})
	rr := testutil.DoRequest(router, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp PolicyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "shop.example.com", resp.StoreID)
}

func TestHandlePutPolicy_NegativeThresholdRejected(t *testing.T) {
	router, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/admin/policies/shop.example.com", PutPolicyRequest{
		MaxEligibleAmount: -5,
	})
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandlePutPolicy_BlankCodeRejected(t *testing.T) {
	router, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/admin/policies/shop.example.com", PutPolicyRequest{
		MaxEligibleAmount: 100000,
		RestrictedCodes:   []string{"WELCOME50", "  "},
	})
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
