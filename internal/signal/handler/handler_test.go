package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"discountgate/internal/signal"
	"discountgate/internal/signal/handler/mocks"
	"discountgate/internal/signal/service"
	"discountgate/pkg/testutil"
)

func newTestHandler(t *testing.T) (chi.Router, *mocks.MockService) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockService := mocks.NewMockService(ctrl)

	h := New(mockService, slog.Default())
	r := chi.NewRouter()
	h.Register(r)
	return r, mockService
}

func TestHandleDetect(t *testing.T) {
	router, mockService := newTestHandler(t)

	mockService.EXPECT().
		Detect(gomock.Any(), gomock.Eq(signal.PageSnapshot{
			StoreID:      "shop.example.com",
			CheckoutJSON: `{"total_price":"1299.99"}`,
		})).
		Return(service.Detection{
			TotalMinor:         129999,
			TotalStrategy:      "structured",
			Subscriber:         true,
			SubscriptionSource: signal.SourceDurableRecord,
		})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/signals/detect", DetectRequest{
		CheckoutJSON: `{"total_price":"1299.99"}`,
	})
	rr := testutil.DoRequest(router, testutil.WithShop(req, "shop.example.com"))

	require.Equal(t, http.StatusOK, rr.Code)

	var resp DetectResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(129999), resp.TotalMinor)
	assert.Equal(t, "structured", resp.TotalStrategy)
	assert.True(t, resp.Subscriber)
	assert.Equal(t, signal.SourceDurableRecord, resp.SubscriptionSource)
}

func TestHandleDetect_MissingShopIsUnauthorized(t *testing.T) {
	router, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/signals/detect", DetectRequest{})
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandleDetect_OversizedCaptureRejected(t *testing.T) {
	router, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/signals/detect", DetectRequest{
		CheckoutJSON: strings.Repeat("x", maxCheckoutJSONBytes+1),
	})
	rr := testutil.DoRequest(router, testutil.WithShop(req, "shop.example.com"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
