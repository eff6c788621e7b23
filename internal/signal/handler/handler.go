package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"discountgate/internal/signal"
	"discountgate/internal/signal/service"
	dErrors "discountgate/pkg/domain-errors"
	"discountgate/pkg/platform/httputil"
	"discountgate/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mock_service.go -package=mocks

// Service defines the interface for signal detection.
type Service interface {
	Detect(ctx context.Context, snapshot signal.PageSnapshot) service.Detection
}

// Handler wires the detection endpoint to the signal service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a signal handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts signal endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/signals/detect", h.HandleDetect)
}

// HandleDetect handles POST /signals/detect requests. The response is always
// 200 with a detection result; detection has no failure mode the caller can
// act on.
func (h *Handler) HandleDetect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	storeID := requestcontext.ShopDomain(ctx)
	if storeID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "store authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[DetectRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	detection := h.service.Detect(ctx, req.Snapshot(storeID))

	h.logger.InfoContext(ctx, "signals detected",
		"request_id", requestID,
		"store_id", storeID,
		"total_strategy", detection.TotalStrategy,
		"subscriber", detection.Subscriber,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromDetection(detection))
}
