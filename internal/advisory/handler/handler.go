package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"discountgate/internal/advisory"
	"discountgate/internal/signal"
	dErrors "discountgate/pkg/domain-errors"
	"discountgate/pkg/platform/httputil"
	"discountgate/pkg/requestcontext"
)

// Service defines the interface for advisory planning.
type Service interface {
	Plan(ctx context.Context, snapshot signal.PageSnapshot) advisory.Plan
}

// Handler wires the advisory endpoint to the planning service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an advisory handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts advisory endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/advisory/plan", h.HandlePlan)
}

// HandlePlan handles POST /advisory/plan requests. The embed script posts a
// fresh page snapshot and applies the returned plan wholesale, replacing
// whatever the previous plan rendered.
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	storeID := requestcontext.ShopDomain(ctx)
	if storeID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "store authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[PlanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	plan := h.service.Plan(ctx, req.Snapshot(storeID))

	h.logger.InfoContext(ctx, "advisory plan computed",
		"request_id", requestID,
		"store_id", storeID,
		"device_class", requestcontext.DeviceClass(ctx),
		"state", string(plan.State),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, plan)
}
