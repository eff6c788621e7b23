package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"discountgate/internal/policy"
	"discountgate/internal/policy/store"
	dErrors "discountgate/pkg/domain-errors"
	"discountgate/pkg/platform/httputil"
	"discountgate/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/mock_service.go -package=mocks

// Service defines the interface for policy operations.
type Service interface {
	Evaluate(ctx context.Context, req policy.EvaluateRequest) (policy.Decision, error)
	Policy(ctx context.Context, storeID string) (*store.Record, error)
	UpdatePolicy(ctx context.Context, rec *store.Record) error
}

// Handler wires the evaluation and admin endpoints to the policy service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a policy handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts buyer-facing evaluation endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/policy/evaluate", h.HandleEvaluate)
}

// RegisterAdmin mounts policy management endpoints on the router. The caller
// is expected to guard these with admin authentication.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/policies/{storeID}", h.HandleGetPolicy)
	r.Put("/admin/policies/{storeID}", h.HandlePutPolicy)
}

// HandleEvaluate handles POST /policy/evaluate requests. This is the
// authoritative decision path: the response is a list of operations for the
// host to apply, empty when the cart is eligible.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	storeID := requestcontext.ShopDomain(ctx)
	if storeID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "store authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	decision, err := h.service.Evaluate(ctx, policy.EvaluateRequest{
		StoreID:  storeID,
		Cart:     req.CartSnapshot(),
		Customer: req.CustomerRecord(),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "policy evaluation failed",
			"request_id", requestID,
			"store_id", storeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "policy evaluated",
		"request_id", requestID,
		"store_id", storeID,
		"allowed", decision.Allowed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, FromDecision(decision))
}

// HandleGetPolicy handles GET /admin/policies/{storeID} requests.
func (h *Handler) HandleGetPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	storeID := chi.URLParam(r, "storeID")

	rec, err := h.service.Policy(ctx, storeID)
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "policy lookup failed",
				"request_id", requestcontext.RequestID(ctx),
				"store_id", storeID,
				"error", err,
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FromRecord(rec))
}

// HandlePutPolicy handles PUT /admin/policies/{storeID} requests. The store
// ID in the path is authoritative; any store_id in the body is ignored.
func (h *Handler) HandlePutPolicy(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	storeID := chi.URLParam(r, "storeID")

	req, ok := httputil.DecodeAndPrepare[PutPolicyRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	rec := req.Record(storeID)
	if err := h.service.UpdatePolicy(ctx, rec); err != nil {
		h.logger.ErrorContext(ctx, "policy update failed",
			"request_id", requestID,
			"store_id", storeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "policy updated",
		"request_id", requestID,
		"store_id", storeID,
	)

	httputil.WriteJSON(w, http.StatusOK, FromRecord(rec))
}
