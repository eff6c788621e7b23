package handler

import (
	"time"

	"discountgate/internal/policy"
	"discountgate/internal/policy/store"
)

// OperationTargetCart marks operations the host applies to its cart surface.
const OperationTargetCart = "cart"

// EvaluateResponse is the HTTP response for POST /policy/evaluate. An empty
// operations list means the cart is eligible as-is.
type EvaluateResponse struct {
	Operations []Operation `json:"operations"`
}

// Operation is one instruction for the host checkout.
type Operation struct {
	Message string `json:"message"`
	Target  string `json:"target"`
}

// FromDecision converts a decision to the host-facing operation list.
func FromDecision(d policy.Decision) *EvaluateResponse {
	resp := &EvaluateResponse{Operations: []Operation{}}
	if !d.Allowed {
		resp.Operations = append(resp.Operations, Operation{
			Message: d.Message,
			Target:  OperationTargetCart,
		})
	}
	return resp
}

// PolicyResponse is the HTTP response for admin policy reads and writes.
type PolicyResponse struct {
	StoreID           string    `json:"store_id"`
	MaxEligibleAmount int64     `json:"max_eligible_amount"`
	RestrictedCodes   []string  `json:"restricted_codes"`
	CustomRule        string    `json:"custom_rule,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// FromRecord converts a store record to an HTTP response.
func FromRecord(rec *store.Record) *PolicyResponse {
	return &PolicyResponse{
		StoreID:           rec.StoreID,
		MaxEligibleAmount: rec.MaxEligibleAmount,
		RestrictedCodes:   rec.RestrictedCodes,
		CustomRule:        rec.CustomRule,
		UpdatedAt:         rec.UpdatedAt,
	}
}
