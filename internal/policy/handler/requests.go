package handler

import (
	"strings"

	"discountgate/internal/policy"
	"discountgate/internal/policy/store"
	dErrors "discountgate/pkg/domain-errors"
	pstrings "discountgate/pkg/platform/strings"
)

const (
	maxDiscountCodes  = 50
	maxCodeLength     = 64
	maxAmountLength   = 32
	maxTagCount       = 100
	maxCustomRuleSize = 2048
)

// EvaluateRequest is the HTTP request body for POST /policy/evaluate. Cart
// and customer are both optional: evaluation of an absent input is an allow,
// never an error.
type EvaluateRequest struct {
	Cart     *CartPayload     `json:"cart"`
	Customer *CustomerPayload `json:"customer"`
}

// CartPayload mirrors the host's view of the cart.
type CartPayload struct {
	TotalAmount          string   `json:"total_amount"`
	Currency             string   `json:"currency"`
	AppliedDiscountCodes []string `json:"applied_discount_codes"`
}

// CustomerPayload mirrors the host's view of the buyer.
type CustomerPayload struct {
	Email string            `json:"email"`
	Tags  []CustomerTagFlag `json:"tags"`
}

// CustomerTagFlag is one tag with its presence flag.
type CustomerTagFlag struct {
	Tag    string `json:"tag"`
	HasTag bool   `json:"has_tag"`
}

// Validate validates request sizes. Semantic problems (unparsable totals,
// unknown codes) are the evaluator's concern and never rejected here.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if r.Cart != nil {
		if len(r.Cart.TotalAmount) > maxAmountLength {
			return dErrors.New(dErrors.CodeValidation, "cart.total_amount is too long")
		}
		if len(r.Cart.AppliedDiscountCodes) > maxDiscountCodes {
			return dErrors.New(dErrors.CodeValidation, "cart.applied_discount_codes exceeds the limit")
		}
		for _, code := range r.Cart.AppliedDiscountCodes {
			if len(code) > maxCodeLength {
				return dErrors.New(dErrors.CodeValidation, "discount code is too long")
			}
		}
	}

	if r.Customer != nil && len(r.Customer.Tags) > maxTagCount {
		return dErrors.New(dErrors.CodeValidation, "customer.tags exceeds the limit")
	}

	return nil
}

// CartSnapshot converts the payload to the domain type.
func (r *EvaluateRequest) CartSnapshot() *policy.CartSnapshot {
	if r.Cart == nil {
		return nil
	}
	return &policy.CartSnapshot{
		TotalAmount:          r.Cart.TotalAmount,
		Currency:             r.Cart.Currency,
		AppliedDiscountCodes: r.Cart.AppliedDiscountCodes,
	}
}

// CustomerRecord converts the payload to the domain type.
func (r *EvaluateRequest) CustomerRecord() *policy.CustomerRecord {
	if r.Customer == nil {
		return nil
	}
	tags := make([]policy.TagFlag, 0, len(r.Customer.Tags))
	for _, tag := range r.Customer.Tags {
		tags = append(tags, policy.TagFlag{Tag: tag.Tag, HasTag: tag.HasTag})
	}
	return &policy.CustomerRecord{
		Email: r.Customer.Email,
		Tags:  tags,
	}
}

// PutPolicyRequest is the HTTP request body for PUT /admin/policies/{storeID}.
type PutPolicyRequest struct {
	MaxEligibleAmount int64    `json:"max_eligible_amount"`
	RestrictedCodes   []string `json:"restricted_codes"`
	CustomRule        string   `json:"custom_rule,omitempty"`
}

// Validate validates the policy payload.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *PutPolicyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if r.MaxEligibleAmount < 0 {
		return dErrors.New(dErrors.CodeValidation, "max_eligible_amount cannot be negative")
	}
	if len(r.RestrictedCodes) > maxDiscountCodes {
		return dErrors.New(dErrors.CodeValidation, "restricted_codes exceeds the limit")
	}
	for _, code := range r.RestrictedCodes {
		if strings.TrimSpace(code) == "" {
			return dErrors.New(dErrors.CodeValidation, "restricted_codes entries cannot be blank")
		}
		if len(strings.TrimSpace(code)) > maxCodeLength {
			return dErrors.New(dErrors.CodeValidation, "restricted code is too long")
		}
	}
	r.RestrictedCodes = pstrings.DedupeAndTrim(r.RestrictedCodes)
	if len(r.CustomRule) > maxCustomRuleSize {
		return dErrors.New(dErrors.CodeValidation, "custom_rule is too long")
	}
	return nil
}

// Record converts the payload to a store record for the given store.
func (r *PutPolicyRequest) Record(storeID string) *store.Record {
	return &store.Record{
		StoreID:           storeID,
		MaxEligibleAmount: r.MaxEligibleAmount,
		RestrictedCodes:   r.RestrictedCodes,
		CustomRule:        r.CustomRule,
	}
}
