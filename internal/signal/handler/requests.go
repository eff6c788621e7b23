package handler

import (
	"discountgate/internal/signal"
	dErrors "discountgate/pkg/domain-errors"
)

const (
	maxCheckoutJSONBytes = 64 * 1024
	maxCapturedEntries   = 100
	maxCapturedValue     = 4 * 1024
)

// DetectRequest is the HTTP request body for POST /signals/detect: the embed
// script's page capture.
type DetectRequest struct {
	CheckoutJSON string            `json:"checkout_json,omitempty"`
	SelectorText map[string]string `json:"selector_text,omitempty"`
	QueryParams  map[string]string `json:"query_params,omitempty"`
	MetaTags     map[string]string `json:"meta_tags,omitempty"`
}

// Validate bounds the capture size. Content is untrusted page text; only its
// volume is policed here.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *DetectRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.CheckoutJSON) > maxCheckoutJSONBytes {
		return dErrors.New(dErrors.CodeValidation, "checkout_json is too large")
	}
	for _, captures := range []map[string]string{r.SelectorText, r.QueryParams, r.MetaTags} {
		if len(captures) > maxCapturedEntries {
			return dErrors.New(dErrors.CodeValidation, "snapshot capture exceeds the entry limit")
		}
		for _, value := range captures {
			if len(value) > maxCapturedValue {
				return dErrors.New(dErrors.CodeValidation, "snapshot capture value is too large")
			}
		}
	}
	return nil
}

// Snapshot converts the payload to the domain type, binding it to the
// authenticated store.
func (r *DetectRequest) Snapshot(storeID string) signal.PageSnapshot {
	return signal.PageSnapshot{
		StoreID:      storeID,
		CheckoutJSON: r.CheckoutJSON,
		SelectorText: r.SelectorText,
		QueryParams:  r.QueryParams,
		MetaTags:     r.MetaTags,
	}
}
