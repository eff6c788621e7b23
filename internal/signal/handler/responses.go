package handler

import (
	"discountgate/internal/signal/service"
)

// DetectResponse is the HTTP response for POST /signals/detect.
type DetectResponse struct {
	TotalMinor         int64  `json:"total_minor"`
	TotalStrategy      string `json:"total_strategy,omitempty"`
	Subscriber         bool   `json:"subscriber"`
	SubscriptionSource string `json:"subscription_source,omitempty"`
}

// FromDetection converts a detection result to an HTTP response.
func FromDetection(d service.Detection) *DetectResponse {
	return &DetectResponse{
		TotalMinor:         d.TotalMinor,
		TotalStrategy:      d.TotalStrategy,
		Subscriber:         d.Subscriber,
		SubscriptionSource: d.SubscriptionSource,
	}
}
