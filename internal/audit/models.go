package audit

import "time"

// Kind classifies an audit event.
type Kind string

const (
	// KindDecisionBlocked records an authoritative block decision.
	KindDecisionBlocked Kind = "decision_blocked"
	// KindPolicyUpdated records a policy configuration change.
	KindPolicyUpdated Kind = "policy_updated"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID          string    `json:"id"`
	Kind        Kind      `json:"kind"`
	StoreID     string    `json:"store_id"`
	RequestID   string    `json:"request_id,omitempty"`
	DeviceClass string    `json:"device_class,omitempty"`
	Timestamp   time.Time `json:"timestamp"`

	// Decision fields, set for KindDecisionBlocked.
	TotalMinor   int64    `json:"total_minor,omitempty"`
	ExcessMinor  int64    `json:"excess_minor,omitempty"`
	MatchedCodes []string `json:"matched_codes,omitempty"`
	Message      string   `json:"message,omitempty"`
}
