package policy

// TagFlag is one customer tag with its presence flag, as reported by the
// host's cart/checkout view of the buyer.
type TagFlag struct {
	Tag    string `json:"tag"`
	HasTag bool   `json:"has_tag"`
}

// CartSnapshot is the host-held view of the cart at decision time. Created
// fresh per evaluation, never mutated, never persisted.
type CartSnapshot struct {
	// TotalAmount is a decimal string in the shop currency ("1200.00").
	TotalAmount string `json:"total_amount"`
	// Currency is the ISO code used for display in decision messages.
	Currency string `json:"currency"`
	// AppliedDiscountCodes are case-insensitive tokens.
	AppliedDiscountCodes []string `json:"applied_discount_codes"`
}

// CustomerRecord is the checkout's read-only view of the buyer.
type CustomerRecord struct {
	Email string    `json:"email"`
	Tags  []TagFlag `json:"tags"`
}

// DiscountPolicy is the static per-store configuration loaded once per
// evaluation. Immutable during a validation pass.
type DiscountPolicy struct {
	StoreID string
	// MaxEligibleAmount is the eligibility threshold in minor units. A total
	// equal to the threshold is still eligible.
	MaxEligibleAmount int64
	// RestrictedCodes are matched as upper-cased substrings of applied codes.
	RestrictedCodes []string
	// CustomRule optionally grants eligibility beyond the threshold. Compiled
	// once at policy load; a nil rule changes nothing.
	CustomRule *CustomRule
}

// Decision is the pure output of Evaluate. Recomputed on every cart-compute
// event; never persisted.
type Decision struct {
	Allowed bool
	// TotalMinor is the parsed cart total in minor units, kept for metrics
	// and audit.
	TotalMinor int64
	// ExcessAmount is total minus threshold in minor units; set only when
	// blocked.
	ExcessAmount int64
	// MatchedCodes lists the applied codes that hit the restricted list, in
	// first-match order, upper-cased.
	MatchedCodes []string
	// Message explains the block to the buyer. Always non-empty when
	// Allowed is false.
	Message string
}

// EvaluateRequest groups the inputs the service resolves before calling the
// pure Evaluate function.
type EvaluateRequest struct {
	StoreID  string
	Cart     *CartSnapshot
	Customer *CustomerRecord
}
