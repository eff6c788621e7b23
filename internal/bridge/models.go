package bridge

import (
	"strings"
	"time"
)

// SubscriptionRecord is the durable record written when a visitor submits the
// newsletter popup. The popup flow owns writes; this service only reads it.
type SubscriptionRecord struct {
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribedAt"`
	StoreID      string    `json:"storeId"`
}

// Valid reports whether the record carries the minimum evidence of a real
// subscription: an email that at least looks like one, and a timestamp.
func (r SubscriptionRecord) Valid() bool {
	return strings.Contains(r.Email, "@") && !r.SubscribedAt.IsZero()
}

// ValidationContext is the denormalized blob shared between pages that cannot
// see each other's detection events (cart page vs checkout page). Field names
// are part of the storage contract.
type ValidationContext struct {
	Enabled        bool      `json:"enabled"`
	ValidationType string    `json:"validationType"`
	MinimumAmount  int64     `json:"minimumAmount"`
	MaximumAmount  int64     `json:"maximumAmount"`
	DiscountCode   string    `json:"discountCode"`
	SubscribedAt   time.Time `json:"subscribedAt"`
}

// ValidationTypeOrderAmount is the only validation type currently emitted:
// eligibility conditioned on the order total.
const ValidationTypeOrderAmount = "order_amount"
