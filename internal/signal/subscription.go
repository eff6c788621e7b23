package signal

import (
	"context"
	"log/slog"

	"discountgate/internal/bridge"
)

// Subscription sources, reported for diagnostics.
const (
	SourceDurableRecord      = "durable_record"
	SourceSessionFlag        = "session_flag"
	SourceCartValidationFlag = "cart_validation_flag"
)

// SubscriptionDetector answers whether the visitor is a known newsletter
// subscriber by consulting the storage bridge. Sources combine with OR; a
// failing read counts as false for that source only, so one degraded backend
// never masks evidence from another.
type SubscriptionDetector struct {
	bridge *bridge.Bridge
	logger *slog.Logger
}

// NewSubscriptionDetector constructs a detector over the given bridge.
func NewSubscriptionDetector(b *bridge.Bridge, logger *slog.Logger) *SubscriptionDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriptionDetector{bridge: b, logger: logger}
}

// Detect reports whether any source shows a subscription, and which source
// decided first. Source order is durable record, session flag,
// cart-validation flag.
func (d *SubscriptionDetector) Detect(ctx context.Context, storeID string) (bool, string) {
	if _, ok := d.bridge.Subscription(ctx, storeID); ok {
		return true, SourceDurableRecord
	}
	if d.bridge.SessionFlag(ctx, storeID) {
		return true, SourceSessionFlag
	}
	if d.bridge.CartValidationSessionFlag(ctx, storeID) {
		return true, SourceCartValidationFlag
	}
	return false, ""
}
