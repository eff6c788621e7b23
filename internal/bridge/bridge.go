// Package bridge implements the storage contract that lets independently
// loaded scripts on different pages share subscription and validation state
// without a network round trip. The cart page and the checkout page cannot
// share in-memory state, so everything crossing that boundary goes through
// the key namespace defined in keys.go.
//
// Every read on the advisory path degrades to "no signal" on failure; the
// bridge never surfaces storage errors to the visitor-facing flow.
package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

const sessionFlagValue = "true"

// Bridge composes a durable and an ephemeral KV behind typed accessors.
// Writes go through to both stores for redundancy; reads OR-combine the
// applicable keys.
type Bridge struct {
	keys       Keys
	durable    KV
	ephemeral  KV
	logger     *slog.Logger
	sessionTTL time.Duration
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) { b.logger = logger }
}

// WithSessionTTL overrides the ephemeral flag lifetime.
func WithSessionTTL(ttl time.Duration) Option {
	return func(b *Bridge) { b.sessionTTL = ttl }
}

// New constructs a Bridge. The ephemeral store may equal the durable one in
// single-store deployments; the TTL still bounds flag lifetime.
func New(keys Keys, durable, ephemeral KV, opts ...Option) *Bridge {
	b := &Bridge{
		keys:       keys,
		durable:    durable,
		ephemeral:  ephemeral,
		logger:     slog.Default(),
		sessionTTL: 30 * time.Minute,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscription reads the durable subscription record. Any failure (absent
// key, malformed JSON, unavailable store) reads as "no record".
func (b *Bridge) Subscription(ctx context.Context, storeID string) (SubscriptionRecord, bool) {
	raw, err := b.durable.Get(ctx, b.keys.Subscription(storeID))
	if err != nil {
		return SubscriptionRecord{}, false
	}
	var rec SubscriptionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		b.logger.DebugContext(ctx, "malformed subscription record ignored",
			"store_id", storeID,
			"error", err,
		)
		return SubscriptionRecord{}, false
	}
	if !rec.Valid() {
		return SubscriptionRecord{}, false
	}
	return rec, true
}

// SetSubscription persists the durable subscription record. The newsletter
// popup flow is the writer; it lives outside this service but shares the
// contract, so the bridge exposes the write for it and for tests.
func (b *Bridge) SetSubscription(ctx context.Context, storeID string, rec SubscriptionRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return b.durable.Set(ctx, b.keys.Subscription(storeID), string(raw), 0)
}

// SessionFlag reads the ephemeral per-tab subscription flag.
func (b *Bridge) SessionFlag(ctx context.Context, storeID string) bool {
	return b.readFlag(ctx, b.keys.Session(storeID))
}

// SetSessionFlag marks the current session as subscribed.
func (b *Bridge) SetSessionFlag(ctx context.Context, storeID string) error {
	return b.ephemeral.Set(ctx, b.keys.Session(storeID), sessionFlagValue, b.sessionTTL)
}

// CartValidationSessionFlag reads the secondary ephemeral flag written by the
// cart validation flow.
func (b *Bridge) CartValidationSessionFlag(ctx context.Context, storeID string) bool {
	return b.readFlag(ctx, b.keys.CartValidationSession(storeID))
}

// SetCartValidationSessionFlag marks the current session as having an active
// cart validation context.
func (b *Bridge) SetCartValidationSessionFlag(ctx context.Context, storeID string) error {
	return b.ephemeral.Set(ctx, b.keys.CartValidationSession(storeID), sessionFlagValue, b.sessionTTL)
}

func (b *Bridge) readFlag(ctx context.Context, key string) bool {
	val, err := b.ephemeral.Get(ctx, key)
	if err != nil {
		return false
	}
	return val == sessionFlagValue
}

// WriteValidationContext stores the denormalized context blob, write-through
// to both stores so a later page finds it even if one store is cleared. The
// durable copy carries no TTL; the ephemeral copy expires with the session.
func (b *Bridge) WriteValidationContext(ctx context.Context, storeID string, vc ValidationContext) error {
	raw, err := json.Marshal(vc)
	if err != nil {
		return err
	}
	key := b.keys.ValidationContext(storeID)
	if err := b.durable.Set(ctx, key, string(raw), 0); err != nil {
		return err
	}
	if err := b.ephemeral.Set(ctx, key, string(raw), b.sessionTTL); err != nil {
		// Durable copy exists; the redundancy write failing is diagnostic only.
		b.logger.WarnContext(ctx, "ephemeral validation context write failed",
			"store_id", storeID,
			"error", err,
		)
	}
	return nil
}

// ValidationContext reads the context blob, preferring the ephemeral copy and
// falling back to the durable one.
func (b *Bridge) ValidationContext(ctx context.Context, storeID string) (ValidationContext, bool) {
	key := b.keys.ValidationContext(storeID)
	for _, kv := range []KV{b.ephemeral, b.durable} {
		raw, err := kv.Get(ctx, key)
		if err != nil {
			continue
		}
		var vc ValidationContext
		if err := json.Unmarshal([]byte(raw), &vc); err != nil {
			b.logger.DebugContext(ctx, "malformed validation context ignored",
				"store_id", storeID,
				"error", err,
			)
			continue
		}
		return vc, true
	}
	return ValidationContext{}, false
}
