// Package store persists per-store discount policy configuration. The admin
// dashboard produces these records; the evaluator only consumes them.
package store

import (
	"context"
	"time"
)

// Record is the stored shape of a discount policy. RestrictedCodes keeps
// insertion order; matching upper-cases at evaluation time.
type Record struct {
	StoreID           string    `json:"store_id"`
	MaxEligibleAmount int64     `json:"max_eligible_amount"`
	RestrictedCodes   []string  `json:"restricted_codes"`
	CustomRule        string    `json:"custom_rule,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Store is the policy persistence contract. Get returns
// sentinel.ErrNotFound (possibly wrapped) for unknown stores.
type Store interface {
	Get(ctx context.Context, storeID string) (*Record, error)
	Put(ctx context.Context, rec *Record) error
}
