package bridge

import (
	"context"
	"time"
)

// KV is the minimal key/value contract the bridge runs on. Implementations
// must return sentinel.ErrNotFound (possibly wrapped) for absent or expired
// keys so callers can distinguish "no signal" from a failing backend.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
