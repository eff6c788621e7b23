package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and the storage bridge
// return these (optionally wrapped) so services can translate them into domain
// errors, or treat them as negative signals on the advisory path.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: key or policy does not exist in store
// - ErrExpired: ephemeral flag or context blob past its TTL
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: backing store temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
