package bridge

// Keys derives the fixed storage key namespace from a configurable prefix.
// Every script or service on the same origin using the same prefix
// participates in the same validation context, so these strings are a wire
// contract, not an implementation detail.
type Keys struct {
	Prefix string
}

// Subscription is the durable subscription record key.
func (k Keys) Subscription(storeID string) string {
	return k.Prefix + storeID
}

// Session is the ephemeral per-tab subscription flag key.
func (k Keys) Session(storeID string) string {
	return k.Prefix + storeID + "_session"
}

// CartValidationSession is the secondary ephemeral flag written by the cart
// validation flow.
func (k Keys) CartValidationSession(storeID string) string {
	return k.Prefix + storeID + "_cart_validation_session"
}

// ValidationContext is the denormalized context blob key, written once
// detection succeeds so later pages can reconstruct the restriction without
// seeing the original detection event.
func (k Keys) ValidationContext(storeID string) string {
	return k.Prefix + storeID + "_cart_validation"
}
