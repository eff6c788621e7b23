// Package signal infers facts about the current storefront page from an
// abstract snapshot the embed script ships to the server: the order total and
// whether the visitor is a known newsletter subscriber. Detection is
// heuristic and advisory; a wrong or missing signal can only ever make the
// experience less helpful, never block a checkout.
package signal

// PageSnapshot is the embed script's capture of everything the detection
// strategies might need. Every field is optional; strategies treat missing or
// malformed data as "no result".
type PageSnapshot struct {
	// StoreID is the shop domain the snapshot was captured on.
	StoreID string `json:"store_id"`
	// CheckoutJSON is the host's structured checkout object, serialized
	// as-is. Queried with gjson paths, so shape drift degrades gracefully.
	CheckoutJSON string `json:"checkout_json,omitempty"`
	// SelectorText maps a CSS selector to the text content of the first
	// matching element at capture time.
	SelectorText map[string]string `json:"selector_text,omitempty"`
	// QueryParams are the page URL's query parameters.
	QueryParams map[string]string `json:"query_params,omitempty"`
	// MetaTags maps meta tag names to their content attributes.
	MetaTags map[string]string `json:"meta_tags,omitempty"`
}
