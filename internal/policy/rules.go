// Package policy holds the authoritative discount eligibility decision. The
// advisory layers (signal detection, UI enforcement) warn and discourage;
// only Evaluate actually blocks a transaction.
package policy

import (
	"strings"

	"discountgate/pkg/money"
)

// Evaluate applies the eligibility rule chain to produce the final decision.
// This is pure domain logic - no I/O, no side effects, no shared state.
// Identical inputs always yield an identical decision and identical message
// text. Blocking is only ever a positive, fully-evidenced outcome: missing or
// malformed input falls toward allow.
//
// Rule priority (first match wins):
//  1. No cart or no customer - allow (no restriction without identity)
//  2. Not a newsletter subscriber - allow
//  3. Total at or under the threshold - allow (threshold itself is eligible)
//  4. No restricted code actually applied - allow
//  5. Custom rule grants eligibility - allow
//  6. Otherwise - block with excess amount and explanatory message
func Evaluate(cart *CartSnapshot, customer *CustomerRecord, pol DiscountPolicy) Decision {
	// Rule 1: identity and cart are required evidence for any restriction.
	if cart == nil || customer == nil {
		return Decision{Allowed: true}
	}

	total := totalMinor(cart)

	// Rule 2: restriction applies to newsletter subscribers only.
	if !IsSubscriber(customer.Tags) {
		return Decision{Allowed: true, TotalMinor: total}
	}

	// Rule 3: threshold check; the threshold amount itself is eligible.
	if total <= pol.MaxEligibleAmount {
		return Decision{Allowed: true, TotalMinor: total}
	}

	// Rule 4: the restriction is conditional on a restricted code being used,
	// not on subscriber status and high total alone.
	matched := matchRestrictedCodes(cart.AppliedDiscountCodes, pol.RestrictedCodes)
	if len(matched) == 0 {
		return Decision{Allowed: true, TotalMinor: total}
	}

	// Rule 5: a per-store custom rule may extend eligibility.
	if pol.CustomRule.grantsEligibility(RuleEnv{
		TotalMinor: total,
		Currency:   cart.Currency,
		Codes:      append([]string(nil), cart.AppliedDiscountCodes...),
		Subscriber: true,
	}) {
		return Decision{Allowed: true, TotalMinor: total}
	}

	// Rule 6: block.
	excess := total - pol.MaxEligibleAmount
	return Decision{
		Allowed:      false,
		TotalMinor:   total,
		ExcessAmount: excess,
		MatchedCodes: matched,
		Message:      blockMessage(matched, pol.MaxEligibleAmount, total, excess, cart.Currency),
	}
}

// totalMinor parses the cart total into minor units. Unparsable text reads as
// zero: the evaluator never fails on noisy input, and a zero total can only
// ever allow.
func totalMinor(cart *CartSnapshot) int64 {
	v, err := money.ParseDecimal(cart.TotalAmount)
	if err != nil {
		return 0
	}
	return v
}

// IsSubscriber reports whether the tag set marks the customer as a newsletter
// subscriber. Matching is deliberately loose substring matching on free-text
// tags; see DESIGN.md for the recorded trade-off.
func IsSubscriber(tags []TagFlag) bool {
	for _, t := range tags {
		if !t.HasTag {
			continue
		}
		lower := strings.ToLower(t.Tag)
		if strings.Contains(lower, "newsletter") ||
			strings.Contains(lower, "subscriber") ||
			lower == "newsletter subscribers" {
			return true
		}
	}
	return false
}

// matchRestrictedCodes returns the applied codes (upper-cased, deduplicated,
// first-match order) that contain any restricted code as a substring.
func matchRestrictedCodes(applied, restricted []string) []string {
	var matched []string
	seen := make(map[string]struct{})
	for _, code := range applied {
		upper := strings.ToUpper(strings.TrimSpace(code))
		if upper == "" {
			continue
		}
		if _, dup := seen[upper]; dup {
			continue
		}
		for _, r := range restricted {
			rUpper := strings.ToUpper(strings.TrimSpace(r))
			if rUpper == "" {
				continue
			}
			if strings.Contains(upper, rUpper) {
				matched = append(matched, upper)
				seen[upper] = struct{}{}
				break
			}
		}
	}
	return matched
}

// blockMessage builds the deterministic buyer-facing explanation. It names
// every matched code, the threshold, the current total, and the exact amount
// to remove.
func blockMessage(matched []string, threshold, total, excess int64, currency string) string {
	var b strings.Builder
	if len(matched) == 1 {
		b.WriteString("Discount code ")
	} else {
		b.WriteString("Discount codes ")
	}
	b.WriteString(strings.Join(matched, ", "))
	if len(matched) == 1 {
		b.WriteString(" is available to newsletter subscribers on orders up to ")
	} else {
		b.WriteString(" are available to newsletter subscribers on orders up to ")
	}
	b.WriteString(money.FormatAmount(threshold, currency))
	b.WriteString(". Your current order total is ")
	b.WriteString(money.FormatAmount(total, currency))
	b.WriteString(". Remove ")
	b.WriteString(money.FormatAmount(excess, currency))
	b.WriteString(" from your cart to use ")
	if len(matched) == 1 {
		b.WriteString("this code.")
	} else {
		b.WriteString("these codes.")
	}
	return b.String()
}
