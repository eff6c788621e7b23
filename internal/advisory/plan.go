// Package advisory computes the client-side warning plan: what the embed
// script should render, disable, and intercept while a restriction is in
// play. Everything here is advisory; the authoritative decision stays with
// the policy evaluator.
package advisory

// BannerElementID is the fixed DOM id for the warning banner. Re-rendering
// first removes any element with this id, so applying the same plan twice
// leaves exactly one banner.
const BannerElementID = "dg-subscriber-discount-warning"

// InsertionDocumentRoot marks the fallback insertion point when none of the
// ranked containers exist on the page.
const InsertionDocumentRoot = "document_root"

// State is the advisory state for the current page load.
type State string

const (
	// StateIdle is the initial state before any detection ran.
	StateIdle State = "idle"
	// StateDetecting is in effect while signals are being gathered.
	StateDetecting State = "detecting"
	// StateNoRestriction means the visitor can use every code freely.
	StateNoRestriction State = "no_restriction"
	// StateRestrictionActive means the current total blocks the restricted
	// codes and the warning plan is populated.
	StateRestrictionActive State = "restriction_active"
)

// Plan is one full recomputation of the advisory surface. Plans replace each
// other wholesale; the host never merges two plans.
type Plan struct {
	State State `json:"state"`

	// Banner is present only while the restriction is active.
	Banner *BannerDirective `json:"banner,omitempty"`
	// Inputs lists the discount input fields to neutralize.
	Inputs []InputDirective `json:"inputs,omitempty"`
	// SubmitRule intercepts restricted codes typed despite the warning.
	SubmitRule *SubmitRule `json:"submit_rule,omitempty"`

	// RerunDelaysMS schedules full re-runs after page load.
	RerunDelaysMS []int `json:"rerun_delays_ms"`
	// MutationDebounceMS is the quiet window applied to mutation-driven
	// re-runs.
	MutationDebounceMS int `json:"mutation_debounce_ms"`
}

// BannerDirective tells the host where and what to render.
type BannerDirective struct {
	ElementID string `json:"element_id"`
	Message   string `json:"message"`
	// InsertionPoint is the first ranked container present on the page, or
	// InsertionDocumentRoot when none matched.
	InsertionPoint string `json:"insertion_point"`
}

// InputDirective neutralizes one class of discount inputs, matched by a
// case-insensitive substring of the input's name or placeholder.
type InputDirective struct {
	MatchHint   string `json:"match_hint"`
	Disable     bool   `json:"disable"`
	Placeholder string `json:"placeholder"`
	Tooltip     string `json:"tooltip"`
}

// SubmitRule guards the submit path: when the field value matches any
// restricted code as a case-insensitive substring, the event is suppressed,
// the field cleared, and the message shown.
type SubmitRule struct {
	RestrictedCodes []string `json:"restricted_codes"`
	SuppressEvent   bool     `json:"suppress_event"`
	ClearField      bool     `json:"clear_field"`
	Message         string   `json:"message"`
}
