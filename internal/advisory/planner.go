package advisory

import (
	"strings"

	"discountgate/internal/policy/store"
	"discountgate/internal/signal"
	"discountgate/pkg/money"
)

// Planner turns a detection result and a store policy into an advisory plan.
// Plans are pure recomputations: the planner keeps no state between calls.
type Planner struct {
	cfg signal.StrategyConfig
}

// NewPlanner constructs a planner using the given strategy config for input
// hints, insertion points, and the re-run schedule.
func NewPlanner(cfg signal.StrategyConfig) *Planner {
	return &Planner{cfg: cfg}
}

// PlanInput carries everything a plan computation needs.
type PlanInput struct {
	Snapshot   signal.PageSnapshot
	TotalMinor int64
	Subscriber bool
	// Policy is nil when the store has none configured.
	Policy *store.Record
	// Currency is used for amounts in the warning text.
	Currency string
}

// Build recomputes the advisory plan from scratch. A restriction is advised
// only when every piece of positive evidence lines up: a subscriber, a
// configured policy with restricted codes, and a detected total over the
// threshold. Anything less reads as no restriction.
func (p *Planner) Build(in PlanInput) Plan {
	plan := Plan{
		State:              StateNoRestriction,
		RerunDelaysMS:      p.cfg.RerunDelaysMS,
		MutationDebounceMS: p.cfg.MutationDebounceMS,
	}

	if !in.Subscriber || in.Policy == nil || len(in.Policy.RestrictedCodes) == 0 {
		return plan
	}
	if in.TotalMinor <= in.Policy.MaxEligibleAmount {
		return plan
	}

	excess := in.TotalMinor - in.Policy.MaxEligibleAmount
	message := warningMessage(in.Policy.RestrictedCodes, in.Policy.MaxEligibleAmount, in.TotalMinor, excess, in.Currency)

	plan.State = StateRestrictionActive
	plan.Banner = &BannerDirective{
		ElementID:      BannerElementID,
		Message:        message,
		InsertionPoint: p.insertionPoint(in.Snapshot),
	}
	plan.Inputs = p.inputDirectives()
	plan.SubmitRule = &SubmitRule{
		RestrictedCodes: upperCodes(in.Policy.RestrictedCodes),
		SuppressEvent:   true,
		ClearField:      true,
		Message:         message,
	}
	return plan
}

// insertionPoint picks the first ranked container present in the snapshot.
func (p *Planner) insertionPoint(snapshot signal.PageSnapshot) string {
	for _, container := range p.cfg.BannerContainers {
		if _, ok := snapshot.SelectorText[container]; ok {
			return container
		}
	}
	return InsertionDocumentRoot
}

func (p *Planner) inputDirectives() []InputDirective {
	directives := make([]InputDirective, 0, len(p.cfg.DiscountInputHints))
	for _, hint := range p.cfg.DiscountInputHints {
		directives = append(directives, InputDirective{
			MatchHint:   hint,
			Disable:     true,
			Placeholder: "Discount codes are limited on this order",
			Tooltip:     "Subscriber discount codes apply to smaller orders only",
		})
	}
	return directives
}

func upperCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code != "" {
			out = append(out, code)
		}
	}
	return out
}

// warningMessage mirrors the authoritative block message wording so the
// advisory banner and a real block never contradict each other.
func warningMessage(codes []string, threshold, total, excess int64, currency string) string {
	var b strings.Builder
	if len(codes) == 1 {
		b.WriteString("Discount code ")
	} else {
		b.WriteString("Discount codes ")
	}
	b.WriteString(strings.Join(upperCodes(codes), ", "))
	if len(codes) == 1 {
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
	if len(codes) == 1 {
		b.WriteString("this code.")
	} else {
		b.WriteString("these codes.")
	}
	return b.String()
}
