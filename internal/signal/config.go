package signal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	pstrings "discountgate/pkg/platform/strings"
)

// StrategyConfig lists the integration points the detection strategies probe.
// Selector lists and parameter names are theme contracts, not code, so they
// load from YAML and can be tuned per deployment without a rebuild.
type StrategyConfig struct {
	// StructuredPaths are gjson paths tried against the checkout object.
	StructuredPaths []string `yaml:"structured_paths"`
	// TotalSelectors are CSS selectors ranked most to least specific.
	TotalSelectors []string `yaml:"total_selectors"`
	// QueryParams are URL parameters that may carry a pre-computed total.
	QueryParams []string `yaml:"query_params"`
	// MetaNames are meta tag names probed as a last resort.
	MetaNames []string `yaml:"meta_names"`

	// DiscountInputHints are substrings matched against input names and
	// placeholders to find discount code fields.
	DiscountInputHints []string `yaml:"discount_input_hints"`
	// BannerContainers are insertion points ranked by preference.
	BannerContainers []string `yaml:"banner_containers"`

	// RerunDelaysMS is the advisory re-run schedule relative to page load.
	RerunDelaysMS []int `yaml:"rerun_delays_ms"`
	// MutationDebounceMS is the quiet window after a page mutation before
	// re-evaluating.
	MutationDebounceMS int `yaml:"mutation_debounce_ms"`
}

// DefaultStrategyConfig returns the built-in strategy configuration, tuned
// for common storefront themes.
func DefaultStrategyConfig() StrategyConfig {
	return StrategyConfig{
		StructuredPaths: []string{
			"total_price",
			"checkout.total_price",
			"payment_due",
			"cart.total_price",
		},
		TotalSelectors: []string{
			".payment-due__price",
			".totals__total-value",
			".cart__total",
			"[data-checkout-payment-due-target]",
			".order-summary__emphasis",
		},
		QueryParams: []string{
			"cart_total",
			"checkout_total",
		},
		MetaNames: []string{
			"checkout-total",
			"cart-total",
		},
		DiscountInputHints: []string{
			"discount",
			"reduction",
			"coupon",
		},
		BannerContainers: []string{
			".cart__footer",
			".order-summary__section--discount",
			".cart-drawer__footer",
			"form[action='/cart']",
		},
		RerunDelaysMS:      []int{0, 1500, 4000},
		MutationDebounceMS: 250,
	}
}

// LoadStrategyConfig reads a YAML strategy file and overlays it on the
// defaults: any list left empty in the file keeps its default. An empty path
// returns the defaults unchanged.
func LoadStrategyConfig(path string) (StrategyConfig, error) {
	cfg := DefaultStrategyConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read strategy config: %w", err)
	}

	var overlay StrategyConfig
	if err := yaml.Unmarshal(raw, &overlay); err != nil {
		return cfg, fmt.Errorf("parse strategy config: %w", err)
	}

	if len(overlay.StructuredPaths) > 0 {
		cfg.StructuredPaths = overlay.StructuredPaths
	}
	if len(overlay.TotalSelectors) > 0 {
		cfg.TotalSelectors = overlay.TotalSelectors
	}
	if len(overlay.QueryParams) > 0 {
		cfg.QueryParams = overlay.QueryParams
	}
	if len(overlay.MetaNames) > 0 {
		cfg.MetaNames = overlay.MetaNames
	}
	if len(overlay.DiscountInputHints) > 0 {
		// Hints are matched case-insensitively against input attributes.
		cfg.DiscountInputHints = pstrings.DedupeAndTrimLower(overlay.DiscountInputHints)
	}
	if len(overlay.BannerContainers) > 0 {
		cfg.BannerContainers = overlay.BannerContainers
	}
	if len(overlay.RerunDelaysMS) > 0 {
		cfg.RerunDelaysMS = overlay.RerunDelaysMS
	}
	if overlay.MutationDebounceMS > 0 {
		cfg.MutationDebounceMS = overlay.MutationDebounceMS
	}

	return cfg, nil
}
