package signal

import (
	"github.com/tidwall/gjson"

	"discountgate/pkg/money"
)

// StructuredTotal reads the total out of the host's checkout object. The
// object shape varies between theme versions, so each configured gjson path
// is tried in order.
type StructuredTotal struct {
	Paths []string
}

func (s StructuredTotal) Name() string { return "structured" }

func (s StructuredTotal) Detect(snapshot PageSnapshot) (int64, bool) {
	if snapshot.CheckoutJSON == "" {
		return 0, false
	}
	for _, path := range s.Paths {
		res := gjson.Get(snapshot.CheckoutJSON, path)
		var raw string
		switch res.Type {
		case gjson.String:
			raw = res.Str
		case gjson.Number:
			// Parse the literal text, not the float, to keep cents exact.
			raw = res.Raw
		default:
			continue
		}
		minor, err := money.ParseDecimal(raw)
		if err != nil || minor <= 0 {
			continue
		}
		return minor, true
	}
	return 0, false
}

// SelectorTotal scans ranked DOM selector captures for the first
// currency-formatted amount.
type SelectorTotal struct {
	Selectors []string
}

func (s SelectorTotal) Name() string { return "selector" }

func (s SelectorTotal) Detect(snapshot PageSnapshot) (int64, bool) {
	if len(snapshot.SelectorText) == 0 {
		return 0, false
	}
	for _, selector := range s.Selectors {
		text, ok := snapshot.SelectorText[selector]
		if !ok {
			continue
		}
		minor, ok := money.Extract(text)
		if !ok || minor <= 0 {
			continue
		}
		return minor, true
	}
	return 0, false
}

// QueryParamTotal reads a pre-computed total from the page URL.
type QueryParamTotal struct {
	Params []string
}

func (s QueryParamTotal) Name() string { return "query" }

func (s QueryParamTotal) Detect(snapshot PageSnapshot) (int64, bool) {
	if len(snapshot.QueryParams) == 0 {
		return 0, false
	}
	for _, param := range s.Params {
		value, ok := snapshot.QueryParams[param]
		if !ok {
			continue
		}
		minor, err := money.ParseDecimal(value)
		if err != nil || minor <= 0 {
			continue
		}
		return minor, true
	}
	return 0, false
}

// MetaTagTotal is the last-resort read from theme-provided meta tags.
type MetaTagTotal struct {
	Names []string
}

func (s MetaTagTotal) Name() string { return "meta" }

func (s MetaTagTotal) Detect(snapshot PageSnapshot) (int64, bool) {
	if len(snapshot.MetaTags) == 0 {
		return 0, false
	}
	for _, name := range s.Names {
		content, ok := snapshot.MetaTags[name]
		if !ok {
			continue
		}
		minor, ok := money.Extract(content)
		if !ok || minor <= 0 {
			continue
		}
		return minor, true
	}
	return 0, false
}
