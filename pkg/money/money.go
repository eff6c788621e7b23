// Package money converts decimal amount text to integer minor currency units.
// All policy math happens in minor units so decisions stay exact and
// deterministic; floats never enter the pipeline.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrMalformed reports text that does not contain a parsable decimal amount.
	ErrMalformed = errors.New("malformed amount")
	// ErrNegative reports a negative amount, which cart totals never are.
	ErrNegative = errors.New("negative amount")
)

// amountPattern matches a run of digits with optional grouping and decimal
// separators inside free-form text ("Total: $1,299.99 USD").
var amountPattern = regexp.MustCompile(`\d(?:[\d.,\s]*\d)?`)

// ParseDecimal converts a decimal amount string to minor units (2 decimal
// places), rounding half away from zero. Both "1,234.56" and "1.234,56"
// grouping conventions are accepted. A dot is always a decimal point
// regardless of fraction length ("10.005" -> 1001 minor units); a lone comma
// followed by exactly three digits groups thousands ("1,234" -> 123400).
// Host-reported totals feed the blocking decision through this function, so
// it never guesses dots as grouping.
func ParseDecimal(s string) (int64, error) {
	return parse(s, false)
}

// parse is the shared implementation. In loose mode, meant for scraped page
// text, a lone dot followed by exactly three digits is read as a thousands
// separator too ("1.299" -> 129900).
func parse(s string, loose bool) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMalformed
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegative
	}
	s = strings.ReplaceAll(s, " ", "")

	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return 0, fmt.Errorf("%w: unexpected character %q", ErrMalformed, r)
		}
	}

	intPart, fracPart, err := splitParts(s, loose)
	if err != nil {
		return 0, err
	}

	units, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	cents := int64(0)
	switch {
	case len(fracPart) == 0:
	case len(fracPart) == 1:
		d, _ := strconv.ParseInt(fracPart, 10, 64)
		cents = d * 10
	default:
		d, err := strconv.ParseInt(fracPart[:2], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		cents = d
		if len(fracPart) > 2 && fracPart[2] >= '5' {
			cents++
		}
	}

	const maxUnits = (1<<63 - 1) / 100
	if units > maxUnits-1 {
		return 0, fmt.Errorf("%w: amount too large", ErrMalformed)
	}
	return units*100 + cents, nil
}

// splitParts separates integer and fractional digits, resolving which
// separator (if any) is the decimal one.
func splitParts(s string, loose bool) (string, string, error) {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	var decSep byte
	switch {
	case dots == 0 && commas == 0:
		return s, "", nil
	case dots > 0 && commas > 0:
		// Mixed separators: the last one is the decimal point.
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			decSep = '.'
		} else {
			decSep = ','
		}
	case dots == 1:
		if loose && trailingDigits(s, '.') == 3 {
			return strings.ReplaceAll(s, ".", ""), "", nil
		}
		decSep = '.'
	case commas == 1:
		if trailingDigits(s, ',') == 3 {
			return strings.ReplaceAll(s, ",", ""), "", nil
		}
		decSep = ','
	default:
		// Repeated single-kind separators can only group thousands.
		return strings.NewReplacer(".", "", ",", "").Replace(s), "", nil
	}

	idx := strings.LastIndexByte(s, decSep)
	intPart := strings.NewReplacer(".", "", ",", "").Replace(s[:idx])
	fracPart := s[idx+1:]
	if strings.ContainsAny(fracPart, ".,") || fracPart == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	if intPart == "" {
		intPart = "0"
	}
	return intPart, fracPart, nil
}

func trailingDigits(s string, sep byte) int {
	return len(s) - strings.LastIndexByte(s, sep) - 1
}

// Extract finds a positive amount embedded in free-form text, such as the
// text content of an order-summary DOM node. When the text holds several
// numeric runs the last parsable one wins: total nodes trail with the amount
// ("2 items, total 45.50") while leading numbers tend to be item counts.
// Returns false when nothing parsable is present.
func Extract(text string) (int64, bool) {
	var (
		found bool
		last  int64
	)
	for _, candidate := range amountPattern.FindAllString(text, -1) {
		v, err := parse(candidate, true)
		if err == nil && v > 0 {
			found = true
			last = v
		}
	}
	return last, found
}

// FormatMinor renders minor units as a plain decimal string ("1200.00").
// Output is stable so decision messages are byte-for-byte deterministic.
func FormatMinor(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// FormatAmount renders minor units with a currency code ("1200.00 EUR").
func FormatAmount(minor int64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return FormatMinor(minor)
	}
	return FormatMinor(minor) + " " + currency
}
