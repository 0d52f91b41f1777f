package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Blank sentinels operators type to mean "no value". These parse to 0.0
// and are distinct from garbage input, which is an error.
var blankSentinels = map[string]bool{
	"":       true,
	"-":      true,
	"—": true, // em dash
	"–": true, // en dash
}

// ParseAmount turns loosely-formatted human input into an amount.
//
// Accepted forms include "1,200.50", "EGP 500", "(123.45)" (accounting
// negative) and the blank sentinels above. Thousands separators, currency
// tokens and any other non-numeric characters are stripped before parsing.
// If nothing usable remains after stripping, ErrInvalidAmount is returned
// with the offending input; the caller decides what to do, never this
// function.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if blankSentinels[s] {
		return 0, nil
	}

	// Accounting convention: parenthesized means negative.
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) >= 2 {
		neg = true
		s = s[1 : len(s)-1]
	}

	// Keep digits, '.' and '-' only.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if clean == "" || clean == "-" || clean == "." {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	v, _ := d.Float64()
	if neg {
		v = -v
	}
	return v, nil
}

// round2 rounds a final output to 2 decimal places. Intermediate sums are
// never rounded.
func round2(v float64) float64 {
	r, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return r
}
