package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultSuperPayFraction is the aggregator's standard fee (1.4%).
const DefaultSuperPayFraction = 0.014

// SuperPayFraction reads the SuperPay fee from SUPERPAY_PCT.
//
// The value is a fraction, e.g. "0.014" — never a percent-as-100 number.
// Anything outside [0, 1) is rejected here so the engine can trust that
// the fee is applied exactly once.
func SuperPayFraction() (float64, error) {
	raw := strings.TrimSpace(os.Getenv("SUPERPAY_PCT"))
	if raw == "" {
		return DefaultSuperPayFraction, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("SUPERPAY_PCT %q is not a number: %w", raw, err)
	}
	if v < 0 || v >= 1 {
		return 0, fmt.Errorf("SUPERPAY_PCT %q must be a fraction in [0,1), e.g. 0.014 for 1.4%%", raw)
	}
	return v, nil
}
