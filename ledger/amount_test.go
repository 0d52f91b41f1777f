package ledger

import (
	"errors"
	"testing"
)

func TestParseAmount_ToleratesHumanInput(t *testing.T) {
	cases := []struct {
		in       string
		expected float64
	}{
		{"500", 500},
		{"1,200.50", 1200.50},
		{"(1,200.50)", -1200.50},
		{"EGP 500", 500},
		{"  egp 1,000  ", 1000},
		{"-75.25", -75.25},
		{"", 0},
		{"-", 0},
		{"—", 0},
		{"–", 0},
		{"0", 0},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) error: %v", tc.in, err)
		}
		if got != tc.expected {
			t.Fatalf("ParseAmount(%q) expected %v, got %v", tc.in, tc.expected, got)
		}
	}
}

func TestParseAmount_RejectsGarbage(t *testing.T) {
	cases := []string{
		".",
		"EGP",
		"EGP .",
		"abc",
		"( )",
		"..",
		"1.2.3",
	}
	for _, in := range cases {
		if _, err := ParseAmount(in); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("ParseAmount(%q) expected ErrInvalidAmount, got %v", in, err)
		}
	}
}

// A bare "-" is the blank sentinel, but a minus that survives stripping
// (e.g. a currency token followed by "-") is garbage, not zero.
func TestParseAmount_BlankSentinelVsStrippedMinus(t *testing.T) {
	if got, err := ParseAmount("-"); err != nil || got != 0 {
		t.Fatalf(`ParseAmount("-") expected 0, got %v err %v`, got, err)
	}
	if _, err := ParseAmount("EGP -"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf(`ParseAmount("EGP -") expected ErrInvalidAmount, got %v`, err)
	}
}

func TestParseAmount_RoundTrip(t *testing.T) {
	inputs := []string{"500", "1,200.50", "(42.42)", "-75.25", "0.01", "123456.78"}
	for _, in := range inputs {
		first, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("ParseAmount(%q) error: %v", in, err)
		}
		again, err := ParseAmount(formatAmount(first))
		if err != nil {
			t.Fatalf("round trip ParseAmount(%q) error: %v", formatAmount(first), err)
		}
		if again != first {
			t.Fatalf("round trip of %q: %v != %v", in, again, first)
		}
	}
}
