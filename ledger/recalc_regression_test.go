package ledger_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/closures_backend/ledger"
)

// Month-level recalculation regression harness.
//
// Non-negotiable safety: this test is intended to catch changes that would
// alter the month's running balances for any historical ledger. The fixture
// mixes plain days, expense-heavy days, a negative-cash day and a
// petty-cash wash day; the expected figures below were worked out by hand
// and must not drift.

func fixtureMonth() []ledger.DayRecord {
	d := func(n int) time.Time { return time.Date(2025, time.August, n, 0, 0, 0, 0, time.UTC) }
	return []ledger.DayRecord{
		{Date: d(1), Inputs: ledger.DayInputs{SystemCash: 1000, SystemCard: 500, EnteredCash: 950, EnteredCard: 500, CashOuts: 50, PettyCash: 20, SuperPaySent: 490}},
		{Date: d(2), Inputs: ledger.DayInputs{EnteredCash: 500, EnteredCard: 300, Bills: 100, Cleaning: 50}},
		{Date: d(3), Inputs: ledger.DayInputs{CashOuts: 25}},
		{Date: d(4), Inputs: ledger.DayInputs{EnteredCash: 200, EnteredCard: 100, PettyCash: 200}},
		{Date: d(5), Inputs: ledger.DayInputs{EnteredCash: 100.25}},
		{Date: d(6), Inputs: ledger.DayInputs{EnteredCash: 60, EnteredCard: 40, SuperPaySent: 39.44}},
	}
}

func TestMonthRecalculationRegression(t *testing.T) {
	out, err := ledger.RecomputeForward(fixtureMonth(), 0, 0.014)
	if err != nil {
		t.Fatalf("RecomputeForward: %v", err)
	}

	expCumCash := []float64{880, 1230, 1205, 1205, 1305.25, 1365.25}
	expCumCard := []float64{500, 800, 800, 900, 900, 940}
	expTotal := []float64{1380, 2030, 2005, 2105, 2205.25, 2305.25}
	for i := range out {
		if out[i].Derived.CumulativeCash != expCumCash[i] {
			t.Fatalf("day %d CumulativeCash expected %v, got %v", i+1, expCumCash[i], out[i].Derived.CumulativeCash)
		}
		if out[i].Derived.CumulativeCard != expCumCard[i] {
			t.Fatalf("day %d CumulativeCard expected %v, got %v", i+1, expCumCard[i], out[i].Derived.CumulativeCard)
		}
		if out[i].Derived.TotalMoney != expTotal[i] {
			t.Fatalf("day %d TotalMoney expected %v, got %v", i+1, expTotal[i], out[i].Derived.TotalMoney)
		}
	}

	// Day 3 is a pure cash-out day: negative net must flow through.
	if out[2].Derived.NetCash != -25 {
		t.Fatalf("day 3 NetCash expected -25, got %v", out[2].Derived.NetCash)
	}
	// Day 6 remits exactly the post-fee amount: 40 * (1 - 0.014) = 39.44.
	if out[5].Derived.SuperPayExpected != 39.44 {
		t.Fatalf("day 6 SuperPayExpected expected 39.44, got %v", out[5].Derived.SuperPayExpected)
	}
	if out[5].Derived.SuperPayDiff != 0 {
		t.Fatalf("day 6 SuperPayDiff expected 0, got %v", out[5].Derived.SuperPayDiff)
	}
}

func TestMonthRecalculationDeterminism(t *testing.T) {
	first, err := ledger.RecomputeForward(fixtureMonth(), 0, 0.014)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := ledger.RecomputeForward(fixtureMonth(), 0, 0.014)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal first: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("two identical recalculations produced different ledgers:\n%s\n%s", a, b)
	}
}
