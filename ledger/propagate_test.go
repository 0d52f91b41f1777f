package ledger

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Three days shaped so net cash comes out [100, -20, 50] with a flat 200
// card take each day.
func threeDayLedger() []DayRecord {
	return []DayRecord{
		{Date: day(2025, 8, 1), Inputs: DayInputs{EnteredCash: 100, EnteredCard: 200}},
		{Date: day(2025, 8, 2), Inputs: DayInputs{EnteredCash: -20, EnteredCard: 200}},
		{Date: day(2025, 8, 3), Inputs: DayInputs{EnteredCash: 50, EnteredCard: 200}},
	}
}

func TestRecomputeForward_RunningBalances(t *testing.T) {
	out, err := RecomputeForward(threeDayLedger(), 0, 0.014)
	if err != nil {
		t.Fatalf("RecomputeForward: %v", err)
	}
	expCash := []float64{100, 80, 130}
	expCard := []float64{200, 400, 600}
	expTotal := []float64{300, 480, 730}
	for i := range out {
		if out[i].Derived.CumulativeCash != expCash[i] {
			t.Fatalf("day %d CumulativeCash expected %v, got %v", i, expCash[i], out[i].Derived.CumulativeCash)
		}
		if out[i].Derived.CumulativeCard != expCard[i] {
			t.Fatalf("day %d CumulativeCard expected %v, got %v", i, expCard[i], out[i].Derived.CumulativeCard)
		}
		if out[i].Derived.TotalMoney != expTotal[i] {
			t.Fatalf("day %d TotalMoney expected %v, got %v", i, expTotal[i], out[i].Derived.TotalMoney)
		}
	}
}

func TestRecomputeForward_EditMidMonthLeavesEarlierDaysAlone(t *testing.T) {
	out, err := RecomputeForward(threeDayLedger(), 0, 0.014)
	if err != nil {
		t.Fatalf("initial pass: %v", err)
	}
	before := out[0]

	// Zero out day 1's takings and recompute from there.
	out[1].Inputs.EnteredCash = 0
	out, err = RecomputeForward(out, 1, 0.014)
	if err != nil {
		t.Fatalf("recompute from 1: %v", err)
	}

	if !reflect.DeepEqual(out[0], before) {
		t.Fatalf("day 0 must be untouched:\nbefore %+v\nafter  %+v", before, out[0])
	}
	expCash := []float64{100, 100, 150}
	for i := range out {
		if out[i].Derived.CumulativeCash != expCash[i] {
			t.Fatalf("day %d CumulativeCash expected %v, got %v", i, expCash[i], out[i].Derived.CumulativeCash)
		}
	}
}

func TestRecomputeForward_Idempotent(t *testing.T) {
	once, err := RecomputeForward(threeDayLedger(), 0, 0.014)
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	twice, err := RecomputeForward(once, 0, 0.014)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("recompute is not idempotent:\nonce  %+v\ntwice %+v", once, twice)
	}
}

func TestRecomputeForward_InvariantHolds(t *testing.T) {
	days := []DayRecord{
		{Date: day(2025, 8, 1), Inputs: DayInputs{SystemCash: 900, EnteredCash: 910.55, EnteredCard: 120.45, CashOuts: 33.10, PettyCash: 50}},
		{Date: day(2025, 8, 2), Inputs: DayInputs{EnteredCash: 48.27, EnteredCard: 310, Bills: 120.12}},
		{Date: day(2025, 8, 3), Inputs: DayInputs{EnteredCash: 755.01, EnteredCard: 88.88, Cleaning: 10.05, Internet: 30}},
		{Date: day(2025, 8, 4), Inputs: DayInputs{EnteredCash: 0, EnteredCard: 0}},
	}
	out, err := RecomputeForward(days, 0, 0.014)
	if err != nil {
		t.Fatalf("RecomputeForward: %v", err)
	}
	for i := 1; i < len(out); i++ {
		wantCash := round2(out[i-1].Derived.CumulativeCash + out[i].Derived.NetCash)
		if out[i].Derived.CumulativeCash != wantCash {
			t.Fatalf("day %d cumulative cash invariant broken: %v != %v", i, out[i].Derived.CumulativeCash, wantCash)
		}
		wantCard := round2(out[i-1].Derived.CumulativeCard + out[i].Inputs.EnteredCard)
		if out[i].Derived.CumulativeCard != wantCard {
			t.Fatalf("day %d cumulative card invariant broken: %v != %v", i, out[i].Derived.CumulativeCard, wantCard)
		}
	}
	for i := range out {
		want := round2(out[i].Derived.CumulativeCash + out[i].Derived.CumulativeCard)
		if out[i].Derived.TotalMoney != want {
			t.Fatalf("day %d total money invariant broken: %v != %v", i, out[i].Derived.TotalMoney, want)
		}
	}
}

func TestRecomputeForward_NoOpEdges(t *testing.T) {
	out, err := RecomputeForward(nil, 0, 0.014)
	if err != nil || len(out) != 0 {
		t.Fatalf("empty ledger should be a no-op, got len=%d err=%v", len(out), err)
	}

	days := threeDayLedger()
	for _, from := range []int{len(days), len(days) + 5, -1} {
		out, err := RecomputeForward(days, from, 0.014)
		if err != nil {
			t.Fatalf("from=%d should be a no-op, got err %v", from, err)
		}
		if !reflect.DeepEqual(out, days) {
			t.Fatalf("from=%d should leave the ledger unchanged", from)
		}
	}
}

func TestRecomputeForward_RejectsOutOfOrderLedger(t *testing.T) {
	unsorted := []DayRecord{
		{Date: day(2025, 8, 2)},
		{Date: day(2025, 8, 1)},
	}
	if _, err := RecomputeForward(unsorted, 0, 0.014); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("unsorted ledger expected ErrOutOfOrder, got %v", err)
	}

	duplicated := []DayRecord{
		{Date: day(2025, 8, 1)},
		{Date: day(2025, 8, 1)},
	}
	if _, err := RecomputeForward(duplicated, 0, 0.014); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("duplicate dates expected ErrOutOfOrder, got %v", err)
	}
}

func TestRecomputeForward_DoesNotMutateInput(t *testing.T) {
	days := threeDayLedger()
	snapshot := make([]DayRecord, len(days))
	copy(snapshot, days)

	if _, err := RecomputeForward(days, 0, 0.014); err != nil {
		t.Fatalf("RecomputeForward: %v", err)
	}
	if !reflect.DeepEqual(days, snapshot) {
		t.Fatalf("input ledger was mutated")
	}
}
