package models

import (
	"errors"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/closures_backend/ledger"
)

func TestValidatePeriod(t *testing.T) {
	valid := []string{"2025-01", "2025-12", "1999-06"}
	for _, p := range valid {
		if err := ValidatePeriod(p); err != nil {
			t.Errorf("ValidatePeriod(%q) unexpected error: %v", p, err)
		}
	}

	invalid := []string{"", "2025-13", "2025-00", "2025-1", "25-01", "2025/01", "2025-01-15"}
	for _, p := range invalid {
		if err := ValidatePeriod(p); err == nil {
			t.Errorf("ValidatePeriod(%q) expected error", p)
		}
	}
}

func TestApplyChangeSet(t *testing.T) {
	in := ledger.DayInputs{EnteredCash: 100, PettyCash: 50}
	cs := ledger.ChangeSet{
		Fields: []string{ledger.FieldEnteredCash, ledger.FieldCashOuts},
		New: map[string]string{
			ledger.FieldEnteredCash: "EGP 1,250.75",
			ledger.FieldCashOuts:    "(40)",
		},
	}

	if err := applyChangeSet(&in, cs); err != nil {
		t.Fatalf("applyChangeSet: %v", err)
	}
	if in.EnteredCash != 1250.75 {
		t.Errorf("EnteredCash = %v, expected 1250.75", in.EnteredCash)
	}
	if in.CashOuts != -40 {
		t.Errorf("CashOuts = %v, expected -40", in.CashOuts)
	}
	if in.PettyCash != 50 {
		t.Errorf("PettyCash = %v, untouched field changed", in.PettyCash)
	}
}

func TestApplyChangeSet_BadValueAbortsEdit(t *testing.T) {
	in := ledger.DayInputs{EnteredCash: 100}
	cs := ledger.ChangeSet{
		Fields: []string{ledger.FieldEnteredCash},
		New:    map[string]string{ledger.FieldEnteredCash: "EGP abc"},
	}

	err := applyChangeSet(&in, cs)
	if !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func day(t *testing.T, date string) *DayClosure {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatal(err)
	}
	return &DayClosure{BranchId: 1, Period: "2025-08", ClosureDate: d}
}

func TestFindOrCreateDay_ExistingRow(t *testing.T) {
	rows := []*DayClosure{day(t, "2025-08-01"), day(t, "2025-08-02"), day(t, "2025-08-03")}
	want := rows[1]

	idx, out := findOrCreateDay(rows, 1, "2025-08", want.ClosureDate)
	if idx != 1 {
		t.Fatalf("idx = %d, expected 1", idx)
	}
	if len(out) != 3 {
		t.Fatalf("row count = %d, expected 3", len(out))
	}
	if out[idx] != want {
		t.Fatal("expected the existing row, got a fresh one")
	}
}

func TestFindOrCreateDay_InsertsInDateOrder(t *testing.T) {
	rows := []*DayClosure{day(t, "2025-08-01"), day(t, "2025-08-05")}
	target, _ := time.Parse("2006-01-02", "2025-08-03")

	idx, out := findOrCreateDay(rows, 1, "2025-08", target)
	if idx != 1 {
		t.Fatalf("idx = %d, expected 1", idx)
	}
	if len(out) != 3 {
		t.Fatalf("row count = %d, expected 3", len(out))
	}
	if !out[1].ClosureDate.Equal(target) {
		t.Errorf("inserted date = %v, expected %v", out[1].ClosureDate, target)
	}
	for i := 1; i < len(out); i++ {
		if !out[i-1].ClosureDate.Before(out[i].ClosureDate) {
			t.Fatalf("rows out of date order at %d", i)
		}
	}
}

func TestFindOrCreateDay_AppendsAtEnd(t *testing.T) {
	rows := []*DayClosure{day(t, "2025-08-01")}
	target, _ := time.Parse("2006-01-02", "2025-08-09")

	idx, out := findOrCreateDay(rows, 1, "2025-08", target)
	if idx != 1 || len(out) != 2 {
		t.Fatalf("idx = %d len = %d, expected 1 and 2", idx, len(out))
	}
	if out[1].Period != "2025-08" || out[1].BranchId != 1 {
		t.Errorf("fresh row not stamped with branch/period: %+v", out[1])
	}
}

func TestFindOrCreateDay_EmptyLedger(t *testing.T) {
	target, _ := time.Parse("2006-01-02", "2025-08-01")
	idx, out := findOrCreateDay(nil, 4, "2025-08", target)
	if idx != 0 || len(out) != 1 {
		t.Fatalf("idx = %d len = %d, expected 0 and 1", idx, len(out))
	}
}

func TestDayClosure_InputsRoundTrip(t *testing.T) {
	in := ledger.DayInputs{
		SystemCash:   1500,
		SystemCard:   900.50,
		EnteredCash:  1450,
		EnteredCard:  880,
		CashOuts:     50,
		PettyCash:    3,
		SuperPaySent: 867.68,
		Bills:        12.25,
		Others:       4,
	}

	var c DayClosure
	c.SetInputs(in)
	if got := c.Inputs(); got != in {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, in)
	}
}

func TestDayClosure_DayRecordCarriesDerived(t *testing.T) {
	c := day(t, "2025-08-01")
	c.SetDerived(ledger.DayDerived{NetCash: 880, CumulativeCash: 880, TotalMoney: 1380})

	rec := c.DayRecord()
	if !rec.Date.Equal(c.ClosureDate) {
		t.Errorf("record date = %v, expected %v", rec.Date, c.ClosureDate)
	}
	if rec.Derived.NetCash != 880 || rec.Derived.TotalMoney != 1380 {
		t.Errorf("derived not carried: %+v", rec.Derived)
	}
}
