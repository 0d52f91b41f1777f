package ledger

import "fmt"

// RecomputeForward re-derives day `from` and every later day, threading the
// running balances left to right in a single pass. Day from-1 (and earlier)
// is never touched; its stored cumulative values seed the pass.
//
// A `from` outside [0, len) means there is nothing to recompute and the
// ledger is returned unchanged. An unsorted or duplicate-date ledger is
// rejected up front with ErrOutOfOrder.
//
// The input slice is not mutated; the result is a fresh slice. Calling
// twice with the same arguments yields identical output.
func RecomputeForward(days []DayRecord, from int, superpayFraction float64) ([]DayRecord, error) {
	if err := checkOrder(days); err != nil {
		return nil, err
	}

	out := make([]DayRecord, len(days))
	copy(out, days)

	if from < 0 || from >= len(out) {
		return out, nil
	}

	for i := from; i < len(out); i++ {
		d := ComputeDay(out[i].Inputs, superpayFraction)
		if i == 0 {
			d.CumulativeCash = d.NetCash
			d.CumulativeCard = round2(out[i].Inputs.EnteredCard)
		} else {
			d.CumulativeCash = round2(out[i-1].Derived.CumulativeCash + d.NetCash)
			d.CumulativeCard = round2(out[i-1].Derived.CumulativeCard + out[i].Inputs.EnteredCard)
		}
		d.TotalMoney = round2(d.CumulativeCash + d.CumulativeCard)
		out[i].Derived = d
	}
	return out, nil
}

func checkOrder(days []DayRecord) error {
	for i := 1; i < len(days); i++ {
		if !days[i].Date.After(days[i-1].Date) {
			return fmt.Errorf("%w: %s then %s",
				ErrOutOfOrder,
				days[i-1].Date.Format("2006-01-02"),
				days[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}
