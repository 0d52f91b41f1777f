package ledger

// ComputeDay derives one day's metrics from its raw inputs. Pure: it reads
// nothing from other days, so the running balances are left for
// RecomputeForward to fill in.
//
// superpayFraction is the aggregator's fee as a fraction in [0,1), e.g.
// 0.014 for 1.4%. Callers supply the fraction directly; the engine never
// divides by 100.
func ComputeDay(in DayInputs, superpayFraction float64) DayDerived {
	expenses := in.TotalExpenses()

	cashOnHand := in.EnteredCash - in.CashOuts - in.SystemCashOuts - expenses
	superpayExpected := in.EnteredCard * (1 - superpayFraction)

	return DayDerived{
		TotalSystemSales: round2(in.SystemCash + in.SystemCard),
		TotalSales:       round2(in.EnteredCash + in.EnteredCard),
		CashOnHand:       round2(cashOnHand),
		CashDeficit:      round2(in.SystemCash - in.EnteredCash),
		CardDeficit:      round2(in.SystemCard - in.EnteredCard),
		SuperPayExpected: round2(superpayExpected),
		SuperPayDiff:     round2(superpayExpected - in.SuperPaySent),
		NetCash:          round2(cashOnHand - in.PettyCash),
	}
}
