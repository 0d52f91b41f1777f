// Package ledger implements the register-closure recalculation engine:
// tolerant amount parsing, per-day derivation, forward propagation of the
// month's running balances, and numeric-aware change detection.
//
// The engine is pure and synchronous. It owns no I/O: the caller fetches a
// whole month of rows, runs the engine in memory, and writes the result
// back as a unit.
package ledger

import (
	"strconv"
	"time"
)

// Editable raw-input column names. These match the sheet headings the
// operators know, so audit entries stay readable without a mapping table.
const (
	FieldSystemCash              = "System amount Cash"
	FieldSystemCard              = "System amount Card"
	FieldEnteredCash             = "entered cash amount"
	FieldEnteredCard             = "Card amount"
	FieldCashOuts                = "Cashouts"
	FieldSystemCashOuts          = "system cashouts"
	FieldPettyCash               = "Petty cash"
	FieldSuperPaySent            = "SuperPay sent"
	FieldEmployeeAdvances        = "Employee advances"
	FieldTransportationGoods     = "Transportation Goods"
	FieldTransportationAllowance = "Transportation Allowance"
	FieldCleaning                = "Cleaning"
	FieldInternet                = "Internet"
	FieldCleaningSupplies        = "Cleaning supplies"
	FieldBills                   = "Bills"
	FieldOthers                  = "Others"
)

// EditableFields lists every user-editable raw input, in sheet order.
// Derived columns are never diffed; they are recomputed outputs.
var EditableFields = []string{
	FieldSystemCash,
	FieldSystemCard,
	FieldEnteredCash,
	FieldEnteredCard,
	FieldCashOuts,
	FieldSystemCashOuts,
	FieldPettyCash,
	FieldSuperPaySent,
	FieldEmployeeAdvances,
	FieldTransportationGoods,
	FieldTransportationAllowance,
	FieldCleaning,
	FieldInternet,
	FieldCleaningSupplies,
	FieldBills,
	FieldOthers,
}

// DayInputs holds one day's user-entered raw figures. Absent inputs are
// zero; the engine never reads derived columns as inputs.
type DayInputs struct {
	SystemCash     float64 `json:"system_cash"`
	SystemCard     float64 `json:"system_card"`
	EnteredCash    float64 `json:"entered_cash"`
	EnteredCard    float64 `json:"entered_card"`
	CashOuts       float64 `json:"cash_outs"`
	SystemCashOuts float64 `json:"system_cash_outs"`
	PettyCash      float64 `json:"petty_cash"`
	SuperPaySent   float64 `json:"superpay_sent"`

	EmployeeAdvances        float64 `json:"employee_advances"`
	TransportationGoods     float64 `json:"transportation_goods"`
	TransportationAllowance float64 `json:"transportation_allowance"`
	Cleaning                float64 `json:"cleaning"`
	Internet                float64 `json:"internet"`
	CleaningSupplies        float64 `json:"cleaning_supplies"`
	Bills                   float64 `json:"bills"`
	Others                  float64 `json:"others"`
}

// TotalExpenses sums the fixed expense categories.
func (in DayInputs) TotalExpenses() float64 {
	return in.EmployeeAdvances + in.TransportationGoods + in.TransportationAllowance +
		in.Cleaning + in.Internet + in.CleaningSupplies + in.Bills + in.Others
}

// Values renders the editable inputs as textual field values, keyed by the
// canonical field names. This is the "previous" side handed to DiffDay.
func (in DayInputs) Values() FieldValues {
	return FieldValues{
		FieldSystemCash:              formatAmount(in.SystemCash),
		FieldSystemCard:              formatAmount(in.SystemCard),
		FieldEnteredCash:             formatAmount(in.EnteredCash),
		FieldEnteredCard:             formatAmount(in.EnteredCard),
		FieldCashOuts:                formatAmount(in.CashOuts),
		FieldSystemCashOuts:          formatAmount(in.SystemCashOuts),
		FieldPettyCash:               formatAmount(in.PettyCash),
		FieldSuperPaySent:            formatAmount(in.SuperPaySent),
		FieldEmployeeAdvances:        formatAmount(in.EmployeeAdvances),
		FieldTransportationGoods:     formatAmount(in.TransportationGoods),
		FieldTransportationAllowance: formatAmount(in.TransportationAllowance),
		FieldCleaning:                formatAmount(in.Cleaning),
		FieldInternet:                formatAmount(in.Internet),
		FieldCleaningSupplies:        formatAmount(in.CleaningSupplies),
		FieldBills:                   formatAmount(in.Bills),
		FieldOthers:                  formatAmount(in.Others),
	}
}

// Set assigns one editable field by its canonical name.
// Unknown names are rejected so typos never silently pass through.
func (in *DayInputs) Set(name string, v float64) error {
	switch name {
	case FieldSystemCash:
		in.SystemCash = v
	case FieldSystemCard:
		in.SystemCard = v
	case FieldEnteredCash:
		in.EnteredCash = v
	case FieldEnteredCard:
		in.EnteredCard = v
	case FieldCashOuts:
		in.CashOuts = v
	case FieldSystemCashOuts:
		in.SystemCashOuts = v
	case FieldPettyCash:
		in.PettyCash = v
	case FieldSuperPaySent:
		in.SuperPaySent = v
	case FieldEmployeeAdvances:
		in.EmployeeAdvances = v
	case FieldTransportationGoods:
		in.TransportationGoods = v
	case FieldTransportationAllowance:
		in.TransportationAllowance = v
	case FieldCleaning:
		in.Cleaning = v
	case FieldInternet:
		in.Internet = v
	case FieldCleaningSupplies:
		in.CleaningSupplies = v
	case FieldBills:
		in.Bills = v
	case FieldOthers:
		in.Others = v
	default:
		return errUnknown(name)
	}
	return nil
}

// DayDerived holds the recomputed outputs for one day. Never hand-edited.
type DayDerived struct {
	TotalSystemSales float64 `json:"total_system_sales"`
	TotalSales       float64 `json:"total_sales"`
	CashOnHand       float64 `json:"cash_on_hand"`
	CashDeficit      float64 `json:"cash_deficit"`
	CardDeficit      float64 `json:"card_deficit"`
	SuperPayExpected float64 `json:"superpay_expected"`
	SuperPayDiff     float64 `json:"superpay_diff"`
	NetCash          float64 `json:"net_cash"`

	// Running balances, set by RecomputeForward only.
	CumulativeCash float64 `json:"cumulative_cash"`
	CumulativeCard float64 `json:"cumulative_card"`
	TotalMoney     float64 `json:"total_money"`
}

// DayRecord is one calendar day inside one branch's monthly ledger.
type DayRecord struct {
	Date    time.Time  `json:"date"`
	Inputs  DayInputs  `json:"inputs"`
	Derived DayDerived `json:"derived"`
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
