package models

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"bitbucket.org/mmdatafocus/closures_backend/config"
	"bitbucket.org/mmdatafocus/closures_backend/ledger"
)

// DayClosure is one register-closing day inside one branch's monthly
// ledger. Raw columns are what the operator typed; derived columns are
// recomputed by the ledger engine on every edit and never hand-written.
//
// NOTE: derived data can always be rebuilt from the raw columns (see
// cmd/recalc-backfill).
type DayClosure struct {
	ID          int       `gorm:"primary_key" json:"id"`
	BranchId    int       `gorm:"not null;uniqueIndex:idx_closure_branch_period_date,priority:1" json:"branch_id"`
	Branch      *Branch   `gorm:"foreignKey:BranchId" json:"branch,omitempty"`
	Period      string    `gorm:"size:7;not null;uniqueIndex:idx_closure_branch_period_date,priority:2" json:"period"`
	ClosureDate time.Time `gorm:"not null;uniqueIndex:idx_closure_branch_period_date,priority:3" json:"closure_date"`

	// raw inputs
	SystemCash              float64 `gorm:"type:decimal(20,2);default:0" json:"system_cash"`
	SystemCard              float64 `gorm:"type:decimal(20,2);default:0" json:"system_card"`
	EnteredCash             float64 `gorm:"type:decimal(20,2);default:0" json:"entered_cash"`
	EnteredCard             float64 `gorm:"type:decimal(20,2);default:0" json:"entered_card"`
	CashOuts                float64 `gorm:"type:decimal(20,2);default:0" json:"cash_outs"`
	SystemCashOuts          float64 `gorm:"type:decimal(20,2);default:0" json:"system_cash_outs"`
	PettyCash               float64 `gorm:"type:decimal(20,2);default:0" json:"petty_cash"`
	SuperPaySent            float64 `gorm:"type:decimal(20,2);default:0" json:"superpay_sent"`
	EmployeeAdvances        float64 `gorm:"type:decimal(20,2);default:0" json:"employee_advances"`
	TransportationGoods     float64 `gorm:"type:decimal(20,2);default:0" json:"transportation_goods"`
	TransportationAllowance float64 `gorm:"type:decimal(20,2);default:0" json:"transportation_allowance"`
	Cleaning                float64 `gorm:"type:decimal(20,2);default:0" json:"cleaning"`
	Internet                float64 `gorm:"type:decimal(20,2);default:0" json:"internet"`
	CleaningSupplies        float64 `gorm:"type:decimal(20,2);default:0" json:"cleaning_supplies"`
	Bills                   float64 `gorm:"type:decimal(20,2);default:0" json:"bills"`
	Others                  float64 `gorm:"type:decimal(20,2);default:0" json:"others"`

	// derived outputs
	TotalSystemSales float64 `gorm:"type:decimal(20,2);default:0" json:"total_system_sales"`
	TotalSales       float64 `gorm:"type:decimal(20,2);default:0" json:"total_sales"`
	CashOnHand       float64 `gorm:"type:decimal(20,2);default:0" json:"cash_on_hand"`
	CashDeficit      float64 `gorm:"type:decimal(20,2);default:0" json:"cash_deficit"`
	CardDeficit      float64 `gorm:"type:decimal(20,2);default:0" json:"card_deficit"`
	SuperPayExpected float64 `gorm:"type:decimal(20,2);default:0" json:"superpay_expected"`
	SuperPayDiff     float64 `gorm:"type:decimal(20,2);default:0" json:"superpay_diff"`
	NetCash          float64 `gorm:"type:decimal(20,2);default:0" json:"net_cash"`
	CumulativeCash   float64 `gorm:"type:decimal(20,2);default:0" json:"cumulative_cash"`
	CumulativeCard   float64 `gorm:"type:decimal(20,2);default:0" json:"cumulative_card"`
	TotalMoney       float64 `gorm:"type:decimal(20,2);default:0" json:"total_money"`

	ClosedBy  string     `gorm:"size:100" json:"closed_by"`
	ClosedAt  *time.Time `json:"closed_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidatePeriod checks a month key like "2025-08".
func ValidatePeriod(period string) error {
	if !periodPattern.MatchString(period) {
		return fmt.Errorf("period %q must look like YYYY-MM", period)
	}
	return nil
}

// Inputs maps the raw columns into the engine's input struct.
func (c *DayClosure) Inputs() ledger.DayInputs {
	return ledger.DayInputs{
		SystemCash:              c.SystemCash,
		SystemCard:              c.SystemCard,
		EnteredCash:             c.EnteredCash,
		EnteredCard:             c.EnteredCard,
		CashOuts:                c.CashOuts,
		SystemCashOuts:          c.SystemCashOuts,
		PettyCash:               c.PettyCash,
		SuperPaySent:            c.SuperPaySent,
		EmployeeAdvances:        c.EmployeeAdvances,
		TransportationGoods:     c.TransportationGoods,
		TransportationAllowance: c.TransportationAllowance,
		Cleaning:                c.Cleaning,
		Internet:                c.Internet,
		CleaningSupplies:        c.CleaningSupplies,
		Bills:                   c.Bills,
		Others:                  c.Others,
	}
}

// SetInputs writes the engine's raw inputs back into the row.
func (c *DayClosure) SetInputs(in ledger.DayInputs) {
	c.SystemCash = in.SystemCash
	c.SystemCard = in.SystemCard
	c.EnteredCash = in.EnteredCash
	c.EnteredCard = in.EnteredCard
	c.CashOuts = in.CashOuts
	c.SystemCashOuts = in.SystemCashOuts
	c.PettyCash = in.PettyCash
	c.SuperPaySent = in.SuperPaySent
	c.EmployeeAdvances = in.EmployeeAdvances
	c.TransportationGoods = in.TransportationGoods
	c.TransportationAllowance = in.TransportationAllowance
	c.Cleaning = in.Cleaning
	c.Internet = in.Internet
	c.CleaningSupplies = in.CleaningSupplies
	c.Bills = in.Bills
	c.Others = in.Others
}

// SetDerived writes the recomputed outputs back into the row.
func (c *DayClosure) SetDerived(d ledger.DayDerived) {
	c.TotalSystemSales = d.TotalSystemSales
	c.TotalSales = d.TotalSales
	c.CashOnHand = d.CashOnHand
	c.CashDeficit = d.CashDeficit
	c.CardDeficit = d.CardDeficit
	c.SuperPayExpected = d.SuperPayExpected
	c.SuperPayDiff = d.SuperPayDiff
	c.NetCash = d.NetCash
	c.CumulativeCash = d.CumulativeCash
	c.CumulativeCard = d.CumulativeCard
	c.TotalMoney = d.TotalMoney
}

// DayRecord converts the row into the engine's propagation unit.
func (c *DayClosure) DayRecord() ledger.DayRecord {
	return ledger.DayRecord{
		Date:   c.ClosureDate,
		Inputs: c.Inputs(),
		Derived: ledger.DayDerived{
			TotalSystemSales: c.TotalSystemSales,
			TotalSales:       c.TotalSales,
			CashOnHand:       c.CashOnHand,
			CashDeficit:      c.CashDeficit,
			CardDeficit:      c.CardDeficit,
			SuperPayExpected: c.SuperPayExpected,
			SuperPayDiff:     c.SuperPayDiff,
			NetCash:          c.NetCash,
			CumulativeCash:   c.CumulativeCash,
			CumulativeCard:   c.CumulativeCard,
			TotalMoney:       c.TotalMoney,
		},
	}
}

// FetchLedger reads one branch's whole month, ordered by date ascending.
// The engine relies on this ordering; the unique index forbids duplicates.
func FetchLedger(ctx context.Context, branchId int, period string) ([]*DayClosure, error) {
	if err := ValidatePeriod(period); err != nil {
		return nil, err
	}
	db := config.GetDB()
	var rows []*DayClosure
	err := db.WithContext(ctx).
		Where("branch_id = ? AND period = ?", branchId, period).
		Order("closure_date").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func toDayRecords(rows []*DayClosure) []ledger.DayRecord {
	out := make([]ledger.DayRecord, len(rows))
	for i, r := range rows {
		out[i] = r.DayRecord()
	}
	return out
}
