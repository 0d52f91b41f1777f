package models

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var ledgerExportHeadings = []string{
	"Date",
	"System amount Cash", "System amount Card",
	"entered cash amount", "Card amount",
	"Cashouts", "system cashouts", "Petty cash", "SuperPay sent",
	"Employee advances", "Transportation Goods", "Transportation Allowance",
	"Cleaning", "Internet", "Cleaning supplies", "Bills", "Others",
	"Total System Sales", "Total Sales", "Cash", "Cash Deficit", "Card Deficit",
	"SuperPay expected", "SuperPay diff", "net cash",
	"Accumulative cash", "Accumulative card", "Total Money",
	"Closed By", "Closed At",
}

// ExportLedgerXLSX renders one branch's month — ledger plus its audit
// trail — as a workbook with a Ledger sheet and a ChangeLog sheet.
func ExportLedgerXLSX(ctx context.Context, branchId int, period string) (*excelize.File, error) {
	rows, err := FetchLedger(ctx, branchId, period)
	if err != nil {
		return nil, err
	}
	logs, err := GetChangeLogs(ctx, branchId, period)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const ledgerSheet = "Ledger"
	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, err
	}

	for col, h := range ledgerExportHeadings {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(ledgerSheet, cell, h)
	}
	for i, r := range rows {
		closedAt := ""
		if r.ClosedAt != nil {
			closedAt = r.ClosedAt.Format("2006-01-02 15:04:05")
		}
		values := []interface{}{
			r.ClosureDate.Format("2006-01-02"),
			r.SystemCash, r.SystemCard,
			r.EnteredCash, r.EnteredCard,
			r.CashOuts, r.SystemCashOuts, r.PettyCash, r.SuperPaySent,
			r.EmployeeAdvances, r.TransportationGoods, r.TransportationAllowance,
			r.Cleaning, r.Internet, r.CleaningSupplies, r.Bills, r.Others,
			r.TotalSystemSales, r.TotalSales, r.CashOnHand, r.CashDeficit, r.CardDeficit,
			r.SuperPayExpected, r.SuperPayDiff, r.NetCash,
			r.CumulativeCash, r.CumulativeCard, r.TotalMoney,
			r.ClosedBy, closedAt,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(ledgerSheet, cell, v)
		}
	}

	const logSheet = "ChangeLog"
	if _, err := f.NewSheet(logSheet); err != nil {
		return nil, err
	}
	logHeadings := []string{"Timestamp", "User", "Date", "Changed Fields", "Before", "After"}
	for col, h := range logHeadings {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(logSheet, cell, h)
	}
	for i, l := range logs {
		values := []interface{}{
			l.CreatedAt.Format("2006-01-02 15:04:05"),
			l.UserName,
			l.ClosureDate.Format("2006-01-02"),
			l.ChangedFields,
			l.Before,
			l.After,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(logSheet, cell, v)
		}
	}

	return f, nil
}

// ExportFilename names the download, e.g. "closures_3_2025-08.xlsx".
func ExportFilename(branchId int, period string) string {
	return fmt.Sprintf("closures_%d_%s.xlsx", branchId, period)
}
