// Package export renders ledger statements as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ledgerlens/internal/domain/ledger"
)

const sheetName = "Statement"

var statementHeaders = []string{
	"Posting Date", "Account", "Party Type", "Party",
	"Voucher Type", "Voucher No", "Debit", "Credit", "Balance", "Remarks",
}

// WriteStatementXLSX renders a running-balance statement into w.
func WriteStatementXLSX(stmt *ledger.Statement, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	title := fmt.Sprintf("%s — Ledger Statement %s to %s",
		stmt.Company,
		stmt.FromDate.Format("2006-01-02"),
		stmt.ToDate.Format("2006-01-02"))
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return fmt.Errorf("write title: %w", err)
	}

	for i, h := range statementHeaders {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, row := range stmt.Rows {
		rowNum := i + 4
		values := []any{
			row.PostingDate.Format("2006-01-02"),
			row.Account,
			row.PartyType,
			row.Party,
			row.VoucherType,
			row.VoucherNo,
			row.Debit.InexactFloat64(),
			row.Credit.InexactFloat64(),
			row.Balance.InexactFloat64(),
			row.Remarks,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", i, err)
			}
		}
	}

	totalRow := len(stmt.Rows) + 5
	totals := map[string]any{
		fmt.Sprintf("F%d", totalRow): "Totals",
		fmt.Sprintf("G%d", totalRow): stmt.TotalDebit.InexactFloat64(),
		fmt.Sprintf("H%d", totalRow): stmt.TotalCredit.InexactFloat64(),
		fmt.Sprintf("I%d", totalRow): stmt.ClosingBalance.InexactFloat64(),
	}
	for cell, v := range totals {
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("write totals: %w", err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "J", 16); err != nil {
		return fmt.Errorf("set column widths: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
