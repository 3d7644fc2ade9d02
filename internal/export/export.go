// Package export writes ledger data to Excel workbooks for sharing with
// accountants and channel support staff.
package export

import (
	"fmt"
	"time"

	"github.com/tawahcm/soquy/internal/ledger"
	"github.com/tawahcm/soquy/internal/models"
	"github.com/tawahcm/soquy/internal/reconcile"
	"github.com/xuri/excelize/v2"
)

const ledgerSheet = "So quy"

// Ledger writes the merged entries to an .xlsx file, one row per entry,
// amounts signed the way the ledger view shows them.
func Ledger(path string, entries []ledger.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", ledgerSheet)

	headers := []string{"Ngày", "Loại", "Số tiền", "Danh mục", "Ví", "Ghi chú", "Trạng thái"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(ledgerSheet, cell, h)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetRowStyle(ledgerSheet, 1, 1, bold)
	}

	for row, e := range entries {
		r := row + 2
		wallet := e.Tx.Wallet
		if e.Tx.Type == models.TxTransfer {
			wallet = e.Tx.FromWallet + " -> " + e.Tx.ToWallet
		}
		status := "Đã xác nhận"
		if e.Pending {
			status = "Chờ sync"
		}
		values := []any{
			e.EffectiveAt.Format("02/01/2006 15:04"),
			string(e.Tx.Type),
			int64(e.Tx.Type.Sign()) * e.Tx.Amount,
			e.Tx.Category,
			wallet,
			e.Tx.Note,
			status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			f.SetCellValue(ledgerSheet, cell, v)
		}
	}

	f.SetColWidth(ledgerSheet, "A", "A", 18)
	f.SetColWidth(ledgerSheet, "C", "C", 14)
	f.SetColWidth(ledgerSheet, "D", "F", 22)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

const reconcileSheet = "Doi soat"

// Reconciliation writes a reconciliation report: a summary block followed
// by the matched entries.
func Reconciliation(path string, rep *reconcile.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", reconcileSheet)

	summary := [][]any{
		{"Kênh", string(rep.Channel)},
		{"Từ ngày", rep.From.Format("02/01/2006")},
		{"Đến ngày", rep.To.AddDate(0, 0, -1).Format("02/01/2006")},
		{"Kênh báo", rep.Reported},
		{"Sổ ghi nhận", rep.Recorded},
		{"Chênh lệch", rep.Difference},
	}
	for i, pair := range summary {
		f.SetCellValue(reconcileSheet, fmt.Sprintf("A%d", i+1), pair[0])
		f.SetCellValue(reconcileSheet, fmt.Sprintf("B%d", i+1), pair[1])
	}

	headerRow := len(summary) + 2
	headers := []string{"Ngày", "Số tiền", "Danh mục", "Ghi chú"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		f.SetCellValue(reconcileSheet, cell, h)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		f.SetRowStyle(reconcileSheet, headerRow, headerRow, bold)
	}

	for i, e := range rep.Matched {
		r := headerRow + 1 + i
		values := []any{
			e.EffectiveAt.Format("02/01/2006 15:04"),
			e.Tx.Amount,
			e.Tx.Category,
			e.Tx.Note,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, r)
			f.SetCellValue(reconcileSheet, cell, v)
		}
	}

	f.SetColWidth(reconcileSheet, "A", "A", 18)
	f.SetColWidth(reconcileSheet, "B", "B", 14)
	f.SetColWidth(reconcileSheet, "C", "D", 24)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

// DefaultFilename builds a timestamped export name like
// soquy-doisoat-grabfood-20260828.xlsx.
func DefaultFilename(kind string, at time.Time) string {
	return fmt.Sprintf("soquy-%s-%s.xlsx", kind, at.Format("20060102"))
}
