package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"psrental-backend/internal/domain"
)

const (
	sheetSummary      = "Ringkasan"
	sheetDaily        = "Harian"
	sheetTransactions = "Transaksi"
)

var transactionHeaders = []any{"ID", "Tanggal", "Jenis", "Paket", "Pelanggan", "Telepon", "Alamat", "Jumlah", "Status Bayar", "Status"}

// WriteXLSX renders the summary, the daily series and the transaction list as a
// three-sheet workbook.
func WriteXLSX(w io.Writer, summary Summary, series []DayPoint, txs []domain.Transaction, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	for _, name := range []string{sheetDaily, sheetTransactions} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	rows := [][]any{
		{"Periode", string(summary.Period)},
		{"Total Pendapatan", summary.TotalRevenue},
		{"Jumlah Transaksi", summary.TransactionCount},
		{},
		{"Jenis", "Pendapatan", "Jumlah", "Persentase"},
	}
	for _, b := range summary.Breakdown {
		rows = append(rows, []any{b.Label, b.Revenue, b.Count, b.Percentage})
	}
	if err := writeRows(f, sheetSummary, rows); err != nil {
		return err
	}

	rows = [][]any{{"Tanggal", "Hari", "Pendapatan", "Transaksi"}}
	for _, p := range series {
		rows = append(rows, []any{p.Date, p.Weekday, p.Revenue, p.Count})
	}
	if err := writeRows(f, sheetDaily, rows); err != nil {
		return err
	}

	rows = [][]any{transactionHeaders}
	for _, t := range txs {
		pkg := ""
		if t.Package != nil {
			pkg = string(*t.Package)
		}
		rows = append(rows, []any{
			t.ID,
			t.Date.In(loc).Format("2006-01-02 15:04"),
			typeLabels[t.Type],
			pkg,
			t.CustomerName,
			t.CustomerPhone,
			t.Location.Address,
			t.Amount,
			string(t.PaymentStatus),
			string(t.Status),
		})
	}
	if err := writeRows(f, sheetTransactions, rows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for r, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, r+1, err)
		}
	}
	return nil
}
