// Package export writes the invoice history to spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/diewo77/invoicer/internal/models"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Invoices"

var headers = []any{"Invoice No", "Client", "Date", "Total"}

// WriteXLSX writes one row per invoice, after a header row, to w.
func WriteXLSX(w io.Writer, rows []models.InvoiceSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return err
	}
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return err
	}
	style, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{r.Number, r.ClientName, r.InvoiceDate, r.Total}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return err
		}
	}
	if len(rows) > 0 {
		last := fmt.Sprintf("D%d", len(rows)+1)
		if err := f.SetCellStyle(SheetName, "D2", last, style); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetName, "A", "B", 24); err != nil {
		return err
	}
	return f.Write(w)
}
