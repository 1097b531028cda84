// Package export renders invoice lists as XLSX workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/invoxa/invoice-manager/internal/models"
)

const sheetName = "Invoices"

var headers = []string{
	"Date",
	"Vendor",
	"Invoice Number",
	"Amount",
	"Currency",
	"Category",
	"Department",
	"Status",
	"Description",
}

// InvoicesXLSX builds an XLSX workbook from the given invoices and
// returns the file bytes.
func InvoicesXLSX(invoices []models.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for row, inv := range invoices {
		write := func(col int, v any) error {
			cell, err := excelize.CoordinatesToCellName(col, row+2)
			if err != nil {
				return err
			}
			return f.SetCellValue(sheetName, cell, v)
		}

		values := []any{
			inv.Date.Format("2006-01-02"),
			derefOr(inv.Vendor, ""),
			derefOr(inv.InvoiceNumber, ""),
			inv.Amount,
			derefOr(inv.Currency, ""),
			categoryName(inv.Category),
			departmentName(inv.Department),
			inv.Status,
			truncate(inv.Description, 140),
		}

		for col, v := range values {
			if err := write(col+1, v); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 28)
	f.SetColWidth(sheetName, "C", "C", 18)
	f.SetColWidth(sheetName, "D", "E", 12)
	f.SetColWidth(sheetName, "F", "G", 18)
	f.SetColWidth(sheetName, "H", "H", 12)
	f.SetColWidth(sheetName, "I", "I", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func derefOr(s *string, fallback string) string {
	if s != nil {
		return *s
	}
	return fallback
}

func categoryName(c *models.Category) string {
	if c == nil {
		return ""
	}
	return c.Name
}

func departmentName(d *models.Department) string {
	if d == nil {
		return ""
	}
	return d.Name
}

// truncate caps s at n runes, ending in an ellipsis. Counting runes
// rather than bytes keeps multibyte characters intact.
func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
