package prices

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Prices"

var exportHeader = []any{
	"Record", "Date", "Supplier", "Category", "Product ID", "Product",
	"Unit price", "Price per area", "Cash discount %", "Note",
}

// Export writes the ledger as an XLSX workbook with one row per product
// line, newest records first.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	records, err := s.ListAll(ctx)
	if err != nil {
		return err
	}
	f, err := buildWorkbook(records)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export prices: write workbook: %w", err)
	}
	return nil
}

func buildWorkbook(records []Record) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("export prices: rename sheet: %w", err)
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("export prices: header: %w", err)
	}

	row := 2
	for _, rec := range records {
		for _, p := range rec.Products {
			values := []any{
				rec.ID, rec.Date, rec.SupplierID, rec.Category, p.ProductID, p.Name,
				p.UnitPrice, optional(p.PricePerArea), optional(rec.CashDiscountPercent), "",
			}
			if rec.Note != nil {
				values[9] = *rec.Note
			}
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("export prices: %w", err)
			}
			if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("export prices: row %d: %w", row, err)
			}
			row++
		}
	}
	return f, nil
}

func optional(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
