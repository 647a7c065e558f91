package snapshot

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ksr-21/smartstock/internal/domain"
)

// Write renders products and sales in the layout Open reads back.
func Write(w io.Writer, products []domain.Product, sales []domain.SalesRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ProductsSheet); err != nil {
		return fmt.Errorf("failed to name products sheet: %w", err)
	}
	if _, err := f.NewSheet(SalesSheet); err != nil {
		return fmt.Errorf("failed to add sales sheet: %w", err)
	}

	productRows := make([][]interface{}, 0, len(products))
	for _, p := range products {
		productRows = append(productRows, []interface{}{
			p.ID, p.Name, p.Category, p.CurrentStock, p.MinStockLevel,
			p.LeadTimeDays, p.UnitPrice, p.Unit, deref(p.SupplierName), deref(p.SupplierPhone),
		})
	}
	if err := writeSheet(f, ProductsSheet, productHeaders, productRows); err != nil {
		return err
	}

	salesRows := make([][]interface{}, 0, len(sales))
	for _, s := range sales {
		salesRows = append(salesRows, []interface{}{
			s.ProductID, s.Date.Format(domain.DateLayout), s.UnitsSold, strconv.FormatBool(s.IsPromotion),
		})
	}
	if err := writeSheet(f, SalesSheet, salesHeaders, salesRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}) error {
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
