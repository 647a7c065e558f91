// Package snapshot loads an inventory snapshot from an XLSX workbook so the
// engine can run without a database.
package snapshot

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/repository"
)

const (
	ProductsSheet = "products"
	SalesSheet    = "sales"
)

var (
	productHeaders = []string{
		"id", "name", "category", "current_stock", "min_stock_level",
		"lead_time_days", "unit_price", "unit", "supplier_name", "supplier_phone",
	}
	salesHeaders = []string{"product_id", "date", "units_sold", "is_promotion"}
)

// Workbook is an in-memory snapshot of one owner's products and sales. The
// owner argument of the repository methods is ignored.
type Workbook struct {
	products []domain.Product
	sales    []domain.SalesRecord
}

var (
	_ repository.ProductRepository = (*Workbook)(nil)
	_ repository.SalesRepository   = (*Workbook)(nil)
)

// Open reads the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	return load(f)
}

// Read parses a workbook from r.
func Read(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read xlsx: %w", err)
	}
	defer f.Close()

	return load(f)
}

func load(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{}

	err := eachRow(f, ProductsSheet, func(line int, row map[string]string) error {
		p, err := parseProduct(row)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", ProductsSheet, line, err)
		}
		wb.products = append(wb.products, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachRow(f, SalesSheet, func(line int, row map[string]string) error {
		s, err := parseSale(row)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", SalesSheet, line, err)
		}
		wb.sales = append(wb.sales, s)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return wb, nil
}

func (w *Workbook) ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	out := make([]domain.Product, len(w.products))
	copy(out, w.products)
	return out, nil
}

func (w *Workbook) GetProduct(ctx context.Context, ownerID, productID string) (*domain.Product, error) {
	for _, p := range w.products {
		if p.ID == productID {
			p := p
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (w *Workbook) ListSales(ctx context.Context, ownerID string) ([]domain.SalesRecord, error) {
	out := make([]domain.SalesRecord, len(w.sales))
	copy(out, w.sales)
	return out, nil
}

// eachRow calls fn for every non-blank data row of sheet, keyed by the
// lowercased header of the first row. line is 1-based as shown in Excel.
func eachRow(f *excelize.File, sheet string, fn func(line int, row map[string]string) error) error {
	rows, err := f.Rows(sheet)
	if err != nil {
		return fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var headers []string
	line := 0
	for rows.Next() {
		line++
		cols, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("failed to read row %d of %s: %w", line, sheet, err)
		}

		if headers == nil {
			for _, c := range cols {
				headers = append(headers, strings.ToLower(strings.TrimSpace(c)))
			}
			continue
		}

		if blank(cols) {
			continue
		}

		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(cols) {
				row[h] = strings.TrimSpace(cols[i])
			}
		}
		if err := fn(line, row); err != nil {
			return err
		}
	}

	if err := rows.Error(); err != nil {
		return fmt.Errorf("error iterating rows in %s: %w", sheet, err)
	}
	if headers == nil {
		return fmt.Errorf("sheet %s is empty", sheet)
	}

	return nil
}

func blank(cols []string) bool {
	for _, c := range cols {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func parseProduct(row map[string]string) (domain.Product, error) {
	p := domain.Product{
		ID:       row["id"],
		Name:     row["name"],
		Category: row["category"],
		Unit:     row["unit"],
	}
	if p.ID == "" {
		return p, fmt.Errorf("missing id")
	}

	var err error
	if p.CurrentStock, err = parseFloat(row, "current_stock"); err != nil {
		return p, err
	}
	if p.MinStockLevel, err = parseFloat(row, "min_stock_level"); err != nil {
		return p, err
	}
	if p.UnitPrice, err = parseFloat(row, "unit_price"); err != nil {
		return p, err
	}
	lead, err := parseFloat(row, "lead_time_days")
	if err != nil {
		return p, err
	}
	p.LeadTimeDays = int(lead)

	if v := row["supplier_name"]; v != "" {
		p.SupplierName = &v
	}
	if v := row["supplier_phone"]; v != "" {
		p.SupplierPhone = &v
	}

	return p, nil
}

func parseSale(row map[string]string) (domain.SalesRecord, error) {
	s := domain.SalesRecord{ProductID: row["product_id"]}
	if s.ProductID == "" {
		return s, fmt.Errorf("missing product_id")
	}

	date, err := parseDate(row["date"])
	if err != nil {
		return s, err
	}
	s.Date = date

	if s.UnitsSold, err = parseFloat(row, "units_sold"); err != nil {
		return s, err
	}

	switch strings.ToLower(row["is_promotion"]) {
	case "1", "true", "yes", "y":
		s.IsPromotion = true
	}

	return s, nil
}

func parseFloat(row map[string]string, key string) (float64, error) {
	v := strings.ReplaceAll(row[key], ",", "")
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, row[key], err)
	}
	return f, nil
}

// parseDate accepts ISO dates and raw Excel serial numbers.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(domain.DateLayout, v); err == nil {
		return t, nil
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q: %w", v, err)
		}
		return t.Truncate(24 * time.Hour), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", v)
}
