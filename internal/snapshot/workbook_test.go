package snapshot

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/repository"
)

func TestWriteThenRead(t *testing.T) {
	supplier := "BeanDirect Co."
	products := []domain.Product{
		{ID: "P001", Name: "Organic Coffee Beans", Category: "Grocery", CurrentStock: 45, MinStockLevel: 20, LeadTimeDays: 3, UnitPrice: 18.5, Unit: "kg", SupplierName: &supplier},
		{ID: "P002", Name: "Oat Milk - Barista Edition", Category: "Dairy", CurrentStock: 12.5, MinStockLevel: 30, LeadTimeDays: 2, UnitPrice: 4.2, Unit: "pcs"},
	}
	day := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	sales := []domain.SalesRecord{
		{ProductID: "P001", Date: day, UnitsSold: 8},
		{ProductID: "P002", Date: day.AddDate(0, 0, -1), UnitsSold: 12.5, IsPromotion: true},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, products, sales))

	wb, err := Read(&buf)
	require.NoError(t, err)

	ctx := context.Background()
	gotProducts, err := wb.ListProducts(ctx, "ignored")
	require.NoError(t, err)
	assert.Equal(t, products, gotProducts)

	gotSales, err := wb.ListSales(ctx, "ignored")
	require.NoError(t, err)
	assert.Equal(t, sales, gotSales)

	p, err := wb.GetProduct(ctx, "", "P002")
	require.NoError(t, err)
	assert.Equal(t, "Oat Milk - Barista Edition", p.Name)

	_, err = wb.GetProduct(ctx, "", "P999")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func buildWorkbook(t *testing.T, products, sales [][]interface{}) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", ProductsSheet))
	_, err := f.NewSheet(SalesSheet)
	require.NoError(t, err)

	for i, row := range products {
		row := row
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(ProductsSheet, cell, &row))
	}
	for i, row := range sales {
		row := row
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, f.SetSheetRow(SalesSheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestReadHeaderOrderAndSerialDates(t *testing.T) {
	buf := buildWorkbook(t,
		[][]interface{}{
			{"Name", "ID", "Current_Stock", "Min_Stock_Level", "Lead_Time_Days"},
			{"Sourdough Bread", "P003", "15", "10", "1"},
			{"", "", "", "", ""},
		},
		[][]interface{}{
			{"date", "units_sold", "product_id", "is_promotion"},
			{"45382", "1,200", "P003", "yes"},
		},
	)

	wb, err := Read(buf)
	require.NoError(t, err)

	products, _ := wb.ListProducts(context.Background(), "")
	require.Len(t, products, 1)
	assert.Equal(t, "P003", products[0].ID)
	assert.Equal(t, 15.0, products[0].CurrentStock)
	assert.Equal(t, 1, products[0].LeadTimeDays)

	sales, _ := wb.ListSales(context.Background(), "")
	require.Len(t, sales, 1)
	assert.Equal(t, "2024-03-31", sales[0].Date.Format(domain.DateLayout))
	assert.Equal(t, 1200.0, sales[0].UnitsSold)
	assert.True(t, sales[0].IsPromotion)
}

func TestReadRejectsBadRows(t *testing.T) {
	buf := buildWorkbook(t,
		[][]interface{}{{"id", "current_stock"}, {"P001", "lots"}},
		[][]interface{}{{"product_id", "date", "units_sold"}},
	)

	_, err := Read(buf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "products row 2")
	assert.Contains(t, err.Error(), "current_stock")
}

func TestReadRejectsBadDate(t *testing.T) {
	buf := buildWorkbook(t,
		[][]interface{}{{"id"}, {"P001"}},
		[][]interface{}{{"product_id", "date", "units_sold"}, {"P001", "yesterday", "3"}},
	)

	_, err := Read(buf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid date "yesterday"`)
}

func TestReadRequiresSheets(t *testing.T) {
	f := excelize.NewFile()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	_, err := Read(&buf)

	assert.Error(t, err)
}
