package anomaly

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ksr-21/smartstock/internal/domain"
)

var today = time.Date(2024, time.April, 1, 15, 30, 0, 0, time.UTC)

// series builds daily records for productID, oldest first, ending the day
// before today.
func series(productID string, units ...float64) []domain.SalesRecord {
	out := make([]domain.SalesRecord, 0, len(units))
	for i, u := range units {
		out = append(out, domain.SalesRecord{
			ProductID: productID,
			Date:      today.AddDate(0, 0, i-len(units)),
			UnitsSold: u,
		})
	}
	return out
}

func flatTen() []float64 {
	return []float64{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}
}

func TestDetectLowStock(t *testing.T) {
	products := []domain.Product{
		{ID: "P002", CurrentStock: 5, MinStockLevel: 30, Unit: "pcs"},
		{ID: "P003", CurrentStock: 15, MinStockLevel: 10, Unit: "pcs"},
		{ID: "P004", CurrentStock: 12.5, MinStockLevel: 25, Unit: "pack"},
	}

	got := Detect(products, nil, today)

	require.Len(t, got, 2)
	assert.Equal(t, domain.Anomaly{
		ID:          "AN-P002-LOW",
		ProductID:   "P002",
		Type:        domain.AnomalyDrop,
		Severity:    domain.SeverityCritical,
		Description: "Extreme low stock alert. Currently at 5.00 pcs.",
		Date:        "2024-04-01",
	}, got[0])
	assert.Equal(t, "AN-P004-LOW", got[1].ID, "stock exactly at half the minimum is flagged")
}

func TestDetectSpike(t *testing.T) {
	products := []domain.Product{{ID: "P001", CurrentStock: 45, MinStockLevel: 20}}
	sales := series("P001", append(flatTen(), 50, 50, 50)...)

	got := Detect(products, sales, today)

	require.Len(t, got, 1)
	assert.Equal(t, domain.Anomaly{
		ID:          "AN-P001-SPIKE",
		ProductID:   "P001",
		Type:        domain.AnomalySpike,
		Severity:    domain.SeverityWarning,
		Description: "Unusual 80%+ increase in sales detected over the last 3 days.",
		Date:        "2024-04-01",
	}, got[0])
}

func TestDetectSpikeThreshold(t *testing.T) {
	products := []domain.Product{{ID: "P001", CurrentStock: 45, MinStockLevel: 20}}

	atThreshold := series("P001", append(flatTen(), 18, 18, 18)...)
	assert.Empty(t, Detect(products, atThreshold, today))

	above := series("P001", append(flatTen(), 18, 18, 19)...)
	assert.Len(t, Detect(products, above, today), 1)
}

func TestDetectSpikeUsesRecencyNotInputOrder(t *testing.T) {
	products := []domain.Product{{ID: "P001", CurrentStock: 45, MinStockLevel: 20}}
	sales := series("P001", append([]float64{50, 50, 50}, flatTen()...)...)

	assert.Empty(t, Detect(products, sales, today), "old peak followed by normal sales is not a spike")

	reversed := make([]domain.SalesRecord, len(sales))
	for i, s := range sales {
		reversed[len(sales)-1-i] = s
	}
	assert.Empty(t, Detect(products, reversed, today))
}

func TestDetectBothChecksInOrder(t *testing.T) {
	products := []domain.Product{{ID: "P002", CurrentStock: 2, MinStockLevel: 30, Unit: "pcs"}}
	sales := series("P002", append(flatTen(), 40, 40, 40)...)

	got := Detect(products, sales, today)

	require.Len(t, got, 2)
	assert.Equal(t, domain.AnomalyDrop, got[0].Type)
	assert.Equal(t, domain.AnomalySpike, got[1].Type)
}

func TestDetectShortHistory(t *testing.T) {
	products := []domain.Product{{ID: "P001", CurrentStock: 45, MinStockLevel: 20}}
	sales := series("P001", 5, 5, 5)

	assert.Len(t, Detect(products, sales, today), 1)
	assert.Empty(t, NewDetector(Options{RequireHistory: true}).Detect(products, sales, today))
}

func TestDetectNoSales(t *testing.T) {
	products := []domain.Product{{ID: "P001", CurrentStock: 45, MinStockLevel: 20}}

	got := Detect(products, nil, today)

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDetectIsStable(t *testing.T) {
	products := []domain.Product{
		{ID: "P001", CurrentStock: 1, MinStockLevel: 20},
		{ID: "P002", CurrentStock: 1, MinStockLevel: 20},
	}
	sales := append(series("P001", append(flatTen(), 30, 30, 30)...), series("P002", 1, 1)...)

	assert.Equal(t, Detect(products, sales, today), Detect(products, sales, today))
}
