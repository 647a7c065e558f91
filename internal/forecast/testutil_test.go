package forecast

import (
	"time"

	"github.com/ksr-21/smartstock/internal/domain"
)

var day0 = time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)

// daily builds one record per day for productID, oldest first, the last
// record dated day0.
func daily(productID string, units ...float64) []domain.SalesRecord {
	records := make([]domain.SalesRecord, 0, len(units))
	for i, u := range units {
		records = append(records, domain.SalesRecord{
			ProductID: productID,
			Date:      day0.AddDate(0, 0, i-len(units)+1),
			UnitsSold: u,
		})
	}
	return records
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func reversed(records []domain.SalesRecord) []domain.SalesRecord {
	out := make([]domain.SalesRecord, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}

func coffee() domain.Product {
	return domain.Product{
		ID:            "P001",
		Name:          "Organic Coffee Beans",
		Category:      "Grocery",
		CurrentStock:  45,
		MinStockLevel: 20,
		LeadTimeDays:  3,
		UnitPrice:     18.50,
		Unit:          "kg",
	}
}
