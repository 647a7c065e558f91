// Package demo provides the sample catalog and sales history used to seed a
// fresh retailer account.
package demo

import (
	"math/rand"
	"time"

	"github.com/ksr-21/smartstock/internal/domain"
)

// HistoryDays is the number of days of generated sales, today included.
const HistoryDays = 31

// Products returns the five-item starter catalog.
func Products() []domain.Product {
	return []domain.Product{
		product("P001", "Organic Coffee Beans", "Grocery", 45, 20, 3, 18.50, "kg", "BeanDirect Co.", "1234567890"),
		product("P002", "Oat Milk - Barista Edition", "Dairy", 12, 30, 2, 4.20, "pcs", "PureDairy Ltd", "0987654321"),
		product("P003", "Sourdough Bread", "Bakery", 15, 10, 1, 6.00, "pcs", "Local Oven", "1122334455"),
		product("P004", "Avocado (Bulk Pack)", "Produce", 80, 25, 4, 12.00, "pack", "GreenEarth Farms", "5566778899"),
		product("P005", "Basmati Rice", "Grocery", 100, 20, 3, 3.50, "kg", "Global Grains", "1231231234"),
	}
}

func product(id, name, category string, stock, min float64, lead int, price float64, unit, supplier, phone string) domain.Product {
	return domain.Product{
		ID:            id,
		Name:          name,
		Category:      category,
		CurrentStock:  stock,
		MinStockLevel: min,
		LeadTimeDays:  lead,
		UnitPrice:     price,
		Unit:          unit,
		SupplierName:  &supplier,
		SupplierPhone: &phone,
	}
}

// Sales generates HistoryDays of sales per product ending on today. Daily
// units drift upward every ten days with a small random variance; P001 gets a
// promotion bump five days ago. The same seed yields the same history.
func Sales(products []domain.Product, today time.Time, seed int64) []domain.SalesRecord {
	rng := rand.New(rand.NewSource(seed))
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	sales := make([]domain.SalesRecord, 0, len(products)*HistoryDays)
	for _, p := range products {
		base := baseRate(p.ID)
		for i := HistoryDays - 1; i >= 0; i-- {
			variance := rng.Intn(5) - 2
			trend := (HistoryDays - 1 - i) / 10

			bonus := 0
			promo := p.ID == "P001" && i == 5
			if promo {
				bonus = 25
			}

			sales = append(sales, domain.SalesRecord{
				ProductID:   p.ID,
				Date:        day.AddDate(0, 0, -i),
				UnitsSold:   float64(max(0, base+variance+trend+bonus)),
				IsPromotion: promo,
			})
		}
	}

	return sales
}

func baseRate(productID string) int {
	switch productID {
	case "P001":
		return 8
	case "P002":
		return 12
	default:
		return 10
	}
}
