package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the day-granularity format used for sales and anomaly dates.
const DateLayout = "2006-01-02"

// Product represents a catalog item owned by a retailer or supplier
type Product struct {
	ID            string  `json:"id" db:"id"`
	OwnerID       string  `json:"owner_id,omitempty" db:"owner_id"`
	Name          string  `json:"name" db:"name"`
	Category      string  `json:"category" db:"category"`
	CurrentStock  float64 `json:"current_stock" db:"current_stock"`
	MinStockLevel float64 `json:"min_stock_level" db:"min_stock_level"`
	LeadTimeDays  int     `json:"lead_time_days" db:"lead_time_days"`
	UnitPrice     float64 `json:"unit_price" db:"unit_price"`
	Unit          string  `json:"unit" db:"unit"`
	SupplierName  *string `json:"supplier_name,omitempty" db:"supplier_name"`
	SupplierPhone *string `json:"supplier_phone,omitempty" db:"supplier_phone"`
	SupplierID    *string `json:"supplier_id,omitempty" db:"supplier_id"`
}

// SalesRecord is a single day's sales entry for a product. Several records
// may share a product and date; they are never merged.
type SalesRecord struct {
	ProductID   string    `json:"product_id" db:"product_id"`
	Date        time.Time `json:"date" db:"sale_date"`
	UnitsSold   float64   `json:"units_sold" db:"units_sold"`
	IsPromotion bool      `json:"is_promotion,omitempty" db:"is_promotion"`
}

// InventoryOverview is the headline card data for an owner's dashboard
type InventoryOverview struct {
	ProductCount      int              `json:"product_count"`
	TotalStockValue   decimal.Decimal  `json:"total_stock_value"`
	LowStockCount     int              `json:"low_stock_count"`
	CriticalAlerts    int              `json:"critical_alerts"`
	RestockPriorities []ForecastResult `json:"restock_priorities"`
	Alerts            []Anomaly        `json:"alerts"`
}
