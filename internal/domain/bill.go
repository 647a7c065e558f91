package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillItem is one line of a point-of-sale checkout
type BillItem struct {
	ProductID string          `json:"product_id" db:"product_id"`
	Name      string          `json:"name" db:"name"`
	Quantity  float64         `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
}

// Bill is a completed checkout. Every item also becomes a SalesRecord for the
// checkout day.
type Bill struct {
	ID        string          `json:"id" db:"id"`
	OwnerID   string          `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	Items     []BillItem      `json:"items"`
	Total     decimal.Decimal `json:"total" db:"total"`
}
