package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/repository"
)

// CheckoutItem is one scanned line at the point of sale.
type CheckoutItem struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity"`
}

type InventoryService struct {
	products  repository.ProductRepository
	inventory repository.InventoryRepository
}

func NewInventoryService(products repository.ProductRepository, inventory repository.InventoryRepository) *InventoryService {
	return &InventoryService{products: products, inventory: inventory}
}

// Restock adds received units to a product.
func (s *InventoryService) Restock(ctx context.Context, ownerID, productID string, quantity float64) (*domain.Product, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	return s.inventory.Restock(ctx, ownerID, productID, quantity)
}

// Checkout prices items from the catalog, stores the bill and records the
// sales against now's date.
func (s *InventoryService) Checkout(ctx context.Context, ownerID string, items []CheckoutItem, now time.Time) (*domain.Bill, error) {
	if len(items) == 0 {
		return nil, ErrEmptyBill
	}

	catalog, err := s.products.ListProducts(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	bill := &domain.Bill{
		ID:        "BILL-" + uuid.NewString(),
		OwnerID:   ownerID,
		CreatedAt: now.UTC(),
		Total:     decimal.Zero,
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%s: %w", item.ProductID, ErrInvalidQuantity)
		}
		p, ok := byID[item.ProductID]
		if !ok {
			return nil, fmt.Errorf("product %s: %w", item.ProductID, repository.ErrNotFound)
		}

		price := decimal.NewFromFloat(p.UnitPrice)
		bill.Items = append(bill.Items, domain.BillItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			Price:     price,
		})
		bill.Total = bill.Total.Add(price.Mul(decimal.NewFromFloat(item.Quantity)))
	}
	bill.Total = bill.Total.Round(2)

	if err := s.inventory.Checkout(ctx, *bill, now); err != nil {
		return nil, err
	}

	return bill, nil
}
