package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ksr-21/smartstock/internal/demo"
	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/explain"
	"github.com/ksr-21/smartstock/internal/repository"
)

// memStore is an in-memory implementation of every repository interface for
// a single owner.
type memStore struct {
	products []domain.Product
	sales    []domain.SalesRecord
	orders   []domain.SupplyOrder
	profiles map[string]domain.Profile
	bills    []domain.Bill

	salesErr error

	// mu guards order status reads and transitions.
	mu sync.Mutex
}

func newMemStore() *memStore {
	return &memStore{profiles: map[string]domain.Profile{}}
}

func (m *memStore) ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error) {
	return append([]domain.Product(nil), m.products...), nil
}

func (m *memStore) GetProduct(ctx context.Context, ownerID, productID string) (*domain.Product, error) {
	for _, p := range m.products {
		if p.ID == productID {
			p := p
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) ListSales(ctx context.Context, ownerID string) ([]domain.SalesRecord, error) {
	if m.salesErr != nil {
		return nil, m.salesErr
	}
	return append([]domain.SalesRecord(nil), m.sales...), nil
}

func (m *memStore) Restock(ctx context.Context, ownerID, productID string, quantity float64) (*domain.Product, error) {
	for i := range m.products {
		if m.products[i].ID == productID {
			m.products[i].CurrentStock += quantity
			p := m.products[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) Checkout(ctx context.Context, bill domain.Bill, day time.Time) error {
	for _, item := range bill.Items {
		for i := range m.products {
			if m.products[i].ID == item.ProductID {
				m.products[i].CurrentStock = max(0, m.products[i].CurrentStock-item.Quantity)
			}
		}
		m.sales = append(m.sales, domain.SalesRecord{ProductID: item.ProductID, Date: day, UnitsSold: item.Quantity})
	}
	m.bills = append(m.bills, bill)
	return nil
}

func (m *memStore) ListRetailerOrders(ctx context.Context, retailerID string) ([]domain.SupplyOrder, error) {
	var out []domain.SupplyOrder
	for _, o := range m.orders {
		if o.RetailerID == retailerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) ListSupplierOrders(ctx context.Context, supplierID string) ([]domain.SupplyOrder, error) {
	var out []domain.SupplyOrder
	for _, o := range m.orders {
		if o.SupplierID == supplierID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) GetOrder(ctx context.Context, orderID string) (*domain.SupplyOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders {
		if o.ID == orderID {
			o := o
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) CreateOrder(ctx context.Context, o domain.SupplyOrder) error {
	m.orders = append(m.orders, o)
	return nil
}

func (m *memStore) TransitionStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.orders {
		if m.orders[i].ID == orderID {
			if m.orders[i].Status != from {
				return repository.ErrStaleStatus
			}
			m.orders[i].Status = to
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memStore) GetProfile(ctx context.Context, id string) (*domain.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) SearchSuppliers(ctx context.Context, term string, limit int) ([]domain.Profile, error) {
	var out []domain.Profile
	for _, p := range m.profiles {
		if p.Role == domain.RoleSupplier {
			out = append(out, p)
		}
	}
	return out, nil
}

var errBoom = errors.New("boom")

type fixedGenerator string

func (g fixedGenerator) Generate(context.Context, string, string) (string, error) {
	return string(g), nil
}

var today = time.Date(2024, time.March, 31, 9, 0, 0, 0, time.UTC)

// flatStore holds the demo catalog with 14 days of flat sales at 8 units for
// P001 and 10 for everything else.
func flatStore() *memStore {
	m := newMemStore()
	m.products = demo.Products()
	for _, p := range m.products {
		units := 10.0
		if p.ID == "P001" {
			units = 8
		}
		for i := 0; i < 14; i++ {
			m.sales = append(m.sales, domain.SalesRecord{ProductID: p.ID, Date: today.AddDate(0, 0, -i), UnitsSold: units})
		}
	}
	return m
}

func newForecastService(m *memStore, answer string) *ForecastService {
	return NewForecastService(m, m, explain.NewService(fixedGenerator(answer), nil, nil), 7)
}
