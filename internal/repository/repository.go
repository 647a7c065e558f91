package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ksr-21/smartstock/internal/domain"
)

// ErrNotFound is returned when a product or order does not exist for the caller.
var ErrNotFound = errors.New("not found")

// ErrStaleStatus is returned when an order no longer has the status a
// transition was checked against.
var ErrStaleStatus = errors.New("order status changed concurrently")

// ProductRepository reads an owner's catalog.
type ProductRepository interface {
	ListProducts(ctx context.Context, ownerID string) ([]domain.Product, error)
	GetProduct(ctx context.Context, ownerID, productID string) (*domain.Product, error)
}

// SalesRepository reads an owner's sales history.
type SalesRepository interface {
	ListSales(ctx context.Context, ownerID string) ([]domain.SalesRecord, error)
}

// InventoryRepository applies stock movements.
type InventoryRepository interface {
	// Restock adds quantity to a product's stock and returns the updated product.
	Restock(ctx context.Context, ownerID, productID string, quantity float64) (*domain.Product, error)
	// Checkout decrements stock for every bill item (never below zero), stores
	// the bill and records one sale per item dated day.
	Checkout(ctx context.Context, bill domain.Bill, day time.Time) error
}

// OrderRepository stores supply orders between retailers and suppliers.
type OrderRepository interface {
	ListRetailerOrders(ctx context.Context, retailerID string) ([]domain.SupplyOrder, error)
	ListSupplierOrders(ctx context.Context, supplierID string) ([]domain.SupplyOrder, error)
	GetOrder(ctx context.Context, orderID string) (*domain.SupplyOrder, error)
	CreateOrder(ctx context.Context, order domain.SupplyOrder) error
	// TransitionStatus moves an order from one status to another in a single
	// step. It fails with ErrStaleStatus when the order is no longer in from.
	TransitionStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error
}

// ProfileRepository looks up account profiles.
type ProfileRepository interface {
	GetProfile(ctx context.Context, id string) (*domain.Profile, error)
	// SearchSuppliers matches term against business name and username,
	// case-insensitively. An empty term lists suppliers.
	SearchSuppliers(ctx context.Context, term string, limit int) ([]domain.Profile, error)
}
