package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/repository"
)

var allowedTransitions = map[domain.OrderStatus][]domain.OrderStatus{
	domain.OrderPending:  {domain.OrderAccepted, domain.OrderShipped, domain.OrderCancelled},
	domain.OrderAccepted: {domain.OrderShipped, domain.OrderCancelled},
	domain.OrderShipped:  {domain.OrderDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to domain.OrderStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// PlaceOrderRequest asks a supplier to restock one product. A zero Quantity
// orders the forecast's recommended restock.
type PlaceOrderRequest struct {
	RetailerID string  `json:"-"`
	SupplierID string  `json:"supplier_id" binding:"required"`
	ProductID  string  `json:"product_id" binding:"required"`
	Quantity   float64 `json:"quantity"`
}

type OrderService struct {
	orders    repository.OrderRepository
	profiles  repository.ProfileRepository
	forecasts *ForecastService
}

func NewOrderService(orders repository.OrderRepository, profiles repository.ProfileRepository, forecasts *ForecastService) *OrderService {
	return &OrderService{orders: orders, profiles: profiles, forecasts: forecasts}
}

// List returns the owner's orders from the side matching role.
func (s *OrderService) List(ctx context.Context, ownerID string, role domain.UserRole) ([]domain.SupplyOrder, error) {
	if role == domain.RoleSupplier {
		return s.orders.ListSupplierOrders(ctx, ownerID)
	}
	return s.orders.ListRetailerOrders(ctx, ownerID)
}

// UpdateStatus moves an order to the status named by label.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, label string) (*domain.SupplyOrder, error) {
	status, err := domain.ParseOrderStatus(label)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !CanTransition(order.Status, status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, order.Status, status)
	}

	if err := s.orders.TransitionStatus(ctx, orderID, order.Status, status); err != nil {
		if errors.Is(err, repository.ErrStaleStatus) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		}
		return nil, err
	}

	log.Info().
		Str("order_id", orderID).
		Str("from", string(order.Status)).
		Str("to", string(status)).
		Msg("supply order status updated")

	order.Status = status
	return order, nil
}

// Place creates a PENDING order from a retailer to a supplier.
func (s *OrderService) Place(ctx context.Context, req PlaceOrderRequest, now time.Time) (*domain.SupplyOrder, error) {
	if req.Quantity < 0 {
		return nil, ErrInvalidQuantity
	}

	retailer, err := s.profiles.GetProfile(ctx, req.RetailerID)
	if err != nil {
		return nil, fmt.Errorf("retailer %s: %w", req.RetailerID, err)
	}

	supplier, err := s.profiles.GetProfile(ctx, req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier %s: %w", req.SupplierID, err)
	}
	if supplier.Role != domain.RoleSupplier {
		return nil, ErrNotSupplier
	}

	product, result, err := s.forecasts.ProductForecast(ctx, req.RetailerID, req.ProductID, 0, domain.DefaultSimulation())
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = float64(result.RecommendedRestock)
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	order := domain.SupplyOrder{
		ID:                   uuid.NewString(),
		RetailerID:           retailer.ID,
		RetailerBusinessName: retailer.BusinessName,
		SupplierID:           supplier.ID,
		SupplierBusinessName: supplier.BusinessName,
		ProductID:            product.ID,
		ProductName:          product.Name,
		Quantity:             quantity,
		Unit:                 product.Unit,
		Status:               domain.OrderPending,
		CreatedAt:            now.UTC(),
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	return &order, nil
}

// SearchSuppliers lists supplier accounts matching term.
func (s *OrderService) SearchSuppliers(ctx context.Context, term string, limit int) ([]domain.Profile, error) {
	return s.profiles.SearchSuppliers(ctx, strings.TrimSpace(term), limit)
}

// ContactLink builds a WhatsApp link pre-filled with a restock request for
// the product's recommended quantity.
func (s *OrderService) ContactLink(ctx context.Context, ownerID, productID string) (string, error) {
	product, result, err := s.forecasts.ProductForecast(ctx, ownerID, productID, 0, domain.DefaultSimulation())
	if err != nil {
		return "", err
	}
	return SupplierContactLink(*product, result)
}

// SupplierContactLink renders the restock message for p as a wa.me link.
func SupplierContactLink(p domain.Product, f domain.ForecastResult) (string, error) {
	phone := ""
	if p.SupplierPhone != nil {
		phone = digitsOnly(*p.SupplierPhone)
	}
	if phone == "" {
		return "", ErrNoSupplierPhone
	}

	name := "Supplier"
	if p.SupplierName != nil && *p.SupplierName != "" {
		name = *p.SupplierName
	}

	message := fmt.Sprintf("Hello %s, I would like to order %d %s of %s (Ref: SmartStock AI). Please confirm availability.",
		name, f.RecommendedRestock, p.Unit, p.Name)

	return "https://wa.me/" + phone + "?text=" + url.QueryEscape(message), nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
