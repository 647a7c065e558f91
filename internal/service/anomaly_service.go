package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ksr-21/smartstock/internal/anomaly"
	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/notify"
	"github.com/ksr-21/smartstock/internal/repository"
)

type AnomalyService struct {
	products repository.ProductRepository
	sales    repository.SalesRepository
	orders   repository.OrderRepository
	detector *anomaly.Detector
}

// NewAnomalyService builds the feed service. orders may be nil when no order
// store is available; the feed then carries detector output only.
func NewAnomalyService(products repository.ProductRepository, sales repository.SalesRepository, orders repository.OrderRepository, detector *anomaly.Detector) *AnomalyService {
	if detector == nil {
		detector = anomaly.NewDetector(anomaly.Options{})
	}
	return &AnomalyService{
		products: products,
		sales:    sales,
		orders:   orders,
		detector: detector,
	}
}

// Feed returns detector anomalies for the owner, followed by order status
// changes when the owner is a retailer.
func (s *AnomalyService) Feed(ctx context.Context, ownerID string, role domain.UserRole, today time.Time) ([]domain.Anomaly, error) {
	snap, err := loadSnapshot(ctx, s.products, s.sales, ownerID)
	if err != nil {
		return nil, err
	}
	return s.FeedFor(ctx, ownerID, role, snap, today)
}

// FeedFor is Feed over an already loaded snapshot.
func (s *AnomalyService) FeedFor(ctx context.Context, ownerID string, role domain.UserRole, snap Snapshot, today time.Time) ([]domain.Anomaly, error) {
	base := s.detector.Detect(snap.Products, snap.Sales, today)
	if role != domain.RoleRetailer || s.orders == nil {
		return base, nil
	}

	orders, err := s.orders.ListRetailerOrders(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	return notify.Compose(role, base, orders), nil
}

// Notifications returns the latest order status changes for the drawer.
func (s *AnomalyService) Notifications(ctx context.Context, ownerID string, role domain.UserRole, today time.Time, limit int) ([]domain.Anomaly, error) {
	feed, err := s.Feed(ctx, ownerID, role, today)
	if err != nil {
		return nil, err
	}
	return notify.RecentStatusChanges(feed, limit), nil
}
