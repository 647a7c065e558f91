package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/forecast"
)

const restockPriorityLimit = 5

type OverviewService struct {
	forecasts *ForecastService
	anomalies *AnomalyService
}

func NewOverviewService(forecasts *ForecastService, anomalies *AnomalyService) *OverviewService {
	return &OverviewService{forecasts: forecasts, anomalies: anomalies}
}

// Overview summarises stock value, low-stock items, critical alerts and the
// first products needing a restock under business-as-usual demand.
func (s *OverviewService) Overview(ctx context.Context, ownerID string, role domain.UserRole, today time.Time) (*domain.InventoryOverview, error) {
	snap, err := s.forecasts.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	alerts, err := s.anomalies.FeedFor(ctx, ownerID, role, snap, today)
	if err != nil {
		return nil, err
	}

	out := &domain.InventoryOverview{
		ProductCount:      len(snap.Products),
		TotalStockValue:   decimal.Zero,
		RestockPriorities: []domain.ForecastResult{},
		Alerts:            alerts,
	}

	for _, p := range snap.Products {
		value := decimal.NewFromFloat(p.CurrentStock).Mul(decimal.NewFromFloat(p.UnitPrice))
		out.TotalStockValue = out.TotalStockValue.Add(value)
		if p.CurrentStock <= p.MinStockLevel {
			out.LowStockCount++
		}
	}
	out.TotalStockValue = out.TotalStockValue.Round(2)

	for _, a := range alerts {
		if a.Severity == domain.SeverityCritical {
			out.CriticalAlerts++
		}
	}

	results := forecast.ForecastAll(snap.Products, snap.Sales, s.forecasts.DefaultHorizon(), domain.DefaultSimulation())
	for _, r := range results {
		if len(out.RestockPriorities) == restockPriorityLimit {
			break
		}
		if r.RecommendedRestock > 0 {
			out.RestockPriorities = append(out.RestockPriorities, r)
		}
	}

	return out, nil
}
