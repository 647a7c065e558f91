package service

import (
	"context"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/explain"
	"github.com/ksr-21/smartstock/internal/forecast"
)

// ExplainService attaches advisor text to forecasts and answers chat
// questions. Numbers always come from the engine.
type ExplainService struct {
	forecasts *ForecastService
	explainer *explain.Service
}

func NewExplainService(forecasts *ForecastService, explainer *explain.Service) *ExplainService {
	return &ExplainService{forecasts: forecasts, explainer: explainer}
}

// ExplainProduct returns the product's forecast with Explanation filled.
func (s *ExplainService) ExplainProduct(ctx context.Context, ownerID, productID string, sim domain.SimulationParams) (domain.ForecastResult, error) {
	p, result, err := s.forecasts.ProductForecast(ctx, ownerID, productID, 0, sim)
	if err != nil {
		return domain.ForecastResult{}, err
	}

	result.Explanation = s.explainer.ExplainForecast(ctx, *p, result)
	return result, nil
}

// Chat answers message with the owner's inventory under sim as context.
func (s *ExplainService) Chat(ctx context.Context, ownerID, message string, sim domain.SimulationParams) (string, error) {
	snap, err := s.forecasts.Snapshot(ctx, ownerID)
	if err != nil {
		return "", err
	}

	results := forecast.ForecastAll(snap.Products, snap.Sales, s.forecasts.DefaultHorizon(), sim)
	return s.explainer.Chat(ctx, message, explain.ChatContext{
		Scenario:  forecast.Describe(sim),
		Products:  snap.Products,
		Forecasts: results,
	}), nil
}
