package service

import (
	"context"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/explain"
	"github.com/ksr-21/smartstock/internal/forecast"
	"github.com/ksr-21/smartstock/internal/repository"
)

// Simulation is the result of a what-if run.
type Simulation struct {
	Params     domain.SimulationParams   `json:"params"`
	Scenario   string                    `json:"scenario"`
	Forecasts  []domain.ForecastResult   `json:"forecasts"`
	Assessment domain.ScenarioAssessment `json:"assessment"`
	Insight    string                    `json:"insight,omitempty"`
}

type ForecastService struct {
	products       repository.ProductRepository
	sales          repository.SalesRepository
	explainer      *explain.Service
	defaultHorizon int
}

// NewForecastService builds the service. A non-positive defaultHorizon uses
// forecast.DefaultHorizonDays.
func NewForecastService(products repository.ProductRepository, sales repository.SalesRepository, explainer *explain.Service, defaultHorizon int) *ForecastService {
	if defaultHorizon <= 0 {
		defaultHorizon = forecast.DefaultHorizonDays
	}
	return &ForecastService{
		products:       products,
		sales:          sales,
		explainer:      explainer,
		defaultHorizon: defaultHorizon,
	}
}

// DefaultHorizon is the horizon used when callers pass zero.
func (s *ForecastService) DefaultHorizon() int {
	return s.defaultHorizon
}

func (s *ForecastService) horizon(h int) int {
	if h <= 0 {
		return s.defaultHorizon
	}
	return h
}

// Snapshot returns the owner's products and sales.
func (s *ForecastService) Snapshot(ctx context.Context, ownerID string) (Snapshot, error) {
	return loadSnapshot(ctx, s.products, s.sales, ownerID)
}

// Forecasts returns one result per product, in catalog order.
func (s *ForecastService) Forecasts(ctx context.Context, ownerID string, horizon int, sim domain.SimulationParams) ([]domain.ForecastResult, error) {
	snap, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return forecast.ForecastAll(snap.Products, snap.Sales, s.horizon(horizon), sim), nil
}

// Simulate forecasts under sim and assesses the scenario. withInsight asks the
// explanation service for a recommendation; it never fails the call.
func (s *ForecastService) Simulate(ctx context.Context, ownerID string, horizon int, sim domain.SimulationParams, withInsight bool) (*Simulation, error) {
	snap, err := s.Snapshot(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	results := forecast.ForecastAll(snap.Products, snap.Sales, s.horizon(horizon), sim)
	out := &Simulation{
		Params:     sim,
		Scenario:   forecast.Describe(sim),
		Forecasts:  results,
		Assessment: forecast.AssessScenario(snap.Products, results, sim),
	}

	if withInsight && s.explainer != nil {
		out.Insight = s.explainer.SimulationInsight(ctx, out.Scenario, out.Assessment)
	}

	return out, nil
}

// ProductForecast forecasts a single product against the owner's full history.
func (s *ForecastService) ProductForecast(ctx context.Context, ownerID, productID string, horizon int, sim domain.SimulationParams) (*domain.Product, domain.ForecastResult, error) {
	p, err := s.products.GetProduct(ctx, ownerID, productID)
	if err != nil {
		return nil, domain.ForecastResult{}, err
	}

	sales, err := s.sales.ListSales(ctx, ownerID)
	if err != nil {
		return nil, domain.ForecastResult{}, err
	}

	return p, forecast.Forecast(*p, sales, s.horizon(horizon), sim), nil
}
