package domain

import "github.com/shopspring/decimal"

// CategoryBoosts maps a product category to a demand multiplier.
type CategoryBoosts map[string]float64

// Boost returns the multiplier for category. Missing and non-positive
// entries resolve to 1.0.
func (b CategoryBoosts) Boost(category string) float64 {
	if v, ok := b[category]; ok && v > 0 {
		return v
	}
	return 1.0
}

// SpecialEvent is a festival or seasonal event that lifts demand for some categories.
type SpecialEvent struct {
	Name           string         `json:"name"`
	CategoryBoosts CategoryBoosts `json:"category_boosts"`
}

// Boost is nil-safe: no event means no boost.
func (e *SpecialEvent) Boost(category string) float64 {
	if e == nil {
		return 1.0
	}
	return e.CategoryBoosts.Boost(category)
}

// SimulationParams is an immutable what-if scenario snapshot.
type SimulationParams struct {
	DemandMultiplier  float64       `json:"demand_multiplier"`
	LeadTimeDelayDays int           `json:"lead_time_delay_days"`
	IsPromotionActive bool          `json:"is_promotion_active"`
	ActiveEvent       *SpecialEvent `json:"active_event,omitempty"`
}

// DefaultSimulation is the "business as usual" scenario.
func DefaultSimulation() SimulationParams {
	return SimulationParams{DemandMultiplier: 1.0}
}

// ForecastResult is derived per product on every call and never cached by the engine.
type ForecastResult struct {
	ProductID            string  `json:"product_id"`
	HistoricalAvg        float64 `json:"historical_avg"`
	PredictedDemand7Days int     `json:"predicted_demand_7_days"`
	TrendPercentage      float64 `json:"trend_percentage"`
	RecommendedRestock   int     `json:"recommended_restock"`
	Explanation          string  `json:"explanation,omitempty"`
}

// RiskLevel classifies how stressful a simulation scenario is.
type RiskLevel string

const (
	RiskStable   RiskLevel = "Stable"
	RiskElevated RiskLevel = "Elevated"
	RiskCritical RiskLevel = "Critical"
)

// ScenarioAssessment aggregates forecast results for a what-if scenario
type ScenarioAssessment struct {
	TotalRestockCapital decimal.Decimal `json:"total_restock_capital"`
	ProductsAtRisk      int             `json:"products_at_risk"`
	ImpactedProductIDs  []string        `json:"impacted_product_ids"`
	RiskLevel           RiskLevel       `json:"risk_level"`
}
