package forecast

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ksr-21/smartstock/internal/domain"
)

// Risk thresholds for a simulation scenario.
const (
	criticalMultiplier = 1.8
	elevatedMultiplier = 1.3
	criticalDelayDays  = 3
	elevatedDelayDays  = 1
)

// AssessScenario summarises forecasts produced under sim. forecasts are
// matched to products by ProductID; products without a forecast are ignored.
func AssessScenario(products []domain.Product, forecasts []domain.ForecastResult, sim domain.SimulationParams) domain.ScenarioAssessment {
	byID := make(map[string]domain.ForecastResult, len(forecasts))
	for _, f := range forecasts {
		byID[f.ProductID] = f
	}

	assessment := domain.ScenarioAssessment{
		TotalRestockCapital: decimal.Zero,
		ImpactedProductIDs:  []string{},
		RiskLevel:           RiskLevelFor(sim),
	}

	for _, p := range products {
		f, ok := byID[p.ID]
		if !ok {
			continue
		}

		capital := decimal.NewFromInt(int64(f.RecommendedRestock)).Mul(decimal.NewFromFloat(p.UnitPrice))
		assessment.TotalRestockCapital = assessment.TotalRestockCapital.Add(capital)

		if p.CurrentStock < float64(f.PredictedDemand7Days) {
			assessment.ProductsAtRisk++
			assessment.ImpactedProductIDs = append(assessment.ImpactedProductIDs, p.ID)
		}
	}

	assessment.TotalRestockCapital = assessment.TotalRestockCapital.Round(2)
	return assessment
}

// RiskLevelFor classifies the scenario itself, independent of stock levels.
func RiskLevelFor(sim domain.SimulationParams) domain.RiskLevel {
	switch {
	case sim.DemandMultiplier > criticalMultiplier,
		sim.LeadTimeDelayDays >= criticalDelayDays,
		sim.ActiveEvent != nil:
		return domain.RiskCritical
	case sim.DemandMultiplier > elevatedMultiplier,
		sim.LeadTimeDelayDays >= elevatedDelayDays:
		return domain.RiskElevated
	default:
		return domain.RiskStable
	}
}

// Describe renders sim as the plain-text scenario summary shown to advisors.
func Describe(sim domain.SimulationParams) string {
	promotion := "None"
	if sim.IsPromotionActive {
		promotion = "ACTIVE (+40%)"
	}

	event := "Standard Operations"
	if sim.ActiveEvent != nil {
		event = sim.ActiveEvent.Name
	}

	var b strings.Builder
	b.WriteString("Current Simulation:\n")
	fmt.Fprintf(&b, "- Demand Multiplier: %d%%\n", int(math.Round(sim.DemandMultiplier*100)))
	fmt.Fprintf(&b, "- Supply Delay: %d days\n", sim.LeadTimeDelayDays)
	fmt.Fprintf(&b, "- Promotion Status: %s\n", promotion)
	fmt.Fprintf(&b, "- Special Event: %s", event)
	return b.String()
}
