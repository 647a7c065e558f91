package forecast

import "github.com/ksr-21/smartstock/internal/domain"

// PromotionMultiplier is the flat uplift applied while a promotion runs.
const PromotionMultiplier = 1.4

// MaxDemandMultiplier is the largest demand multiplier a scenario may ask for.
const MaxDemandMultiplier = 100.0

// Multipliers are the independent scenario factors for one product.
type Multipliers struct {
	Demand    float64
	Promotion float64
	Event     float64
}

// ResolveMultipliers derives the scenario factors for product p under sim.
func ResolveMultipliers(p domain.Product, sim domain.SimulationParams) Multipliers {
	m := Multipliers{
		Demand:    sim.DemandMultiplier,
		Promotion: 1.0,
		Event:     sim.ActiveEvent.Boost(p.Category),
	}
	if sim.IsPromotionActive {
		m.Promotion = PromotionMultiplier
	}
	return m
}

// Combined is the composite scenario multiplier.
func (m Multipliers) Combined() float64 {
	return m.Demand * m.Promotion * m.Event
}

// apply scales base by each factor in turn, matching the engine's evaluation order.
func (m Multipliers) apply(base float64) float64 {
	return base * m.Demand * m.Promotion * m.Event
}
