package forecast

import (
	"math"

	"github.com/ksr-21/smartstock/internal/domain"
)

// DefaultHorizonDays is the forecast horizon used by the dashboard.
const DefaultHorizonDays = 7

// Forecast projects demand for product p over horizonDays under sim and
// recommends a restock quantity. sales may hold records for any product in
// any order; only p's records are used.
//
// Intermediate values keep full precision. HistoricalAvg and TrendPercentage
// are rounded only when copied into the result.
func Forecast(p domain.Product, sales []domain.SalesRecord, horizonDays int, sim domain.SimulationParams) domain.ForecastResult {
	return forecastSorted(p, salesFor(p.ID, sales), horizonDays, sim)
}

// ForecastAll forecasts every product, preserving product order. Sales are
// indexed once for the whole batch.
func ForecastAll(products []domain.Product, sales []domain.SalesRecord, horizonDays int, sim domain.SimulationParams) []domain.ForecastResult {
	index := IndexSales(sales)

	results := make([]domain.ForecastResult, 0, len(products))
	for _, p := range products {
		results = append(results, forecastSorted(p, index[p.ID], horizonDays, sim))
	}

	return results
}

func forecastSorted(p domain.Product, history []domain.SalesRecord, horizonDays int, sim domain.SimulationParams) domain.ForecastResult {
	window := aggregateSorted(history, DefaultRecentWindow, DefaultPriorWindow)
	if !window.HasSales() {
		return domain.ForecastResult{
			ProductID:          p.ID,
			RecommendedRestock: ceilInt(math.Max(0, p.MinStockLevel)),
		}
	}

	trend := TrendPercentage(window.RecentAvg, window.PriorAvg)

	// Factors are applied left to right so results are reproducible to the bit.
	base := window.RecentAvg * float64(horizonDays) * TrendAdjustment(trend)
	predicted := ceilInt(ResolveMultipliers(p, sim).apply(base))

	effectiveLeadTime := float64(p.LeadTimeDays + sim.LeadTimeDelayDays)
	daily := float64(predicted) / float64(max(1, horizonDays))
	safety := ceilInt(daily * effectiveLeadTime)

	restock := ceilInt(math.Max(0, float64(predicted+safety)-p.CurrentStock))

	return domain.ForecastResult{
		ProductID:            p.ID,
		HistoricalAvg:        roundFloat(window.RecentAvg, 2),
		PredictedDemand7Days: predicted,
		TrendPercentage:      roundFloat(trend, 1),
		RecommendedRestock:   restock,
	}
}
