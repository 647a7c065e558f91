package explain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ksr-21/smartstock/internal/domain"
)

const chatSystemTemplate = `You are "SmartStock AI Assistant", a specialist in retail inventory optimization.

CURRENT SCENARIO CONTEXT:
%s

FULL INVENTORY DATA:
%s

YOUR GOAL:
1. Answer the retailer's questions about inventory risks and opportunities.
2. Suggest specific restock or pricing strategies based on the current "What-If" scenario.
3. Be concise, actionable, and encouraging.
4. Use a professional yet helpful tone.`

// ForecastPrompt asks for a short rationale behind one product's restock figure.
func ForecastPrompt(p domain.Product, f domain.ForecastResult) string {
	var b strings.Builder
	b.WriteString("Act as a senior retail consultant. Explain this inventory forecast in simple, non-technical language.\n")
	fmt.Fprintf(&b, "Product: %s\n", p.Name)
	fmt.Fprintf(&b, "Current Stock: %s units\n", formatNumber(p.CurrentStock))
	fmt.Fprintf(&b, "Historical Avg Daily Sales: %s\n", formatNumber(f.HistoricalAvg))
	fmt.Fprintf(&b, "Forecasted Demand (7 Days): %d\n", f.PredictedDemand7Days)
	fmt.Fprintf(&b, "Recent Trend: %s%%\n", formatNumber(f.TrendPercentage))
	fmt.Fprintf(&b, "Suggested Restock: %d units\n\n", f.RecommendedRestock)
	b.WriteString("Structure your response:\n")
	b.WriteString("1. Why we recommend this restock quantity.\n")
	b.WriteString("2. The risk of doing nothing.\n")
	b.WriteString("3. Business context.\n")
	b.WriteString("Keep it under 80 words.")
	return b.String()
}

// SimulationPrompt asks for a strategic recommendation on a what-if scenario.
func SimulationPrompt(scenario string, a domain.ScenarioAssessment) string {
	var b strings.Builder
	b.WriteString("Act as a Business Strategy Advisor. I am running a \"What-If\" inventory simulation.\n")
	fmt.Fprintf(&b, "Scenario Description: %s\n", scenario)
	fmt.Fprintf(&b, "Impact: %d products at risk of stockout.\n", a.ProductsAtRisk)
	fmt.Fprintf(&b, "Total Capital Required for optimal restock: $%s.\n", formatAmount(a.TotalRestockCapital))
	fmt.Fprintf(&b, "System Calculated Risk Level: %s.\n\n", a.RiskLevel)
	b.WriteString("Task: Provide a 2-3 sentence strategic recommendation for the business owner.\n")
	b.WriteString("Focus on \"Explainability\": Why does this scenario create risk and how should they adapt (e.g. order early, increase safety stock)?")
	return b.String()
}

// ChatSystemPrompt embeds the scenario and a one-line summary per product.
func ChatSystemPrompt(scenario string, products []domain.Product, forecasts []domain.ForecastResult) string {
	restock := make(map[string]int, len(forecasts))
	for _, f := range forecasts {
		restock[f.ProductID] = f.RecommendedRestock
	}

	lines := make([]string, 0, len(products))
	for _, p := range products {
		lines = append(lines, fmt.Sprintf("%s: %s in stock, Rec: %d restock.", p.Name, formatNumber(p.CurrentStock), restock[p.ID]))
	}

	return fmt.Sprintf(chatSystemTemplate, scenario, strings.Join(lines, "\n"))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatAmount renders d with comma thousands separators and two decimals,
// dropping the decimals when they are zero. Example: 1234.5 => "1,234.50".
func formatAmount(d decimal.Decimal) string {
	d = d.Round(2)
	neg := d.IsNegative()
	if neg {
		d = d.Neg()
	}

	intPart := d.Truncate(0)
	fracPart := d.Sub(intPart).Shift(2).IntPart()

	s := intPart.String()
	if len(s) > 3 {
		var buf []byte
		count := 0
		for i := len(s) - 1; i >= 0; i-- {
			buf = append(buf, s[i])
			count++
			if count == 3 && i != 0 {
				buf = append(buf, ',')
				count = 0
			}
		}
		for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
			buf[i], buf[j] = buf[j], buf[i]
		}
		s = string(buf)
	}

	prefix := ""
	if neg {
		prefix = "-"
	}

	if fracPart == 0 {
		return prefix + s
	}
	return fmt.Sprintf("%s%s.%02d", prefix, s, fracPart)
}
