// Package anomaly flags products whose stock or sales pattern needs attention.
package anomaly

import (
	"fmt"
	"time"

	"github.com/ksr-21/smartstock/internal/domain"
	"github.com/ksr-21/smartstock/internal/forecast"
)

const (
	lowStockRatio = 0.5
	spikeRatio    = 1.8

	spikeRecentDays  = 3
	spikeHistoryDays = 10

	spikeDescription = "Unusual 80%+ increase in sales detected over the last 3 days."
)

// Options tunes the detector.
type Options struct {
	// RequireHistory skips the spike check for products whose history window
	// (ranks 4-13) is empty.
	RequireHistory bool
}

// Detector runs the low-stock and sales-spike checks. It holds no state
// between calls.
type Detector struct {
	opts Options
}

// NewDetector returns a Detector with the given options.
func NewDetector(opts Options) *Detector {
	return &Detector{opts: opts}
}

// Detect evaluates every product against sales and stamps anomalies with
// today's date. Output follows product order, low stock before spike. The
// result is never nil.
func (d *Detector) Detect(products []domain.Product, sales []domain.SalesRecord, today time.Time) []domain.Anomaly {
	date := today.Format(domain.DateLayout)
	index := forecast.IndexSales(sales)

	anomalies := make([]domain.Anomaly, 0)
	for _, p := range products {
		if a, ok := lowStock(p, date); ok {
			anomalies = append(anomalies, a)
		}
		if a, ok := d.spike(p, index[p.ID], date); ok {
			anomalies = append(anomalies, a)
		}
	}

	return anomalies
}

// Detect runs a default Detector.
func Detect(products []domain.Product, sales []domain.SalesRecord, today time.Time) []domain.Anomaly {
	return NewDetector(Options{}).Detect(products, sales, today)
}

func lowStock(p domain.Product, date string) (domain.Anomaly, bool) {
	if p.CurrentStock > p.MinStockLevel*lowStockRatio {
		return domain.Anomaly{}, false
	}

	return domain.Anomaly{
		ID:          fmt.Sprintf("AN-%s-LOW", p.ID),
		ProductID:   p.ID,
		Type:        domain.AnomalyDrop,
		Severity:    domain.SeverityCritical,
		Description: fmt.Sprintf("Extreme low stock alert. Currently at %.2f %s.", p.CurrentStock, p.Unit),
		Date:        date,
	}, true
}

// spike compares the average of the three most recent records with the
// average of the ten before them. history must be ordered newest first.
func (d *Detector) spike(p domain.Product, history []domain.SalesRecord, date string) (domain.Anomaly, bool) {
	recent, _ := meanOf(history, 0, spikeRecentDays)
	past, n := meanOf(history, spikeRecentDays, spikeHistoryDays)

	if d.opts.RequireHistory && n == 0 {
		return domain.Anomaly{}, false
	}
	if !(recent > past*spikeRatio) {
		return domain.Anomaly{}, false
	}

	return domain.Anomaly{
		ID:          fmt.Sprintf("AN-%s-SPIKE", p.ID),
		ProductID:   p.ID,
		Type:        domain.AnomalySpike,
		Severity:    domain.SeverityWarning,
		Description: spikeDescription,
		Date:        date,
	}, true
}

// meanOf averages up to size records from rank from, dividing by the number
// found floored at 1.
func meanOf(history []domain.SalesRecord, from, size int) (float64, int) {
	if from >= len(history) {
		return 0, 0
	}
	end := min(from+size, len(history))

	var sum float64
	for _, r := range history[from:end] {
		sum += r.UnitsSold
	}
	n := end - from
	return sum / float64(max(1, n)), n
}
