package forecast

import (
	"sort"

	"github.com/ksr-21/smartstock/internal/domain"
)

const (
	// DefaultRecentWindow is the number of most recent records averaged as "recent".
	DefaultRecentWindow = 7
	// DefaultPriorWindow is the number of records immediately before the recent window.
	DefaultPriorWindow = 7
)

// SalesWindow holds the recent and prior averages for one product.
type SalesWindow struct {
	RecentAvg   float64
	PriorAvg    float64
	RecentCount int
	PriorCount  int
}

// HasSales reports whether any record fed the recent window.
func (w SalesWindow) HasSales() bool {
	return w.RecentCount > 0
}

// Aggregate reduces productID's records in sales (any order) into recent and
// prior averages using the default window sizes.
func Aggregate(productID string, sales []domain.SalesRecord) SalesWindow {
	return AggregateWindows(productID, sales, DefaultRecentWindow, DefaultPriorWindow)
}

// AggregateWindows is Aggregate with explicit window sizes.
func AggregateWindows(productID string, sales []domain.SalesRecord, recent, prior int) SalesWindow {
	return aggregateSorted(salesFor(productID, sales), recent, prior)
}

// aggregateSorted expects history already ordered most recent first.
func aggregateSorted(history []domain.SalesRecord, recent, prior int) SalesWindow {
	var w SalesWindow
	w.RecentAvg, w.RecentCount = windowAverage(history, 0, recent)
	if w.RecentCount == 0 {
		return w
	}

	w.PriorAvg, w.PriorCount = windowAverage(history, recent, prior)
	if w.PriorCount == 0 {
		// Short histories get a neutral trend.
		w.PriorAvg = w.RecentAvg
	}

	return w
}

// windowAverage averages up to size records starting at rank from. The
// divisor is the number of records actually found, floored at 1.
func windowAverage(history []domain.SalesRecord, from, size int) (float64, int) {
	if from >= len(history) || size <= 0 {
		return 0, 0
	}

	end := from + size
	if end > len(history) {
		end = len(history)
	}

	var sum float64
	for _, r := range history[from:end] {
		sum += r.UnitsSold
	}

	n := end - from
	return sum / float64(max(1, n)), n
}

// salesFor returns a fresh slice of productID's records ordered by recency.
func salesFor(productID string, sales []domain.SalesRecord) []domain.SalesRecord {
	var out []domain.SalesRecord
	for _, s := range sales {
		if s.ProductID == productID {
			out = append(out, s)
		}
	}
	SortByRecency(out)
	return out
}

// SortByRecency orders records by date, newest first. Records sharing a date
// keep their encounter order.
func SortByRecency(records []domain.SalesRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.After(records[j].Date)
	})
}

// IndexSales groups sales by product, each group ordered by recency. It is
// equivalent to filtering and sorting per product, done in one pass.
func IndexSales(sales []domain.SalesRecord) map[string][]domain.SalesRecord {
	index := make(map[string][]domain.SalesRecord)
	for _, s := range sales {
		index[s.ProductID] = append(index[s.ProductID], s)
	}
	for _, records := range index {
		SortByRecency(records)
	}
	return index
}
