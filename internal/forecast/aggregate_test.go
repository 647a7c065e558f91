package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ksr-21/smartstock/internal/domain"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		sales  []domain.SalesRecord
		expect SalesWindow
	}{
		{
			name:   "no records",
			sales:  nil,
			expect: SalesWindow{},
		},
		{
			name:   "fewer than a window",
			sales:  daily("P001", 1, 2, 3),
			expect: SalesWindow{RecentAvg: 2, PriorAvg: 2, RecentCount: 3},
		},
		{
			name:   "exactly one window falls back to recent",
			sales:  daily("P001", 6, 10, 7, 9, 8, 8, 8),
			expect: SalesWindow{RecentAvg: 8, PriorAvg: 8, RecentCount: 7},
		},
		{
			name:   "partial prior window",
			sales:  daily("P001", append(repeat(4, 3), repeat(8, 7)...)...),
			expect: SalesWindow{RecentAvg: 8, PriorAvg: 4, RecentCount: 7, PriorCount: 3},
		},
		{
			name:   "older records beyond both windows are ignored",
			sales:  daily("P001", append(append(repeat(100, 5), repeat(7, 7)...), repeat(8, 7)...)...),
			expect: SalesWindow{RecentAvg: 8, PriorAvg: 7, RecentCount: 7, PriorCount: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Aggregate("P001", tt.sales))
		})
	}
}

func TestAggregateIgnoresOtherProducts(t *testing.T) {
	sales := append(daily("P001", repeat(5, 7)...), daily("P002", repeat(50, 7)...)...)

	w := Aggregate("P001", sales)

	assert.Equal(t, 5.0, w.RecentAvg)
	assert.True(t, w.HasSales())
	assert.False(t, Aggregate("P999", sales).HasSales())
}

func TestAggregateOrderIndependent(t *testing.T) {
	sales := daily("P001", append(repeat(3, 7), 9, 9, 9, 9, 9, 9, 9)...)

	assert.Equal(t, Aggregate("P001", sales), Aggregate("P001", reversed(sales)))
}

func TestSortByRecencyIsStable(t *testing.T) {
	sales := []domain.SalesRecord{
		{ProductID: "P001", Date: day0.AddDate(0, 0, -1), UnitsSold: 1},
		{ProductID: "P001", Date: day0, UnitsSold: 2},
		{ProductID: "P001", Date: day0, UnitsSold: 3},
	}

	SortByRecency(sales)

	assert.Equal(t, []float64{2, 3, 1}, []float64{sales[0].UnitsSold, sales[1].UnitsSold, sales[2].UnitsSold})
}

func TestIndexSales(t *testing.T) {
	sales := append(daily("P002", 1, 2), daily("P001", 3, 4)...)

	index := IndexSales(sales)

	assert.Len(t, index, 2)
	assert.Equal(t, 2.0, index["P002"][0].UnitsSold)
	assert.Equal(t, 4.0, index["P001"][0].UnitsSold)
}

func TestTrendPercentage(t *testing.T) {
	assert.Equal(t, 0.0, TrendPercentage(5, 0))
	assert.Equal(t, 100.0, TrendPercentage(8, 4))
	assert.Equal(t, -50.0, TrendPercentage(4, 8))
	assert.InDelta(t, 14.2857, TrendPercentage(8, 7), 0.0001)
	assert.Equal(t, 2.0, TrendAdjustment(100))
}
