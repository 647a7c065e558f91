package forecast

// TrendPercentage is the unrounded percentage change from prior to recent.
// A zero prior yields a flat trend.
func TrendPercentage(recent, prior float64) float64 {
	if prior == 0 {
		return 0
	}
	return (recent - prior) / prior * 100
}

// TrendAdjustment converts a trend percentage into a demand factor.
func TrendAdjustment(trend float64) float64 {
	return 1 + trend/100
}
