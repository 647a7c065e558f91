package forecast

import "math"

// MaxUnits bounds every whole-unit quantity the engine reports.
const MaxUnits = math.MaxInt32

// roundFloat rounds v to the given number of decimal places. Negative zero is
// reported as zero.
func roundFloat(v float64, decimals int) float64 {
	var r float64
	if decimals <= 0 {
		r = math.Round(v)
	} else {
		factor := math.Pow(10, float64(decimals))
		r = math.Round(v*factor) / factor
	}

	if r == 0 {
		return 0
	}
	return r
}

// ceilInt rounds v up to the next whole unit, saturating to [0, MaxUnits].
// NaN maps to 0.
func ceilInt(v float64) int {
	c := math.Ceil(v)
	switch {
	case math.IsNaN(c) || c <= 0:
		return 0
	case c >= MaxUnits:
		return MaxUnits
	}
	return int(c)
}
