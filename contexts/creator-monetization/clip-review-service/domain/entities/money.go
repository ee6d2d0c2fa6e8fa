package entities

import "math"

// ViewsPerRateUnit is the denominator of the payout formula: program rates are
// quoted in dollars per 100,000 views.
const ViewsPerRateUnit = 100_000

func Round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}

// RevenueFor converts a view delta into money at the given rate. Negative
// deltas yield negative revenue (clawbacks).
func RevenueFor(viewsDelta int64, ratePer100K float64) float64 {
	return Round4((float64(viewsDelta) / ViewsPerRateUnit) * ratePer100K)
}
