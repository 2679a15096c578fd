package analytics

import "math"

// RoundingPrecision is the multiplier used to round percentages to two decimals.
const RoundingPrecision = 100.0

// round rounds a float64 value to two decimal places using "round half away
// from zero" via math.Round.
//
// Example:
//
//	round(123.456789)  // returns 123.46
//	round(1.994)       // returns 1.99
func round(value float64) float64 {
	return math.Round(value*RoundingPrecision) / RoundingPrecision
}
