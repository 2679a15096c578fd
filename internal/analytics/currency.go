package analytics

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// RateTable maps a currency code to the number of units of that currency
// equal to one unit of the base currency.
type RateTable map[string]float64

// Rate returns the rate for code. Lookups are case-insensitive.
func (t RateTable) Rate(code string) (float64, bool) {
	if rate, ok := t[code]; ok {
		return rate, true
	}
	rate, ok := t[strings.ToUpper(code)]
	return rate, ok
}

// Conversion describes what Normalize did with a value.
type Conversion int

const (
	// ConversionIdentity means source and base currency are the same.
	ConversionIdentity Conversion = iota
	// ConversionApplied means the value was divided by the source currency rate.
	ConversionApplied
	// ConversionRateMissing means no usable rate existed and the value was returned unchanged.
	ConversionRateMissing
)

func (c Conversion) String() string {
	switch c {
	case ConversionIdentity:
		return "identity"
	case ConversionApplied:
		return "applied"
	case ConversionRateMissing:
		return "rate_missing"
	default:
		return "unknown"
	}
}

// Normalize converts value from the from currency into the base currency.
//
// A missing, non-positive or non-finite rate leaves the value unchanged and
// reports ConversionRateMissing, so callers can tell it apart from
// ConversionIdentity. A non-finite value cannot be converted and is reported
// the same way.
func Normalize(value float64, from, base string, rates RateTable) (float64, Conversion) {
	if strings.EqualFold(strings.TrimSpace(from), strings.TrimSpace(base)) {
		return value, ConversionIdentity
	}

	rate, ok := rates.Rate(from)
	if !ok || !finite(rate) || rate <= 0 || !finite(value) {
		return value, ConversionRateMissing
	}

	converted, _ := decimal.NewFromFloat(value).Div(decimal.NewFromFloat(rate)).Float64()
	return converted, ConversionApplied
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
