package analytics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

const (
	// DefaultHistoricalReturn is the long-run annual return assumed for holdings without one.
	DefaultHistoricalReturn = 0.07
	// DefaultForwardReturn is the forecast annual return assumed for holdings without one.
	DefaultForwardReturn = 0.08
)

// HistoricalExpectedReturn blends each holding's assumed long-run annual return,
// weighted by its share of total value. Holdings without an assumption use fallback.
// An empty set yields 0. A non-empty set with zero total value yields ErrZeroTotalValue.
func HistoricalExpectedReturn(holdings []model.Holding, fallback float64) (float64, error) {
	if len(holdings) == 0 {
		return 0, nil
	}

	values := make([]float64, len(holdings))
	assumed := make([]float64, len(holdings))
	for i, h := range holdings {
		values[i] = h.CurrentValue
		assumed[i] = fallback
		if h.HistoricalReturn != nil {
			assumed[i] = *h.HistoricalReturn
		}
	}

	weights, err := valueWeights(values)
	if err != nil {
		return 0, err
	}
	return floats.Dot(weights, assumed), nil
}

// ForwardExpectedReturn blends each holding's forward forecast return, weighted
// by its share of total value. Holdings without a forecast use fallback.
// An empty set yields 0. A non-empty set with zero total value yields ErrZeroTotalValue.
func ForwardExpectedReturn(holdings []model.Holding, fallback float64) (float64, error) {
	if len(holdings) == 0 {
		return 0, nil
	}

	values := make([]float64, len(holdings))
	forecast := make([]float64, len(holdings))
	for i, h := range holdings {
		values[i] = h.CurrentValue
		forecast[i] = fallback
		if h.ForecastReturn != nil {
			forecast[i] = *h.ForecastReturn
		}
	}

	weights, err := valueWeights(values)
	if err != nil {
		return 0, err
	}
	return floats.Dot(weights, forecast), nil
}

// valueWeights returns each value's share of their sum. The input is not modified.
func valueWeights(values []float64) ([]float64, error) {
	total := floats.Sum(values)
	if total == 0 {
		return nil, apperrors.ErrZeroTotalValue
	}
	weights := make([]float64, len(values))
	floats.ScaleTo(weights, 1/total, values)
	return weights, nil
}
