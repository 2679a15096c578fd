package analytics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

// PeriodPerformance computes the daily, monthly and yearly percentage change of
// current against the quote's last close, month-ago and year-ago prices.
// Figures are rounded to two decimals. A zero baseline gives an undefined figure.
func PeriodPerformance(current float64, quote model.PriceSnapshot) model.PeriodReturns {
	return model.PeriodReturns{
		Daily:   change(current, quote.LastClose),
		Monthly: change(current, quote.MonthAgo),
		Yearly:  change(current, quote.YearAgo),
	}
}

func change(current, baseline float64) model.Percent {
	if baseline == 0 {
		return model.Percent{}
	}
	return model.PercentOf(round((current - baseline) / baseline * 100))
}

// WeightedPeriodReturns pairs a holding's value with its period performance.
type WeightedPeriodReturns struct {
	Value   float64
	Returns model.PeriodReturns
}

// AggregatePerformance value-weights per-holding period performance into
// portfolio-level figures. The same holding set must have produced the
// per-holding figures, since weights are derived from the values passed here.
//
// Undefined per-holding figures contribute nothing while their weight stays in
// the total. A period is undefined only when no holding has a figure for it.
// An empty input yields undefined figures; a zero total value yields ErrZeroTotalValue.
func AggregatePerformance(items []WeightedPeriodReturns) (model.PeriodReturns, error) {
	if len(items) == 0 {
		return model.PeriodReturns{}, nil
	}

	values := make([]float64, len(items))
	for i, it := range items {
		values[i] = it.Value
	}
	weights, err := valueWeights(values)
	if err != nil {
		return model.PeriodReturns{}, err
	}

	return model.PeriodReturns{
		Daily:   blend(weights, items, func(r model.PeriodReturns) model.Percent { return r.Daily }),
		Monthly: blend(weights, items, func(r model.PeriodReturns) model.Percent { return r.Monthly }),
		Yearly:  blend(weights, items, func(r model.PeriodReturns) model.Percent { return r.Yearly }),
	}, nil
}

func blend(weights []float64, items []WeightedPeriodReturns, period func(model.PeriodReturns) model.Percent) model.Percent {
	figures := make([]float64, len(items))
	defined := false
	for i, it := range items {
		p := period(it.Returns)
		if p.Valid {
			figures[i] = p.Value
			defined = true
		}
	}
	if !defined {
		return model.Percent{}
	}
	return model.PercentOf(floats.Dot(weights, figures))
}
