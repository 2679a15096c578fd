package analytics

import (
	"slices"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

// Returns is the output of RealizedReturns.
type Returns struct {
	ByTicker map[string]model.TickerReturn
	Classes  []model.AssetClassAggregate
	Total    model.ReturnFigure
}

// RealizedReturns computes the absolute and percentage return of every holding,
// of every asset class and of the whole portfolio from current value vs. cost basis.
//
// A holding without a cost basis uses its current value as cost, which yields a
// zero return; the TickerReturn then has CostBasisKnown set to false.
// Percentage returns against a zero cost are undefined.
//
// Classes are returned sorted by class ID. Class names are left empty.
func RealizedReturns(holdings []model.Holding) Returns {
	byTicker := make(map[string]model.TickerReturn, len(holdings))
	classValue := make(map[string]float64)
	classCost := make(map[string]float64)
	classIDs := []string{}

	var totalValue, totalCost float64

	for _, h := range holdings {
		cost, known := effectiveCost(h)
		absolute := h.CurrentValue - cost

		byTicker[h.Ticker] = model.TickerReturn{
			Name:             h.Name,
			AbsoluteReturn:   absolute,
			PercentageReturn: percentageReturn(absolute, cost),
			IsPositive:       absolute >= 0,
			CostBasisKnown:   known,
		}

		if _, seen := classValue[h.AssetClassID]; !seen {
			classIDs = append(classIDs, h.AssetClassID)
		}
		classValue[h.AssetClassID] += h.CurrentValue
		classCost[h.AssetClassID] += cost

		totalValue += h.CurrentValue
		totalCost += cost
	}

	slices.Sort(classIDs)
	classes := make([]model.AssetClassAggregate, 0, len(classIDs))
	for _, id := range classIDs {
		value, cost := classValue[id], classCost[id]
		classes = append(classes, model.AssetClassAggregate{
			ClassID:          id,
			CurrentValue:     value,
			CostBasis:        cost,
			AbsoluteReturn:   value - cost,
			PercentageReturn: percentageReturn(value-cost, cost),
		})
	}

	return Returns{
		ByTicker: byTicker,
		Classes:  classes,
		Total: model.ReturnFigure{
			Value:            totalValue,
			Cost:             totalCost,
			AbsoluteReturn:   totalValue - totalCost,
			PercentageReturn: percentageReturn(totalValue-totalCost, totalCost),
		},
	}
}

// effectiveCost returns the holding's cost basis, or its current value when
// the cost basis is unknown.
func effectiveCost(h model.Holding) (float64, bool) {
	if h.CostBasis == nil {
		return h.CurrentValue, false
	}
	return *h.CostBasis, true
}

func percentageReturn(absolute, cost float64) model.Percent {
	if cost == 0 {
		return model.Percent{}
	}
	return model.PercentOf(absolute / cost * 100)
}
