package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/analytics"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

func ptr(v float64) *float64 { return &v }

func TestRealizedReturns(t *testing.T) {
	t.Run("portfolio total from mixed gains and losses", func(t *testing.T) {
		holdings := []model.Holding{
			{Ticker: "A", AssetClassID: "equity", CurrentValue: 100, CostBasis: ptr(80)},
			{Ticker: "B", AssetClassID: "equity", CurrentValue: 200, CostBasis: ptr(250)},
		}

		got := analytics.RealizedReturns(holdings)

		assert.InDelta(t, -30, got.Total.AbsoluteReturn, 1e-9)
		require.True(t, got.Total.PercentageReturn.Valid)
		assert.InDelta(t, -9.0909, got.Total.PercentageReturn.Value, 1e-4)
		assert.InDelta(t, 300, got.Total.Value, 1e-9)
		assert.InDelta(t, 330, got.Total.Cost, 1e-9)

		assert.True(t, got.ByTicker["A"].IsPositive)
		assert.InDelta(t, 25, got.ByTicker["A"].PercentageReturn.Value, 1e-9)
		assert.False(t, got.ByTicker["B"].IsPositive)
		assert.InDelta(t, -20, got.ByTicker["B"].PercentageReturn.Value, 1e-9)
	})

	t.Run("break-even holding has zero percentage return", func(t *testing.T) {
		got := analytics.RealizedReturns([]model.Holding{
			{Ticker: "A", AssetClassID: "equity", CurrentValue: 512.5, CostBasis: ptr(512.5)},
		})

		r := got.ByTicker["A"]
		require.True(t, r.PercentageReturn.Valid)
		assert.Equal(t, 0.0, r.PercentageReturn.Value)
		assert.True(t, r.CostBasisKnown)
	})

	t.Run("missing cost basis falls back to current value and is flagged", func(t *testing.T) {
		got := analytics.RealizedReturns([]model.Holding{
			{Ticker: "A", AssetClassID: "equity", CurrentValue: 40},
		})

		r := got.ByTicker["A"]
		assert.False(t, r.CostBasisKnown)
		assert.Equal(t, 0.0, r.AbsoluteReturn)
		require.True(t, r.PercentageReturn.Valid)
		assert.Equal(t, 0.0, r.PercentageReturn.Value)
	})

	t.Run("zero cost gives an undefined percentage", func(t *testing.T) {
		got := analytics.RealizedReturns([]model.Holding{
			{Ticker: "GIFT", AssetClassID: "equity", CurrentValue: 50, CostBasis: ptr(0)},
			{Ticker: "EMPTY", AssetClassID: "cash", CurrentValue: 0},
		})

		assert.False(t, got.ByTicker["GIFT"].PercentageReturn.Valid)
		assert.Equal(t, 50.0, got.ByTicker["GIFT"].AbsoluteReturn)
		assert.False(t, got.ByTicker["EMPTY"].PercentageReturn.Valid)
		assert.False(t, got.Total.PercentageReturn.Valid)
	})

	t.Run("class aggregates sum their holdings", func(t *testing.T) {
		holdings := []model.Holding{
			{Ticker: "A", AssetClassID: "equity", CurrentValue: 100.1, CostBasis: ptr(90)},
			{Ticker: "B", AssetClassID: "bonds", CurrentValue: 50.2, CostBasis: ptr(55)},
			{Ticker: "C", AssetClassID: "equity", CurrentValue: 30.3, CostBasis: ptr(10)},
			{Ticker: "D", AssetClassID: "cash", CurrentValue: 20, CostBasis: ptr(20)},
		}

		got := analytics.RealizedReturns(holdings)

		require.Len(t, got.Classes, 3)
		assert.Equal(t, []string{"bonds", "cash", "equity"},
			[]string{got.Classes[0].ClassID, got.Classes[1].ClassID, got.Classes[2].ClassID})

		var classTotal float64
		for _, c := range got.Classes {
			var sum float64
			for _, h := range holdings {
				if h.AssetClassID == c.ClassID {
					sum += h.CurrentValue
				}
			}
			assert.InDelta(t, sum, c.CurrentValue, 1e-9, c.ClassID)
			classTotal += c.CurrentValue
		}
		assert.InDelta(t, got.Total.Value, classTotal, 1e-9)

		equity := got.Classes[2]
		assert.InDelta(t, 30.4, equity.AbsoluteReturn, 1e-9)
		assert.InDelta(t, 30.4, equity.PercentageReturn.Value, 1e-9)
	})

	t.Run("empty input", func(t *testing.T) {
		got := analytics.RealizedReturns(nil)

		assert.Empty(t, got.ByTicker)
		assert.Empty(t, got.Classes)
		assert.False(t, got.Total.PercentageReturn.Valid)
	})
}
