package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/analytics"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

func TestHistoricalExpectedReturn(t *testing.T) {
	t.Run("value weighted blend", func(t *testing.T) {
		holdings := []model.Holding{
			{Ticker: "A", CurrentValue: 100, HistoricalReturn: ptr(0.10)},
			{Ticker: "B", CurrentValue: 300, HistoricalReturn: ptr(0.05)},
		}

		got, err := analytics.HistoricalExpectedReturn(holdings, analytics.DefaultHistoricalReturn)

		require.NoError(t, err)
		assert.InDelta(t, 0.0625, got, 1e-12)
	})

	t.Run("missing assumption uses the fallback", func(t *testing.T) {
		holdings := []model.Holding{
			{Ticker: "A", CurrentValue: 100},
			{Ticker: "B", CurrentValue: 100, HistoricalReturn: ptr(0.03)},
		}

		got, err := analytics.HistoricalExpectedReturn(holdings, 0.07)

		require.NoError(t, err)
		assert.InDelta(t, 0.05, got, 1e-12)
	})

	t.Run("order does not matter", func(t *testing.T) {
		a := model.Holding{Ticker: "A", CurrentValue: 123.4, HistoricalReturn: ptr(0.11)}
		b := model.Holding{Ticker: "B", CurrentValue: 987.6, HistoricalReturn: ptr(0.02)}

		ab, err := analytics.HistoricalExpectedReturn([]model.Holding{a, b}, 0.07)
		require.NoError(t, err)
		ba, err := analytics.HistoricalExpectedReturn([]model.Holding{b, a}, 0.07)
		require.NoError(t, err)

		assert.InDelta(t, ab, ba, 1e-12)
	})

	t.Run("empty set is zero", func(t *testing.T) {
		got, err := analytics.HistoricalExpectedReturn(nil, 0.07)

		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("zero total value is an error", func(t *testing.T) {
		_, err := analytics.HistoricalExpectedReturn([]model.Holding{{Ticker: "A"}}, 0.07)

		assert.ErrorIs(t, err, apperrors.ErrZeroTotalValue)
	})
}

func TestForwardExpectedReturn(t *testing.T) {
	t.Run("uses forecasts, not historical returns", func(t *testing.T) {
		holdings := []model.Holding{
			{Ticker: "A", CurrentValue: 100, HistoricalReturn: ptr(0.50), ForecastReturn: ptr(0.10)},
			{Ticker: "B", CurrentValue: 300, HistoricalReturn: ptr(0.50), ForecastReturn: ptr(0.05)},
		}

		got, err := analytics.ForwardExpectedReturn(holdings, analytics.DefaultForwardReturn)

		require.NoError(t, err)
		assert.InDelta(t, 0.0625, got, 1e-12)
	})

	t.Run("missing forecast uses the fallback", func(t *testing.T) {
		holdings := []model.Holding{{Ticker: "A", CurrentValue: 10}}

		got, err := analytics.ForwardExpectedReturn(holdings, analytics.DefaultForwardReturn)

		require.NoError(t, err)
		assert.InDelta(t, 0.08, got, 1e-12)
	})

	t.Run("empty set is zero", func(t *testing.T) {
		got, err := analytics.ForwardExpectedReturn([]model.Holding{}, 0.08)

		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("zero total value is an error", func(t *testing.T) {
		_, err := analytics.ForwardExpectedReturn([]model.Holding{{Ticker: "A"}, {Ticker: "B"}}, 0.08)

		assert.ErrorIs(t, err, apperrors.ErrZeroTotalValue)
	})
}
