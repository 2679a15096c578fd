package analytics_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/analytics"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

var asOf = time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)

// referenceFixture returns two equities (USD and EUR) and one bond fund (EUR).
func referenceFixture() model.ReferenceData {
	return model.ReferenceData{
		AssetClasses: []model.AssetClass{
			{ID: "equity", Name: "Equity"},
			{ID: "bonds", Name: "Fixed Income"},
		},
		Sectors:    []model.Sector{{ID: "tech", Name: "Technology"}},
		Industries: []model.Industry{{ID: "semis", Name: "Semiconductors", SectorID: "tech"}},
		Currencies: []model.Currency{
			{Code: "USD", Name: "US Dollar"},
			{Code: "EUR", Name: "Euro", Rate: ptr(0.8)},
		},
		Regions:   []model.Region{{ID: "eu", Name: "Europe"}},
		Countries: []model.Country{{ID: "nl", Name: "Netherlands", ISOCode: "NL", RegionID: "eu"}},
		Markets:   []model.Market{{ID: "xams", Name: "Euronext Amsterdam", MIC: "XAMS", CountryID: "nl"}},
		Assets: []model.Asset{
			{ID: "1", Ticker: "AAPL", Name: "Apple", AssetClassID: "equity", Currency: "USD", SectorID: "tech", HistoricalReturn: ptr(0.10), ForecastReturn: ptr(0.09)},
			{ID: "2", Ticker: "ASML", Name: "ASML Holding", AssetClassID: "equity", Currency: "EUR", SectorID: "tech", IndustryID: "semis", CountryID: "nl", MarketID: "xams"},
			{ID: "3", Ticker: "AGGH", Name: "Global Aggregate Bond", AssetClassID: "bonds", Currency: "EUR", HistoricalReturn: ptr(0.03), ForecastReturn: ptr(0.04)},
		},
	}
}

func inputsFixture() analytics.Inputs {
	return analytics.Inputs{
		Ledger: []model.LedgerEntry{
			{Ticker: "AAPL", Quantity: 5, PurchasePrice: ptr(100)},
			{Ticker: "asml", Quantity: 1, PurchasePrice: ptr(500)},
			{Ticker: "ASML", Quantity: 1, PurchasePrice: ptr(700)},
			{Ticker: "AGGH", Quantity: 10},
		},
		Reference: referenceFixture(),
		Quotes: map[string]model.PriceSnapshot{
			"AAPL": {Symbol: "AAPL", Price: 120, LastClose: 100, MonthAgo: 96, YearAgo: 80},
			"ASML": {Symbol: "ASML", Price: 800, LastClose: 800},
			"AGGH": {Symbol: "AGGH", Price: 4, LastClose: 5},
		},
		Rates: analytics.RateTable{"EUR": 0.8},
		AsOf:  asOf,
	}
}

func TestBuildSnapshot(t *testing.T) {
	t.Run("normalizes, aggregates and allocates", func(t *testing.T) {
		snap, err := analytics.BuildSnapshot(inputsFixture(), analytics.DefaultOptions())
		require.NoError(t, err)

		// AAPL 5*120 = 600 USD, ASML 2*800/0.8 = 2000, AGGH 10*4/0.8 = 50.
		assert.Equal(t, "USD", snap.BaseCurrency)
		assert.Equal(t, asOf, snap.AsOf)
		assert.InDelta(t, 2650, snap.TotalValue, 1e-9)
		// Costs: AAPL 500, ASML 1200/0.8 = 1500, AGGH unknown so value stands in (50).
		assert.InDelta(t, 2050, snap.TotalCost, 1e-9)
		assert.InDelta(t, 600, snap.AbsoluteReturn, 1e-9)

		require.Len(t, snap.Holdings, 3)
		assert.Equal(t, []string{"AAPL", "AGGH", "ASML"},
			[]string{snap.Holdings[0].Ticker, snap.Holdings[1].Ticker, snap.Holdings[2].Ticker})
		assert.Equal(t, 2.0, snap.Holdings[2].Quantity)
		assert.Equal(t, 800.0, snap.Holdings[2].Price)

		assert.True(t, snap.Returns["AAPL"].CostBasisKnown)
		assert.False(t, snap.Returns["AGGH"].CostBasisKnown)
		assert.Equal(t, []string{"AGGH"}, snap.DataQuality.UnknownCost)
		assert.Empty(t, snap.DataQuality.MissingQuotes)
		assert.Empty(t, snap.DataQuality.MissingRates)

		require.Len(t, snap.AssetClasses, 2)
		assert.Equal(t, "bonds", snap.AssetClasses[0].ClassID)
		assert.Equal(t, "Fixed Income", snap.AssetClasses[0].Name)
		assert.Equal(t, "Equity", snap.AssetClasses[1].Name)
		assert.InDelta(t, snap.TotalValue, snap.AssetClasses[0].CurrentValue+snap.AssetClasses[1].CurrentValue, 1e-9)

		require.NotEmpty(t, snap.SectorAllocation)
		assert.Equal(t, "tech", snap.SectorAllocation[0].Key)
		assert.Equal(t, "Technology", snap.SectorAllocation[0].Name)
		assert.InDelta(t, 2600, snap.SectorAllocation[0].Value, 1e-9)
		assert.Equal(t, "unclassified", snap.SectorAllocation[1].Key)

		require.Len(t, snap.CurrencyAllocation, 2)
		assert.Equal(t, "EUR", snap.CurrencyAllocation[0].Key)
		assert.Equal(t, "Euro", snap.CurrencyAllocation[0].Name)
		var weight float64
		for _, a := range snap.CurrencyAllocation {
			weight += a.Weight
		}
		assert.InDelta(t, 100, weight, 1e-9)

		// Only ASML carries a country and a market; AAPL and AGGH fall through.
		require.Len(t, snap.CountryAllocation, 2)
		assert.Equal(t, "nl", snap.CountryAllocation[0].Key)
		assert.Equal(t, "Netherlands", snap.CountryAllocation[0].Name)
		assert.InDelta(t, 2000, snap.CountryAllocation[0].Value, 1e-9)
		assert.InDelta(t, 2000*100.0/2650, snap.CountryAllocation[0].Weight, 1e-9)
		assert.Equal(t, "unclassified", snap.CountryAllocation[1].Key)
		assert.Equal(t, "Unclassified", snap.CountryAllocation[1].Name)
		assert.InDelta(t, 650, snap.CountryAllocation[1].Value, 1e-9)

		require.Len(t, snap.MarketAllocation, 2)
		assert.Equal(t, "xams", snap.MarketAllocation[0].Key)
		assert.Equal(t, "Euronext Amsterdam", snap.MarketAllocation[0].Name)
		assert.InDelta(t, 2000, snap.MarketAllocation[0].Value, 1e-9)
		assert.Equal(t, "unclassified", snap.MarketAllocation[1].Key)
		assert.Equal(t, "Unclassified", snap.MarketAllocation[1].Name)
		assert.InDelta(t, 650, snap.MarketAllocation[1].Value, 1e-9)

		// Daily: AAPL +20% on 600, ASML 0% on 2000, AGGH -20% on 50.
		require.True(t, snap.Performance.Daily.Valid)
		assert.InDelta(t, (600*20.0+50*-20.0)/2650, snap.Performance.Daily.Value, 1e-9)
		// Monthly is only defined for AAPL.
		assert.InDelta(t, 600*25.0/2650, snap.Performance.Monthly.Value, 1e-9)

		// Historical: AAPL 0.10, ASML default 0.07, AGGH 0.03.
		assert.InDelta(t, (600*0.10+2000*0.07+50*0.03)/2650, snap.HistoricalExpectedReturn, 1e-12)
		assert.InDelta(t, (600*0.09+2000*0.08+50*0.04)/2650, snap.ForwardExpectedReturn, 1e-12)
	})

	t.Run("identical inputs produce identical snapshots", func(t *testing.T) {
		first, err := analytics.BuildSnapshot(inputsFixture(), analytics.DefaultOptions())
		require.NoError(t, err)
		second, err := analytics.BuildSnapshot(inputsFixture(), analytics.DefaultOptions())
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("risk metrics are passed through", func(t *testing.T) {
		in := inputsFixture()
		in.Risk = &model.RiskMetrics{Beta: 1.1, MaxDrawdown: -0.25, Volatility: 0.18}

		snap, err := analytics.BuildSnapshot(in, analytics.DefaultOptions())

		require.NoError(t, err)
		assert.Equal(t, *in.Risk, snap.Risk)
	})

	t.Run("missing quote and rate are reported", func(t *testing.T) {
		in := inputsFixture()
		delete(in.Quotes, "AAPL")
		in.Rates = analytics.RateTable{}

		snap, err := analytics.BuildSnapshot(in, analytics.DefaultOptions())

		require.NoError(t, err)
		assert.Equal(t, []string{"AAPL"}, snap.DataQuality.MissingQuotes)
		assert.Equal(t, []string{"EUR"}, snap.DataQuality.MissingRates)
		assert.False(t, snap.DataQuality.Complete())
		assert.Equal(t, model.PeriodReturns{}, snap.Holdings[0].Performance)
	})

	t.Run("empty ledger is an empty snapshot", func(t *testing.T) {
		snap, err := analytics.BuildSnapshot(analytics.Inputs{Reference: referenceFixture(), AsOf: asOf}, analytics.DefaultOptions())

		require.NoError(t, err)
		assert.Equal(t, 0.0, snap.TotalValue)
		assert.Empty(t, snap.Holdings)
		assert.Empty(t, snap.AssetClasses)
		assert.False(t, snap.PercentageReturn.Valid)
		assert.False(t, snap.Performance.Daily.Valid)
		assert.Equal(t, 0.0, snap.HistoricalExpectedReturn)
		assert.True(t, snap.DataQuality.Complete())
	})

	t.Run("holdings with zero total value are an error", func(t *testing.T) {
		in := inputsFixture()
		in.Quotes = nil

		_, err := analytics.BuildSnapshot(in, analytics.DefaultOptions())

		assert.ErrorIs(t, err, apperrors.ErrZeroTotalValue)
	})

	t.Run("unknown ticker fails fast", func(t *testing.T) {
		in := inputsFixture()
		in.Ledger = append(in.Ledger, model.LedgerEntry{Ticker: "MSFT", Quantity: 1})

		_, err := analytics.BuildSnapshot(in, analytics.DefaultOptions())

		assert.ErrorIs(t, err, apperrors.ErrUnknownTicker)
		assert.True(t, apperrors.IsIntegrityError(err))
	})

	t.Run("unknown asset class fails fast", func(t *testing.T) {
		in := inputsFixture()
		in.Reference.Assets[0].AssetClassID = "crypto"

		_, err := analytics.BuildSnapshot(in, analytics.DefaultOptions())

		assert.ErrorIs(t, err, apperrors.ErrUnknownAssetClass)
	})

	t.Run("unknown currency fails fast", func(t *testing.T) {
		in := inputsFixture()
		in.Reference.Assets[1].Currency = "CHF"

		_, err := analytics.BuildSnapshot(in, analytics.DefaultOptions())

		assert.ErrorIs(t, err, apperrors.ErrUnknownCurrency)
	})

	t.Run("dangling optional join fails fast", func(t *testing.T) {
		in := inputsFixture()
		in.Reference.Markets = nil

		_, err := analytics.BuildSnapshot(in, analytics.DefaultOptions())

		assert.ErrorIs(t, err, apperrors.ErrDataInconsistency)
	})

	t.Run("non-finite historical return fails fast", func(t *testing.T) {
		in := inputsFixture()
		in.Reference.Assets[0].HistoricalReturn = ptr(math.Inf(1))

		_, err := analytics.BuildSnapshot(in, analytics.DefaultOptions())

		assert.ErrorIs(t, err, apperrors.ErrDataInconsistency)
		assert.ErrorContains(t, err, "AAPL")
	})

	t.Run("non-finite forecast return fails fast", func(t *testing.T) {
		in := inputsFixture()
		in.Reference.Assets[2].ForecastReturn = ptr(math.NaN())

		_, err := analytics.BuildSnapshot(in, analytics.DefaultOptions())

		assert.ErrorIs(t, err, apperrors.ErrDataInconsistency)
		assert.ErrorContains(t, err, "AGGH")
	})

	t.Run("base currency is required", func(t *testing.T) {
		_, err := analytics.BuildSnapshot(inputsFixture(), analytics.Options{})

		assert.ErrorIs(t, err, apperrors.ErrMissingRequiredField)
	})
}
