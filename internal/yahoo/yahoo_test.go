package yahoo_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/yahoo"
)

var asOf = time.Date(2026, 3, 2, 21, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 14, 30, 0, 0, time.UTC).Unix()
}

// chartJSON renders a chart response. A negative close renders as null.
func chartJSON(symbol string, marketPrice float64, timestamps []int64, closes []float64) string {
	ts := make([]string, len(timestamps))
	for i, v := range timestamps {
		ts[i] = fmt.Sprint(v)
	}
	cl := make([]string, len(closes))
	for i, v := range closes {
		if v < 0 {
			cl[i] = "null"
		} else {
			cl[i] = fmt.Sprint(v)
		}
	}
	return fmt.Sprintf(`{"chart":{"result":[{"meta":{"currency":"USD","symbol":%q,"longName":"Test Corp","regularMarketPrice":%v},
		"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}],"error":null}}`,
		symbol, marketPrice, strings.Join(ts, ","), strings.Join(cl, ","))
}

func newServer(t *testing.T, handler http.HandlerFunc) *yahoo.FinanceClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return yahoo.NewFinanceClient(yahoo.WithBaseURL(srv.URL), yahoo.WithTimeout(time.Second))
}

func TestQuoteSnapshot(t *testing.T) {
	timestamps := []int64{
		day(2025, 2, 28), // year-ago baseline (2025-03-02 is a Sunday)
		day(2025, 3, 3),
		day(2026, 1, 30),
		day(2026, 2, 2), // month-ago baseline
		day(2026, 2, 26),
		day(2026, 2, 27), // last close before asOf
		day(2026, 3, 2),
	}
	closes := []float64{80, 81, 95, 96, -1, 100, 104}

	var path string
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		fmt.Fprint(w, chartJSON("AAPL", 105, timestamps, closes))
	})

	snap, err := client.QuoteSnapshot(context.Background(), "aapl", asOf)

	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/AAPL", path)
	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Equal(t, 105.0, snap.Price)
	assert.Equal(t, 100.0, snap.LastClose)
	assert.Equal(t, 96.0, snap.MonthAgo)
	assert.Equal(t, 80.0, snap.YearAgo)
	assert.Equal(t, asOf, snap.UpdatedAt)
}

func TestQuoteSnapshot_FallsBackToLatestClose(t *testing.T) {
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartJSON("VT", 0, []int64{day(2026, 2, 27), day(2026, 3, 2)}, []float64{110, 112}))
	})

	snap, err := client.QuoteSnapshot(context.Background(), "VT", asOf)

	require.NoError(t, err)
	assert.Equal(t, 112.0, snap.Price)
	assert.Equal(t, 110.0, snap.LastClose)
	assert.Equal(t, 0.0, snap.MonthAgo, "no data that far back")
	assert.Equal(t, 0.0, snap.YearAgo)
}

func TestQuoteSnapshot_NotFound(t *testing.T) {
	t.Run("error object", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
		})

		_, err := client.QuoteSnapshot(context.Background(), "GONE", asOf)

		assert.ErrorIs(t, err, apperrors.ErrSymbolNotFound)
	})

	t.Run("no prices at all", func(t *testing.T) {
		client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, chartJSON("EMPTY", 0, nil, nil))
		})

		_, err := client.QuoteSnapshot(context.Background(), "EMPTY", asOf)

		assert.ErrorIs(t, err, apperrors.ErrSymbolNotFound)
	})
}

// TestQuoteSnapshot_BreakerOpens verifies repeated provider failures stop
// reaching the server once the breaker trips.
func TestQuoteSnapshot_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	for range 5 {
		_, err := client.QuoteSnapshot(context.Background(), "AAPL", asOf)
		require.Error(t, err)
	}
	_, err := client.QuoteSnapshot(context.Background(), "AAPL", asOf)

	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Equal(t, int32(5), calls.Load())
}

func TestParseChart(t *testing.T) {
	client := yahoo.NewFinanceClient()
	one, two := 2.0, 1.0

	t.Run("sorts and skips nulls", func(t *testing.T) {
		resp := yahoo.Response{Chart: yahoo.Chart{Result: []yahoo.Result{{
			Meta:       yahoo.Meta{Symbol: "X", ShortName: "Short"},
			Timestamp:  []int64{day(2026, 3, 2), day(2026, 2, 27), day(2026, 2, 26)},
			Indicators: yahoo.Indicators{Quote: []yahoo.Quote{{Close: []*float64{&one, nil, &two}}}},
		}}}}

		chart, err := client.ParseChart(resp)

		require.NoError(t, err)
		assert.Equal(t, "Short", chart.Name)
		require.Len(t, chart.Closes, 2)
		assert.Equal(t, time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC), chart.Closes[0].Date)
		latest, ok := chart.Latest()
		require.True(t, ok)
		assert.Equal(t, 2.0, latest.Price)
	})

	t.Run("mismatched lengths", func(t *testing.T) {
		resp := yahoo.Response{Chart: yahoo.Chart{Result: []yahoo.Result{{
			Timestamp:  []int64{day(2026, 3, 2)},
			Indicators: yahoo.Indicators{Quote: []yahoo.Quote{{Close: []*float64{&one, &two}}}},
		}}}}

		_, err := client.ParseChart(resp)

		assert.Error(t, err)
	})

	t.Run("no result", func(t *testing.T) {
		_, err := client.ParseChart(yahoo.Response{})

		assert.ErrorIs(t, err, apperrors.ErrSymbolNotFound)
	})
}

func TestPriceChart_CloseOnOrBefore(t *testing.T) {
	chart := yahoo.PriceChart{Closes: []yahoo.Close{
		{Date: time.Date(2026, 2, 26, 0, 0, 0, 0, time.UTC), Price: 1},
		{Date: time.Date(2026, 2, 27, 0, 0, 0, 0, time.UTC), Price: 2},
	}}

	c, ok := chart.CloseOnOrBefore(time.Date(2026, 2, 27, 23, 59, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 2.0, c.Price)

	c, ok = chart.CloseBefore(time.Date(2026, 2, 27, 8, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, 1.0, c.Price)

	_, ok = chart.CloseOnOrBefore(time.Date(2026, 2, 25, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)
}
