package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/service"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/testutil"
)

func TestQuoteHandler_Refresh(t *testing.T) {
	newHandler := func(t *testing.T) (*QuoteHandler, *testutil.MockQuoteProvider) {
		t.Helper()
		db := testutil.SetupTestDB(t)
		provider := testutil.NewMockQuoteProvider().
			WithQuote("AAPL", 120, 118, 110, 90).
			WithQuote("MSFT", 400, 395, 380, 300)
		ledger := testutil.StaticLedger{Lots: []model.LedgerEntry{{Ticker: "AAPL", Quantity: 1}}}
		return NewQuoteHandler(testutil.NewTestQuoteService(t, db, ledger, provider)), provider
	}

	t.Run("empty body refreshes ledger holdings", func(t *testing.T) {
		handler, provider := newHandler(t)

		w := httptest.NewRecorder()
		handler.Refresh(w, httptest.NewRequest(http.MethodPost, "/api/quotes/refresh", nil))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result service.RefreshResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
		assert.Equal(t, []string{"AAPL"}, result.Updated)
		assert.Empty(t, result.Failed)
		assert.Equal(t, []string{"AAPL"}, provider.Calls())
	})

	t.Run("listed symbols only", func(t *testing.T) {
		handler, _ := newHandler(t)

		body := strings.NewReader(`{"symbols": ["msft", "UNKNOWN"]}`)
		w := httptest.NewRecorder()
		handler.Refresh(w, httptest.NewRequest(http.MethodPost, "/api/quotes/refresh", body))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var result service.RefreshResult
		require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
		assert.Equal(t, []string{"MSFT"}, result.Updated)
		assert.Contains(t, result.Failed, "UNKNOWN")
	})

	t.Run("invalid body is 400", func(t *testing.T) {
		handler, provider := newHandler(t)

		body := strings.NewReader(`{"symbols": ["A B"]}`)
		w := httptest.NewRecorder()
		handler.Refresh(w, httptest.NewRequest(http.MethodPost, "/api/quotes/refresh", body))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, provider.Calls())
	})
}

func TestQuoteHandler_Quote(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.CreateQuote(t, db, "AAPL", 120, 118, 110, 90)
	handler := NewQuoteHandler(testutil.NewTestQuoteService(t, db, testutil.StaticLedger{}, testutil.NewMockQuoteProvider()))

	t.Run("lists cached quotes", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.Quotes(w, httptest.NewRequest(http.MethodGet, "/api/quotes", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var quotes map[string]model.PriceSnapshot
		require.NoError(t, json.NewDecoder(w.Body).Decode(&quotes))
		assert.Equal(t, 120.0, quotes["AAPL"].Price)
	})

	t.Run("returns one cached quote", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/quotes/aapl", map[string]string{"symbol": "aapl"})
		w := httptest.NewRecorder()
		handler.Quote(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var quote model.PriceSnapshot
		require.NoError(t, json.NewDecoder(w.Body).Decode(&quote))
		assert.Equal(t, "AAPL", quote.Symbol)
		assert.Equal(t, 118.0, quote.LastClose)
	})

	t.Run("uncached symbol is 404", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/quotes/MSFT", map[string]string{"symbol": "MSFT"})
		w := httptest.NewRecorder()
		handler.Quote(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
