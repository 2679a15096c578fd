package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

// MockQuoteProvider is a QuoteProvider serving canned quotes.
// Symbols without a quote or error return apperrors.ErrSymbolNotFound.
//
// Example usage:
//
//	provider := testutil.NewMockQuoteProvider().
//	    WithQuote("AAPL", 120, 118, 110, 90).
//	    WithError("MSFT", errors.New("timeout"))
type MockQuoteProvider struct {
	mu     sync.Mutex
	quotes map[string]model.PriceSnapshot
	errs   map[string]error
	calls  []string
}

// NewMockQuoteProvider creates an empty MockQuoteProvider.
func NewMockQuoteProvider() *MockQuoteProvider {
	return &MockQuoteProvider{
		quotes: make(map[string]model.PriceSnapshot),
		errs:   make(map[string]error),
	}
}

// WithQuote configures the prices returned for symbol.
func (m *MockQuoteProvider) WithQuote(symbol string, price, lastClose, monthAgo, yearAgo float64) *MockQuoteProvider {
	symbol = strings.ToUpper(symbol)
	m.quotes[symbol] = model.PriceSnapshot{
		Symbol:    symbol,
		Price:     price,
		LastClose: lastClose,
		MonthAgo:  monthAgo,
		YearAgo:   yearAgo,
	}
	return m
}

// WithError makes lookups of symbol fail with err.
func (m *MockQuoteProvider) WithError(symbol string, err error) *MockQuoteProvider {
	m.errs[strings.ToUpper(symbol)] = err
	return m
}

// QuoteSnapshot implements the quote provider interface.
func (m *MockQuoteProvider) QuoteSnapshot(ctx context.Context, symbol string, asOf time.Time) (model.PriceSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	symbol = strings.ToUpper(symbol)
	m.calls = append(m.calls, symbol)

	if err := ctx.Err(); err != nil {
		return model.PriceSnapshot{}, err
	}
	if err, ok := m.errs[symbol]; ok {
		return model.PriceSnapshot{}, err
	}
	q, ok := m.quotes[symbol]
	if !ok {
		return model.PriceSnapshot{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}
	q.UpdatedAt = asOf.Truncate(time.Second)
	return q, nil
}

// Calls returns the symbols requested so far, in call order.
func (m *MockQuoteProvider) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
