package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

const (
	// DefaultBaseURL is the Yahoo Finance chart API host.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	defaultTimeout = 10 * time.Second
	// lookback covers the year-ago baseline plus a week of non-trading days.
	lookback = 380 * 24 * time.Hour
)

// FinanceClient fetches daily price history from Yahoo Finance. Requests run
// through a circuit breaker so an unreachable provider fails fast during a refresh.
type FinanceClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     zerolog.Logger
}

// Option configures a FinanceClient.
type Option func(*FinanceClient)

// WithBaseURL points the client at another host, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *FinanceClient) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *FinanceClient) { c.httpClient.Timeout = d }
}

// NewFinanceClient creates a Yahoo Finance client.
//
// The breaker opens after five consecutive failed requests and lets a trial
// request through after 30 seconds. Unknown symbols do not count as failures.
func NewFinanceClient(opts ...Option) *FinanceClient {
	c := &FinanceClient{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     log.With().Str("component", "yahoo").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "YahooFinance",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, apperrors.ErrSymbolNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	})
	return c
}

// QuoteSnapshot fetches roughly a year of daily closes for symbol and derives
// the current price and the daily, monthly and yearly baselines relative to asOf.
//
// Price is Yahoo's regular market price, or the latest close when absent.
// LastClose is the close of the last trading day before asOf's date. MonthAgo
// and YearAgo are the closes on or before the same date one month and one year
// earlier. A baseline that cannot be found is left at zero.
//
// Returns:
//   - model.PriceSnapshot: the derived prices, UpdatedAt set to asOf
//   - error: apperrors.ErrSymbolNotFound when Yahoo has no price for the symbol,
//     gobreaker.ErrOpenState while the breaker is open, or the request error
func (c *FinanceClient) QuoteSnapshot(ctx context.Context, symbol string, asOf time.Time) (model.PriceSnapshot, error) {
	resp, err := c.QueryYahooSymbolByDateRange(ctx, symbol, asOf.Add(-lookback), asOf.Add(24*time.Hour))
	if err != nil {
		return model.PriceSnapshot{}, err
	}

	chart, err := c.ParseChart(resp)
	if err != nil {
		return model.PriceSnapshot{}, fmt.Errorf("%s: %w", symbol, err)
	}

	latest, _ := chart.Latest()
	snap := model.PriceSnapshot{
		Symbol:    strings.ToUpper(symbol),
		Price:     chart.RegularMarketPrice,
		UpdatedAt: asOf.UTC(),
	}
	if snap.Price <= 0 {
		snap.Price = latest.Price
	}
	if snap.Price <= 0 {
		return model.PriceSnapshot{}, fmt.Errorf("%w: no price data for %s", apperrors.ErrSymbolNotFound, symbol)
	}
	if prev, ok := chart.CloseBefore(asOf); ok {
		snap.LastClose = prev.Price
	}
	if m, ok := chart.CloseOnOrBefore(asOf.AddDate(0, -1, 0)); ok {
		snap.MonthAgo = m.Price
	}
	if y, ok := chart.CloseOnOrBefore(asOf.AddDate(-1, 0, 0)); ok {
		snap.YearAgo = y.Price
	}
	return snap, nil
}

// ParseChart converts a raw Yahoo Finance API response into a PriceChart.
// Points with a null or non-positive close are skipped. Closes are returned in
// ascending date order.
//
// Returns an error if the response has no result, no close series, or arrays
// of mismatched lengths.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, apperrors.ErrSymbolNotFound
	}
	result := yahooResult.Chart.Result[0]

	chart := PriceChart{
		Symbol:             result.Meta.Symbol,
		Currency:           result.Meta.Currency,
		Name:               result.Meta.LongName,
		RegularMarketPrice: result.Meta.RegularMarketPrice,
	}
	if chart.Name == "" {
		chart.Name = result.Meta.ShortName
	}

	if len(result.Timestamp) == 0 {
		return chart, nil
	}
	if len(result.Indicators.Quote) == 0 {
		return PriceChart{}, fmt.Errorf("no close prices returned")
	}
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	for i, ts := range result.Timestamp {
		if closes[i] == nil || *closes[i] <= 0 {
			continue
		}
		chart.Closes = append(chart.Closes, Close{
			Date:  truncateDay(time.Unix(ts, 0)),
			Price: *closes[i],
		})
	}
	sort.SliceStable(chart.Closes, func(i, j int) bool { return chart.Closes[i].Date.Before(chart.Closes[j].Date) })

	return chart, nil
}

// QueryYahooSymbolByDateRange fetches daily price data for a symbol within a date range.
//
// Returns:
//   - Response: Raw API response containing price data for the range
//   - error: apperrors.ErrSymbolNotFound if Yahoo reports the symbol unknown or
//     returns no result, otherwise the request or decoding error
func (c *FinanceClient) QueryYahooSymbolByDateRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, error) {
	endpoint := fmt.Sprintf(
		"%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL,
		url.PathEscape(strings.ToUpper(symbol)),
		startDate.Unix(),
		endDate.Unix(),
	)

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.queryYahoo(ctx, endpoint)
	})
	if err != nil {
		return Response{}, fmt.Errorf("%s: %w", symbol, err)
	}

	result := out.(Response)
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return result, nil
}

// queryYahoo executes one request and decodes the response. A 404 or a
// "Not Found" error object maps to apperrors.ErrSymbolNotFound.
func (c *FinanceClient) queryYahoo(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return Response{}, err
	}
	c.logger.Debug().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("chart request")

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Response{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
		}
		return Response{}, err
	}

	if e := response.Chart.Error; e != nil {
		if resp.StatusCode == http.StatusNotFound || strings.EqualFold(e.Code, "Not Found") {
			return Response{}, fmt.Errorf("%w: %s", apperrors.ErrSymbolNotFound, e.Description)
		}
		return Response{}, fmt.Errorf("yahoo error: %s: %s", e.Code, e.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}

	return response, nil
}
