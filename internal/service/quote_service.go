package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/ledger"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/logger"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/metrics"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/repository"
)

// QuoteProvider fetches the current price and reference prices of a symbol.
type QuoteProvider interface {
	QuoteSnapshot(ctx context.Context, symbol string, asOf time.Time) (model.PriceSnapshot, error)
}

// LedgerSource supplies the holdings ledger.
type LedgerSource interface {
	Entries(ctx context.Context) ([]model.LedgerEntry, error)
}

// RefreshResult reports the outcome of a quote refresh. Failed maps a symbol to
// the reason no quote was stored; its previously cached quote, if any, is kept.
type RefreshResult struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed"`
}

// QuoteService refreshes the quote cache from a QuoteProvider.
type QuoteService struct {
	ledger      LedgerSource
	quoteRepo   *repository.QuoteRepository
	provider    QuoteProvider
	concurrency int
	now         func() time.Time
	logger      zerolog.Logger
}

// NewQuoteService creates a QuoteService. concurrency bounds the number of
// provider requests in flight; values below one are treated as one.
func NewQuoteService(
	ledger LedgerSource,
	quoteRepo *repository.QuoteRepository,
	provider QuoteProvider,
	concurrency int,
) *QuoteService {
	return &QuoteService{
		ledger:      ledger,
		quoteRepo:   quoteRepo,
		provider:    provider,
		concurrency: max(concurrency, 1),
		now:         time.Now,
		logger:      logger.Component("quotes"),
	}
}

// Refresh fetches quotes for symbols concurrently and stores the successful ones
// in a single transaction. A symbol the provider cannot price is reported in
// RefreshResult.Failed and never replaced by a made-up price.
//
// Returns an error only if the context is cancelled or the quotes cannot be stored.
func (s *QuoteService) Refresh(ctx context.Context, symbols []string) (RefreshResult, error) {
	asOf := s.now().UTC()
	result := RefreshResult{Updated: []string{}, Failed: map[string]string{}}

	var (
		mu     sync.Mutex
		quotes []model.PriceSnapshot
		g      errgroup.Group
	)
	g.SetLimit(s.concurrency)

	for _, symbol := range uniqueSymbols(symbols) {
		g.Go(func() error {
			q, err := s.provider.QuoteSnapshot(ctx, symbol, asOf)
			if err == nil && q.Price <= 0 {
				err = fmt.Errorf("%w: provider returned no price", apperrors.ErrSymbolNotFound)
			}

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				q.Symbol = symbol
				quotes = append(quotes, q)
				metrics.QuoteFetches.WithLabelValues("ok").Inc()
			case errors.Is(err, apperrors.ErrSymbolNotFound):
				result.Failed[symbol] = err.Error()
				metrics.QuoteFetches.WithLabelValues("not_found").Inc()
			default:
				result.Failed[symbol] = err.Error()
				metrics.QuoteFetches.WithLabelValues("error").Inc()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return RefreshResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshQuotes, err)
	}

	if err := s.quoteRepo.UpsertQuotes(ctx, quotes); err != nil {
		return RefreshResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToRefreshQuotes, err)
	}

	for _, q := range quotes {
		result.Updated = append(result.Updated, q.Symbol)
	}
	slices.Sort(result.Updated)

	s.logger.Info().
		Int("updated", len(result.Updated)).
		Int("failed", len(result.Failed)).
		Msg("quotes refreshed")
	for symbol, reason := range result.Failed {
		s.logger.Warn().Str("symbol", symbol).Str("reason", reason).Msg("quote not refreshed")
	}

	return result, nil
}

// RefreshHoldings refreshes the quotes of every ticker in the ledger.
func (s *QuoteService) RefreshHoldings(ctx context.Context) (RefreshResult, error) {
	entries, err := s.ledger.Entries(ctx)
	if err != nil {
		return RefreshResult{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadLedger, err)
	}
	return s.Refresh(ctx, ledger.Tickers(entries))
}

// Quotes returns every cached quote keyed by symbol.
func (s *QuoteService) Quotes(ctx context.Context) (map[string]model.PriceSnapshot, error) {
	quotes, err := s.quoteRepo.GetQuotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToRetrieveQuotes, err)
	}
	return quotes, nil
}

// Quote returns the cached quote of symbol, or apperrors.ErrQuoteNotFound.
func (s *QuoteService) Quote(ctx context.Context, symbol string) (model.PriceSnapshot, error) {
	return s.quoteRepo.GetQuote(ctx, strings.ToUpper(symbol))
}

func uniqueSymbols(symbols []string) []string {
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
