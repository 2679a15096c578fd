package service

import "context"

// QuoteRefreshJob refreshes the quotes of all ledger holdings on a schedule.
type QuoteRefreshJob struct {
	quotes *QuoteService
}

// NewQuoteRefreshJob creates a QuoteRefreshJob.
func NewQuoteRefreshJob(quotes *QuoteService) *QuoteRefreshJob {
	return &QuoteRefreshJob{quotes: quotes}
}

func (j *QuoteRefreshJob) Name() string { return "quote-refresh" }

// Run refreshes all holdings. Symbols the provider cannot price are logged by
// the quote service and do not fail the run.
func (j *QuoteRefreshJob) Run(ctx context.Context) error {
	_, err := j.quotes.RefreshHoldings(ctx)
	return err
}
