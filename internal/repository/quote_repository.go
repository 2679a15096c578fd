package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

// QuoteRepository provides data access methods for the quote cache table.
type QuoteRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewQuoteRepository creates a new QuoteRepository with the provided database connection.
func NewQuoteRepository(db *sql.DB) *QuoteRepository {
	return &QuoteRepository{db: db}
}

func (r *QuoteRepository) WithTx(tx *sql.Tx) *QuoteRepository {
	return &QuoteRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *QuoteRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const quoteColumns = `symbol, price, last_close, month_ago, year_ago, updated_at`

func scanQuote(scan func(dest ...any) error) (model.PriceSnapshot, error) {
	var q model.PriceSnapshot
	var lastClose, monthAgo, yearAgo sql.NullFloat64
	var updatedAt string
	if err := scan(&q.Symbol, &q.Price, &lastClose, &monthAgo, &yearAgo, &updatedAt); err != nil {
		return model.PriceSnapshot{}, err
	}
	q.LastClose = lastClose.Float64
	q.MonthAgo = monthAgo.Float64
	q.YearAgo = yearAgo.Float64

	t, err := ParseTime(updatedAt)
	if err != nil {
		return model.PriceSnapshot{}, fmt.Errorf("quote %s: %w", q.Symbol, err)
	}
	q.UpdatedAt = t
	return q, nil
}

// GetQuotes returns every cached quote keyed by upper case symbol.
func (r *QuoteRepository) GetQuotes(ctx context.Context) (map[string]model.PriceSnapshot, error) {
	list, err := queryAll(ctx, r.getQuerier(), "quote", `SELECT `+quoteColumns+` FROM quote`,
		func(rows *sql.Rows) (model.PriceSnapshot, error) { return scanQuote(rows.Scan) })
	if err != nil {
		return nil, err
	}

	quotes := make(map[string]model.PriceSnapshot, len(list))
	for _, q := range list {
		quotes[strings.ToUpper(q.Symbol)] = q
	}
	return quotes, nil
}

// GetQuote returns the cached quote of one symbol, or apperrors.ErrQuoteNotFound.
func (r *QuoteRepository) GetQuote(ctx context.Context, symbol string) (model.PriceSnapshot, error) {
	row := r.getQuerier().QueryRowContext(ctx,
		`SELECT `+quoteColumns+` FROM quote WHERE symbol = ?`, strings.ToUpper(symbol))

	q, err := scanQuote(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PriceSnapshot{}, fmt.Errorf("%w: %s", apperrors.ErrQuoteNotFound, symbol)
	}
	if err != nil {
		return model.PriceSnapshot{}, fmt.Errorf("failed to get quote %s: %w", symbol, err)
	}
	return q, nil
}

// UpsertQuote inserts or replaces the cached quote of q.Symbol.
// Zero reference prices are stored as NULL.
func (r *QuoteRepository) UpsertQuote(ctx context.Context, q model.PriceSnapshot) error {
	updated := q.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err := r.getQuerier().ExecContext(ctx, `
		INSERT INTO quote (`+quoteColumns+`) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			price = excluded.price,
			last_close = excluded.last_close,
			month_ago = excluded.month_ago,
			year_ago = excluded.year_ago,
			updated_at = excluded.updated_at`,
		strings.ToUpper(q.Symbol),
		q.Price,
		positive(q.LastClose),
		positive(q.MonthAgo),
		positive(q.YearAgo),
		updated.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert quote %s: %w", q.Symbol, err)
	}
	return nil
}

// UpsertQuotes stores all quotes in one transaction.
func (r *QuoteRepository) UpsertQuotes(ctx context.Context, quotes []model.PriceSnapshot) error {
	if len(quotes) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		txRepo := r.WithTx(tx)
		for _, q := range quotes {
			if err := txRepo.UpsertQuote(ctx, q); err != nil {
				return err
			}
		}
		return nil
	})
}

func positive(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v > 0}
}
