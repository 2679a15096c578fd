// Package ledger reads the holdings ledger: a TOML file listing one table per
// purchase lot.
//
//	[[holding]]
//	ticker = "AAPL"
//	quantity = 10
//	purchase_price = 150.25   # optional, in the asset's currency
//	purchase_date = 2024-01-15 # optional
package ledger

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/validation"
)

type document struct {
	Holdings []lot `toml:"holding"`
}

type lot struct {
	Ticker        string          `toml:"ticker"`
	Quantity      float64         `toml:"quantity"`
	PurchasePrice *float64        `toml:"purchase_price"`
	PurchaseDate  *toml.LocalDate `toml:"purchase_date"`
}

// Parse decodes and validates a ledger. Unknown keys are rejected so that a
// misspelled purchase_price is not silently read as an unknown cost.
// Tickers are upper-cased. now bounds purchase dates.
func Parse(r io.Reader, now time.Time) ([]model.LedgerEntry, error) {
	var doc document
	dec := toml.NewDecoder(r).DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidLedger, strict.String())
		}
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidLedger, err)
	}

	entries := make([]model.LedgerEntry, len(doc.Holdings))
	for i, h := range doc.Holdings {
		entries[i] = model.LedgerEntry{
			Ticker:        strings.ToUpper(strings.TrimSpace(h.Ticker)),
			Quantity:      h.Quantity,
			PurchasePrice: h.PurchasePrice,
		}
		if h.PurchaseDate != nil {
			entries[i].PurchaseDate = h.PurchaseDate.AsTime(time.UTC)
		}
	}

	if err := validation.ValidateLedger(entries, now); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidLedger, err)
	}
	return entries, nil
}

// Tickers returns the distinct tickers of entries in sorted order.
func Tickers(entries []model.LedgerEntry) []string {
	tickers := make([]string, 0, len(entries))
	for _, e := range entries {
		tickers = append(tickers, strings.ToUpper(e.Ticker))
	}
	slices.SortFunc(tickers, cmp.Compare[string])
	return slices.Compact(tickers)
}

// FileSource reads the ledger from a file on every call, so edits are picked
// up without a restart.
type FileSource struct {
	path string
	now  func() time.Time
}

// NewFileSource creates a FileSource for the ledger at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, now: time.Now}
}

// Entries reads and parses the ledger file. A missing file yields apperrors.ErrLedgerNotFound.
func (s *FileSource) Entries(ctx context.Context) ([]model.LedgerEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrLedgerNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrFailedToLoadLedger, err)
	}
	defer f.Close()

	entries, err := Parse(f, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return entries, nil
}

// Path returns the ledger file location.
func (s *FileSource) Path() string {
	return s.path
}
