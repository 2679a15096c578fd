package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/analytics"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/repository"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/service"
)

// NewTestSnapshotService creates a SnapshotService over db with USD defaults.
func NewTestSnapshotService(t *testing.T, db *sql.DB, ledger service.LedgerSource) *service.SnapshotService {
	t.Helper()

	return service.NewSnapshotService(
		ledger,
		repository.NewReferenceRepository(db),
		repository.NewQuoteRepository(db),
		analytics.DefaultOptions(),
	)
}

// NewTestQuoteService creates a QuoteService over db using provider.
func NewTestQuoteService(t *testing.T, db *sql.DB, ledger service.LedgerSource, provider service.QuoteProvider) *service.QuoteService {
	t.Helper()

	return service.NewQuoteService(
		ledger,
		repository.NewQuoteRepository(db),
		provider,
		4,
	)
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
