package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

// WriteLedger writes a holdings ledger file into a temporary directory and returns its path.
//
// Example usage:
//
//	path := testutil.WriteLedger(t, `
//	[[holding]]
//	ticker = "AAPL"
//	quantity = 10
//	`)
func WriteLedger(t *testing.T, contents string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "holdings.toml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("Failed to write test ledger: %v", err)
	}
	return path
}

// StaticLedger is a ledger source returning fixed entries or a fixed error.
type StaticLedger struct {
	Lots []model.LedgerEntry
	Err  error
}

// Entries implements the ledger source interface.
func (l StaticLedger) Entries(context.Context) ([]model.LedgerEntry, error) {
	return l.Lots, l.Err
}
