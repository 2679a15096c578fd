package validation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

// ValidateLedgerEntry validates one ledger lot. now bounds the purchase date.
//
// Required fields:
//   - ticker: non-empty
//   - quantity: finite and positive
//
// Optional fields (validated if provided):
//   - purchasePrice: finite and not negative
//   - purchaseDate: not after now
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateLedgerEntry(entry model.LedgerEntry, now time.Time) error {
	return errorOrNil(ledgerEntryErrors("", entry, now))
}

// ValidateLedger validates every lot of a ledger and reports all failures at once.
// Field names are prefixed with the lot index, for example "holding[2].quantity".
func ValidateLedger(entries []model.LedgerEntry, now time.Time) error {
	errors := make(map[string]string)
	for i, entry := range entries {
		for field, msg := range ledgerEntryErrors(fmt.Sprintf("holding[%d].", i), entry, now) {
			errors[field] = msg
		}
	}
	return errorOrNil(errors)
}

func ledgerEntryErrors(prefix string, entry model.LedgerEntry, now time.Time) map[string]string {
	errors := make(map[string]string)

	if strings.TrimSpace(entry.Ticker) == "" {
		errors[prefix+"ticker"] = "ticker is required"
	}

	if math.IsNaN(entry.Quantity) || math.IsInf(entry.Quantity, 0) || entry.Quantity <= 0 {
		errors[prefix+"quantity"] = "quantity must be positive"
	}

	if p := entry.PurchasePrice; p != nil && (math.IsNaN(*p) || math.IsInf(*p, 0) || *p < 0) {
		errors[prefix+"purchasePrice"] = "purchasePrice cannot be negative"
	}

	if !entry.PurchaseDate.IsZero() && entry.PurchaseDate.After(now) {
		errors[prefix+"purchaseDate"] = "purchaseDate cannot be in the future"
	}

	return errors
}
