// Package apperrors defines the sentinel errors shared across layers.
// Callers wrap them with fmt.Errorf("...: %w") and match with errors.Is.
package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrQuoteNotFound indicates no cached quote exists for a symbol.
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrLedgerNotFound indicates the holdings ledger file does not exist.
	ErrLedgerNotFound = errors.New("holdings ledger not found")

	// ErrSymbolNotFound indicates that a symbol lookup returned no results
	ErrSymbolNotFound = errors.New("symbol not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrInvalidLedger indicates the holdings ledger failed validation.
	ErrInvalidLedger = errors.New("invalid holdings ledger")

	// ErrInvalidSymbol indicates a ticker symbol contains characters no exchange uses.
	ErrInvalidSymbol = errors.New("invalid symbol")

	// ErrInvalidCurrency indicates a currency code is not a 3-letter ISO code.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrInvalidConfiguration indicates a configuration value could not be used.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// Operation failure errors represent system-level failures when retrieving or processing data.
// These errors indicate that an operation failed, but not due to missing entities or validation issues.
var (
	// ErrSnapshotUnavailable indicates the inputs of a snapshot could not be loaded.
	ErrSnapshotUnavailable = errors.New("portfolio snapshot unavailable")

	ErrFailedToRetrieveReference = errors.New("failed to retrieve reference data")
	ErrFailedToRetrieveQuotes    = errors.New("failed to retrieve quotes")
	ErrFailedToRetrieveRates     = errors.New("failed to retrieve exchange rates")
	ErrFailedToLoadLedger        = errors.New("failed to load holdings ledger")
	ErrFailedToRefreshQuotes     = errors.New("failed to refresh quotes")
)

// Data integrity errors represent inconsistencies or corruption in the data.
// A snapshot is never produced when one of these is raised.
var (
	// ErrDataInconsistency indicates that the data is in an inconsistent state
	// (e.g., an asset references a sector that does not exist).
	ErrDataInconsistency = errors.New("data inconsistency detected")

	// ErrUnknownTicker indicates a ledger holding has no matching asset reference row.
	ErrUnknownTicker = errors.New("holding references unknown ticker")

	// ErrUnknownAssetClass indicates an asset references an asset class that does not exist.
	ErrUnknownAssetClass = errors.New("asset references unknown asset class")

	// ErrUnknownCurrency indicates an asset is denominated in a currency missing from the reference data.
	ErrUnknownCurrency = errors.New("asset references unknown currency")

	// ErrZeroTotalValue indicates a weighted figure was requested for holdings whose total value is zero.
	ErrZeroTotalValue = errors.New("total portfolio value is zero")

	// ErrMissingRequiredField indicates that a required field is missing or empty.
	ErrMissingRequiredField = errors.New("missing required field")
)

// IsIntegrityError reports whether err is one of the data integrity errors.
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrDataInconsistency) ||
		errors.Is(err, ErrUnknownTicker) ||
		errors.Is(err, ErrUnknownAssetClass) ||
		errors.Is(err, ErrUnknownCurrency) ||
		errors.Is(err, ErrZeroTotalValue) ||
		errors.Is(err, ErrMissingRequiredField)
}
