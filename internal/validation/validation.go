package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidUUID, id)
	}
	return nil
}

// ValidateCurrencyCode checks that code is a three letter currency code.
// Case is not significant.
func ValidateCurrencyCode(code string) error {
	if len(code) != 3 {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidCurrency, code)
	}
	for _, r := range strings.ToUpper(code) {
		if r < 'A' || r > 'Z' {
			return fmt.Errorf("%w: %q", apperrors.ErrInvalidCurrency, code)
		}
	}
	return nil
}

// ValidateSymbol checks that symbol looks like a quote provider ticker:
// 1 to 20 characters of letters, digits and ".-^=".
func ValidateSymbol(symbol string) error {
	if symbol == "" || len(symbol) > 20 {
		return fmt.Errorf("%w: %q", apperrors.ErrInvalidSymbol, symbol)
	}
	for _, r := range symbol {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case strings.ContainsRune(".-^=", r):
		default:
			return fmt.Errorf("%w: %q", apperrors.ErrInvalidSymbol, symbol)
		}
	}
	return nil
}
