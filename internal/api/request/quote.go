// Package request decodes and validates HTTP request bodies.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/validation"
)

// RefreshQuotesRequest represents the optional body of a manual quote refresh.
// An empty Symbols list refreshes every ledger holding.
type RefreshQuotesRequest struct {
	Symbols []string `json:"symbols"`
}

// ParseRefreshQuotes decodes a RefreshQuotesRequest. An empty body is valid.
// Symbols are upper-cased and validated.
func ParseRefreshQuotes(body io.Reader) (RefreshQuotesRequest, error) {
	var req RefreshQuotesRequest
	if body == nil {
		return req, nil
	}

	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return RefreshQuotesRequest{}, fmt.Errorf("invalid request body: %w", err)
	}

	fieldErrors := make(map[string]string)
	for i, s := range req.Symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if err := validation.ValidateSymbol(s); err != nil {
			fieldErrors[fmt.Sprintf("symbols[%d]", i)] = err.Error()
		}
		req.Symbols[i] = s
	}
	if len(fieldErrors) > 0 {
		return RefreshQuotesRequest{}, &validation.Error{Fields: fieldErrors}
	}
	return req, nil
}
