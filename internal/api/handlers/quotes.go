package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/api/request"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/service"
)

// QuoteHandler handles HTTP requests for the quote cache.
type QuoteHandler struct {
	quoteService *service.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteService *service.QuoteService) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
	}
}

// Quotes handles GET requests for every cached quote.
//
// Endpoint: GET /api/quotes
// Response: 200 OK with a map of symbol to model.PriceSnapshot
func (h *QuoteHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quoteService.Quotes(r.Context())
	if err != nil {
		respondServiceError(w, "failed to retrieve quotes", err)
		return
	}

	respondJSON(w, http.StatusOK, quotes)
}

// Quote handles GET requests for one cached quote.
//
// Endpoint: GET /api/quotes/{symbol}
// Response: 200 OK with model.PriceSnapshot
// Error: 404 Not Found if the symbol has no cached quote
func (h *QuoteHandler) Quote(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quoteService.Quote(r.Context(), chi.URLParam(r, "symbol"))
	if err != nil {
		respondServiceError(w, "failed to retrieve quote", err)
		return
	}

	respondJSON(w, http.StatusOK, quote)
}

// Refresh handles POST requests to refresh quotes from the provider. With no
// body, every ledger holding is refreshed; otherwise only the listed symbols.
// Symbols the provider could not price are listed under "failed".
//
// Endpoint: POST /api/quotes/refresh
// Request: optional request.RefreshQuotesRequest
// Response: 200 OK with service.RefreshResult
// Error: 400 Bad Request for an invalid body
func (h *QuoteHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	req, err := request.ParseRefreshQuotes(r.Body)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid refresh request", err.Error())
		return
	}

	var result service.RefreshResult
	if len(req.Symbols) == 0 {
		result, err = h.quoteService.RefreshHoldings(r.Context())
	} else {
		result, err = h.quoteService.Refresh(r.Context(), req.Symbols)
	}
	if err != nil {
		respondServiceError(w, "failed to refresh quotes", err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}
