package model

import "time"

// LedgerEntry is one purchase lot from the holdings ledger.
// PurchasePrice is nil when the ledger does not record it.
type LedgerEntry struct {
	Ticker        string    `json:"ticker"`
	Quantity      float64   `json:"quantity"`
	PurchasePrice *float64  `json:"purchasePrice,omitempty"`
	PurchaseDate  time.Time `json:"purchaseDate"`
}

// Holding is one position joined with its asset metadata. Monetary values are
// expressed in the base currency once the snapshot computation has normalized them.
// CostBasis is nil when it is unknown.
type Holding struct {
	Ticker           string
	Name             string
	AssetClassID     string
	Currency         string
	SectorID         string
	CountryID        string
	MarketID         string
	Quantity         float64
	CostBasis        *float64
	CurrentValue     float64
	HistoricalReturn *float64
	ForecastReturn   *float64
}
