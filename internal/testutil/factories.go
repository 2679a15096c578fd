package testutil

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

// AssetBuilder provides a fluent interface for creating test assets.
//
// Example usage:
//
//	class := testutil.CreateAssetClass(t, db, "Equity")
//	asset := testutil.NewAsset(class.ID).
//	    WithTicker("AAPL").
//	    WithHistoricalReturn(0.1).
//	    Build(t, db)
type AssetBuilder struct {
	asset model.Asset
}

// NewAsset creates an AssetBuilder for a USD asset with a random ticker.
func NewAsset(assetClassID string) *AssetBuilder {
	ticker := MakeSymbol("TST")
	return &AssetBuilder{asset: model.Asset{
		ID:           MakeID(),
		Ticker:       ticker,
		Name:         ticker + " Inc.",
		AssetClassID: assetClassID,
		Currency:     "USD",
	}}
}

// WithTicker sets a custom ticker.
func (b *AssetBuilder) WithTicker(ticker string) *AssetBuilder {
	b.asset.Ticker = strings.ToUpper(ticker)
	return b
}

// WithName sets a custom name.
func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.asset.Name = name
	return b
}

// WithCurrency sets the currency the asset is quoted in.
func (b *AssetBuilder) WithCurrency(code string) *AssetBuilder {
	b.asset.Currency = strings.ToUpper(code)
	return b
}

// WithSector links the asset to a sector.
func (b *AssetBuilder) WithSector(id string) *AssetBuilder {
	b.asset.SectorID = id
	return b
}

// WithCountry links the asset to a country.
func (b *AssetBuilder) WithCountry(id string) *AssetBuilder {
	b.asset.CountryID = id
	return b
}

// WithMarket links the asset to a market.
func (b *AssetBuilder) WithMarket(id string) *AssetBuilder {
	b.asset.MarketID = id
	return b
}

// WithHistoricalReturn sets the long-run return assumption.
func (b *AssetBuilder) WithHistoricalReturn(r float64) *AssetBuilder {
	b.asset.HistoricalReturn = &r
	return b
}

// WithForecastReturn sets the forward return forecast.
func (b *AssetBuilder) WithForecastReturn(r float64) *AssetBuilder {
	b.asset.ForecastReturn = &r
	return b
}

// Build creates the asset in the database and returns it.
func (b *AssetBuilder) Build(t *testing.T, db *sql.DB) model.Asset {
	t.Helper()

	a := b.asset
	query := `
		INSERT INTO asset (id, ticker, name, asset_class_id, currency, sector_id, industry_id,
		                   country_id, market_id, historical_return, forecast_return)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := db.Exec(query, a.ID, a.Ticker, a.Name, a.AssetClassID, a.Currency,
		nullable(a.SectorID), nullable(a.IndustryID), nullable(a.CountryID), nullable(a.MarketID),
		a.HistoricalReturn, a.ForecastReturn)
	if err != nil {
		t.Fatalf("Failed to create test asset: %v", err)
	}

	return a
}

// CreateAssetClass creates an asset class with the given name.
func CreateAssetClass(t *testing.T, db *sql.DB, name string) model.AssetClass {
	t.Helper()

	c := model.AssetClass{ID: MakeID(), Name: name}
	if _, err := db.Exec(`INSERT INTO asset_class (id, name) VALUES (?, ?)`, c.ID, c.Name); err != nil {
		t.Fatalf("Failed to create test asset class: %v", err)
	}
	return c
}

// CreateSector creates a sector with the given name.
func CreateSector(t *testing.T, db *sql.DB, name string) model.Sector {
	t.Helper()

	s := model.Sector{ID: MakeID(), Name: name}
	if _, err := db.Exec(`INSERT INTO sector (id, name) VALUES (?, ?)`, s.ID, s.Name); err != nil {
		t.Fatalf("Failed to create test sector: %v", err)
	}
	return s
}

// CreateCurrency creates a currency. A nil rate stores NULL.
//
// Example usage:
//
//	eur := testutil.CreateCurrency(t, db, "EUR", testutil.Rate(0.92))
func CreateCurrency(t *testing.T, db *sql.DB, code string, rate *float64) model.Currency {
	t.Helper()

	c := model.Currency{Code: strings.ToUpper(code), Name: code + " currency", Rate: rate}
	if _, err := db.Exec(`INSERT INTO currency (code, name, rate) VALUES (?, ?, ?)`, c.Code, c.Name, rate); err != nil {
		t.Fatalf("Failed to create test currency: %v", err)
	}
	return c
}

// CreateCountry creates a country without a region.
func CreateCountry(t *testing.T, db *sql.DB, name, iso string) model.Country {
	t.Helper()

	c := model.Country{ID: MakeID(), Name: name, ISOCode: iso}
	if _, err := db.Exec(`INSERT INTO country (id, name, iso_code) VALUES (?, ?, ?)`, c.ID, c.Name, c.ISOCode); err != nil {
		t.Fatalf("Failed to create test country: %v", err)
	}
	return c
}

// CreateMarket creates a market located in countryID.
func CreateMarket(t *testing.T, db *sql.DB, name, mic, countryID string) model.Market {
	t.Helper()

	m := model.Market{ID: MakeID(), Name: name, MIC: mic, CountryID: countryID}
	if _, err := db.Exec(`INSERT INTO market (id, name, mic, country_id) VALUES (?, ?, ?, ?)`,
		m.ID, m.Name, m.MIC, nullable(countryID)); err != nil {
		t.Fatalf("Failed to create test market: %v", err)
	}
	return m
}

// CreateQuote stores a cached quote for symbol.
func CreateQuote(t *testing.T, db *sql.DB, symbol string, price, lastClose, monthAgo, yearAgo float64) model.PriceSnapshot {
	t.Helper()

	q := model.PriceSnapshot{
		Symbol:    strings.ToUpper(symbol),
		Price:     price,
		LastClose: lastClose,
		MonthAgo:  monthAgo,
		YearAgo:   yearAgo,
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
	_, err := db.Exec(`
		INSERT INTO quote (symbol, price, last_close, month_ago, year_ago, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		q.Symbol, q.Price, lastClose, monthAgo, yearAgo, q.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test quote: %v", err)
	}
	return q
}

// Rate returns a pointer to r, for optional float fields.
func Rate(r float64) *float64 {
	return &r
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
