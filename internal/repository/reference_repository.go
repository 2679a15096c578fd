package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

// ReferenceRepository provides data access methods for the reference tables:
// asset, asset_class, sector, industry, currency, region, country and market.
type ReferenceRepository struct {
	db *sql.DB
}

// NewReferenceRepository creates a new ReferenceRepository with the provided database connection.
func NewReferenceRepository(db *sql.DB) *ReferenceRepository {
	return &ReferenceRepository{db: db}
}

// GetAssets retrieves all assets ordered by ticker. Tickers are returned upper case.
func (r *ReferenceRepository) GetAssets(ctx context.Context) ([]model.Asset, error) {
	query := `
		SELECT id, ticker, name, asset_class_id, currency, sector_id, industry_id,
		       country_id, market_id, historical_return, forecast_return
		FROM asset
		ORDER BY ticker
	`
	return queryAll(ctx, r.db, "asset", query, func(rows *sql.Rows) (model.Asset, error) {
		var a model.Asset
		var sector, industry, country, market sql.NullString
		var historical, forecast sql.NullFloat64
		err := rows.Scan(
			&a.ID,
			&a.Ticker,
			&a.Name,
			&a.AssetClassID,
			&a.Currency,
			&sector,
			&industry,
			&country,
			&market,
			&historical,
			&forecast,
		)
		a.Ticker = strings.ToUpper(a.Ticker)
		a.SectorID = sector.String
		a.IndustryID = industry.String
		a.CountryID = country.String
		a.MarketID = market.String
		a.HistoricalReturn = floatPtr(historical)
		a.ForecastReturn = floatPtr(forecast)
		return a, err
	})
}

// GetAssetClasses retrieves all asset classes ordered by name.
func (r *ReferenceRepository) GetAssetClasses(ctx context.Context) ([]model.AssetClass, error) {
	return queryAll(ctx, r.db, "asset_class", `SELECT id, name FROM asset_class ORDER BY name`,
		func(rows *sql.Rows) (model.AssetClass, error) {
			var c model.AssetClass
			err := rows.Scan(&c.ID, &c.Name)
			return c, err
		})
}

// GetSectors retrieves all sectors ordered by name.
func (r *ReferenceRepository) GetSectors(ctx context.Context) ([]model.Sector, error) {
	return queryAll(ctx, r.db, "sector", `SELECT id, name FROM sector ORDER BY name`,
		func(rows *sql.Rows) (model.Sector, error) {
			var s model.Sector
			err := rows.Scan(&s.ID, &s.Name)
			return s, err
		})
}

// GetIndustries retrieves all industries ordered by name.
func (r *ReferenceRepository) GetIndustries(ctx context.Context) ([]model.Industry, error) {
	return queryAll(ctx, r.db, "industry", `SELECT id, name, sector_id FROM industry ORDER BY name`,
		func(rows *sql.Rows) (model.Industry, error) {
			var i model.Industry
			var sector sql.NullString
			err := rows.Scan(&i.ID, &i.Name, &sector)
			i.SectorID = sector.String
			return i, err
		})
}

// GetCurrencies retrieves all currencies ordered by code.
func (r *ReferenceRepository) GetCurrencies(ctx context.Context) ([]model.Currency, error) {
	return queryAll(ctx, r.db, "currency", `SELECT code, name, rate FROM currency ORDER BY code`,
		func(rows *sql.Rows) (model.Currency, error) {
			var c model.Currency
			var rate sql.NullFloat64
			err := rows.Scan(&c.Code, &c.Name, &rate)
			c.Code = strings.ToUpper(c.Code)
			c.Rate = floatPtr(rate)
			return c, err
		})
}

// GetRegions retrieves all regions ordered by name.
func (r *ReferenceRepository) GetRegions(ctx context.Context) ([]model.Region, error) {
	return queryAll(ctx, r.db, "region", `SELECT id, name FROM region ORDER BY name`,
		func(rows *sql.Rows) (model.Region, error) {
			var reg model.Region
			err := rows.Scan(&reg.ID, &reg.Name)
			return reg, err
		})
}

// GetCountries retrieves all countries ordered by name.
func (r *ReferenceRepository) GetCountries(ctx context.Context) ([]model.Country, error) {
	return queryAll(ctx, r.db, "country", `SELECT id, name, iso_code, region_id FROM country ORDER BY name`,
		func(rows *sql.Rows) (model.Country, error) {
			var c model.Country
			var region sql.NullString
			err := rows.Scan(&c.ID, &c.Name, &c.ISOCode, &region)
			c.RegionID = region.String
			return c, err
		})
}

// GetMarkets retrieves all markets ordered by name.
func (r *ReferenceRepository) GetMarkets(ctx context.Context) ([]model.Market, error) {
	return queryAll(ctx, r.db, "market", `SELECT id, name, mic, country_id FROM market ORDER BY name`,
		func(rows *sql.Rows) (model.Market, error) {
			var m model.Market
			var country sql.NullString
			err := rows.Scan(&m.ID, &m.Name, &m.MIC, &country)
			m.CountryID = country.String
			return m, err
		})
}

// GetRateTable returns the FX rate of every currency that has one, keyed by upper case code.
func (r *ReferenceRepository) GetRateTable(ctx context.Context) (map[string]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT code, rate FROM currency WHERE rate IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to query currency rates: %w", err)
	}
	defer rows.Close()

	rates := make(map[string]float64)
	for rows.Next() {
		var code string
		var rate float64
		if err := rows.Scan(&code, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan currency rate: %w", err)
		}
		rates[strings.ToUpper(code)] = rate
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currency rates: %w", err)
	}
	return rates, nil
}

// Load reads every reference table into one ReferenceData bundle.
func (r *ReferenceRepository) Load(ctx context.Context) (model.ReferenceData, error) {
	var ref model.ReferenceData
	var err error

	if ref.Assets, err = r.GetAssets(ctx); err != nil {
		return model.ReferenceData{}, err
	}
	if ref.AssetClasses, err = r.GetAssetClasses(ctx); err != nil {
		return model.ReferenceData{}, err
	}
	if ref.Sectors, err = r.GetSectors(ctx); err != nil {
		return model.ReferenceData{}, err
	}
	if ref.Industries, err = r.GetIndustries(ctx); err != nil {
		return model.ReferenceData{}, err
	}
	if ref.Currencies, err = r.GetCurrencies(ctx); err != nil {
		return model.ReferenceData{}, err
	}
	if ref.Regions, err = r.GetRegions(ctx); err != nil {
		return model.ReferenceData{}, err
	}
	if ref.Countries, err = r.GetCountries(ctx); err != nil {
		return model.ReferenceData{}, err
	}
	if ref.Markets, err = r.GetMarkets(ctx); err != nil {
		return model.ReferenceData{}, err
	}
	return ref, nil
}

// Save upserts every row of ref in a single transaction. Rows already stored
// but absent from ref are left untouched. Parent tables are written first so
// the foreign keys of industry, country and market resolve.
//
//nolint:funlen // One statement per reference table
func (r *ReferenceRepository) Save(ctx context.Context, ref model.ReferenceData) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, c := range ref.AssetClasses {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO asset_class (id, name) VALUES (?, ?)
				ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
				c.ID, c.Name); err != nil {
				return fmt.Errorf("failed to save asset class %s: %w", c.ID, err)
			}
		}
		for _, s := range ref.Sectors {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO sector (id, name) VALUES (?, ?)
				ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
				s.ID, s.Name); err != nil {
				return fmt.Errorf("failed to save sector %s: %w", s.ID, err)
			}
		}
		for _, i := range ref.Industries {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO industry (id, name, sector_id) VALUES (?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET name = excluded.name, sector_id = excluded.sector_id`,
				i.ID, i.Name, nullString(i.SectorID)); err != nil {
				return fmt.Errorf("failed to save industry %s: %w", i.ID, err)
			}
		}
		for _, c := range ref.Currencies {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO currency (code, name, rate) VALUES (?, ?, ?)
				ON CONFLICT(code) DO UPDATE SET name = excluded.name, rate = excluded.rate`,
				strings.ToUpper(c.Code), c.Name, nullFloat(c.Rate)); err != nil {
				return fmt.Errorf("failed to save currency %s: %w", c.Code, err)
			}
		}
		for _, reg := range ref.Regions {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO region (id, name) VALUES (?, ?)
				ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
				reg.ID, reg.Name); err != nil {
				return fmt.Errorf("failed to save region %s: %w", reg.ID, err)
			}
		}
		for _, c := range ref.Countries {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO country (id, name, iso_code, region_id) VALUES (?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET name = excluded.name, iso_code = excluded.iso_code, region_id = excluded.region_id`,
				c.ID, c.Name, c.ISOCode, nullString(c.RegionID)); err != nil {
				return fmt.Errorf("failed to save country %s: %w", c.ID, err)
			}
		}
		for _, m := range ref.Markets {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO market (id, name, mic, country_id) VALUES (?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET name = excluded.name, mic = excluded.mic, country_id = excluded.country_id`,
				m.ID, m.Name, m.MIC, nullString(m.CountryID)); err != nil {
				return fmt.Errorf("failed to save market %s: %w", m.ID, err)
			}
		}
		for _, a := range ref.Assets {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO asset (id, ticker, name, asset_class_id, currency, sector_id, industry_id,
				                   country_id, market_id, historical_return, forecast_return)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				ON CONFLICT(id) DO UPDATE SET
					ticker = excluded.ticker, name = excluded.name,
					asset_class_id = excluded.asset_class_id, currency = excluded.currency,
					sector_id = excluded.sector_id, industry_id = excluded.industry_id,
					country_id = excluded.country_id, market_id = excluded.market_id,
					historical_return = excluded.historical_return, forecast_return = excluded.forecast_return`,
				a.ID, strings.ToUpper(a.Ticker), a.Name, a.AssetClassID, strings.ToUpper(a.Currency),
				nullString(a.SectorID), nullString(a.IndustryID), nullString(a.CountryID), nullString(a.MarketID),
				nullFloat(a.HistoricalReturn), nullFloat(a.ForecastReturn)); err != nil {
				return fmt.Errorf("failed to save asset %s: %w", a.Ticker, err)
			}
		}
		return nil
	})
}
