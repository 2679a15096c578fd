package model

// AssetClass is a categorical grouping of holdings (Equity, Fixed Income, Cash, ...).
type AssetClass struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Sector represents an economic sector from the reference store.
type Sector struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Industry represents an industry, optionally belonging to a sector.
type Industry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	SectorID string `json:"sectorId,omitempty"`
}

// Currency is a currency reference row. Rate, when set, expresses how many
// units of this currency equal one unit of the base currency.
type Currency struct {
	Code string   `json:"code"`
	Name string   `json:"name"`
	Rate *float64 `json:"rate,omitempty"`
}

// Region groups countries (Europe, North America, ...).
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Country is a country reference row.
type Country struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ISOCode  string `json:"isoCode"`
	RegionID string `json:"regionId,omitempty"`
}

// Market is an exchange or trading venue.
type Market struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	MIC       string `json:"mic"`
	CountryID string `json:"countryId,omitempty"`
}

// Asset is the reference metadata of a tradable instrument. Optional joins
// (sector, industry, country, market) are empty strings when not set.
// HistoricalReturn and ForecastReturn are annual fractions (0.07 = 7%).
type Asset struct {
	ID               string   `json:"id"`
	Ticker           string   `json:"ticker"`
	Name             string   `json:"name"`
	AssetClassID     string   `json:"assetClassId"`
	Currency         string   `json:"currency"`
	SectorID         string   `json:"sectorId,omitempty"`
	IndustryID       string   `json:"industryId,omitempty"`
	CountryID        string   `json:"countryId,omitempty"`
	MarketID         string   `json:"marketId,omitempty"`
	HistoricalReturn *float64 `json:"historicalReturn,omitempty"`
	ForecastReturn   *float64 `json:"forecastReturn,omitempty"`
}

// ReferenceData bundles every reference table the snapshot computation joins against.
type ReferenceData struct {
	Assets       []Asset
	AssetClasses []AssetClass
	Sectors      []Sector
	Industries   []Industry
	Currencies   []Currency
	Regions      []Region
	Countries    []Country
	Markets      []Market
}
