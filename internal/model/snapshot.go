package model

import "time"

// PeriodReturns holds daily, monthly and yearly percentage changes.
type PeriodReturns struct {
	Daily   Percent `json:"daily"`
	Monthly Percent `json:"monthly"`
	Yearly  Percent `json:"yearly"`
}

// TickerReturn is the realized return of a single holding.
// CostBasisKnown is false when the current value stood in for a missing cost basis.
type TickerReturn struct {
	Name             string  `json:"name"`
	AbsoluteReturn   float64 `json:"absoluteReturn"`
	PercentageReturn Percent `json:"percentageReturn"`
	IsPositive       bool    `json:"isPositive"`
	CostBasisKnown   bool    `json:"costBasisKnown"`
}

// ReturnFigure is a value/cost pair with its derived returns.
type ReturnFigure struct {
	Value            float64 `json:"value"`
	Cost             float64 `json:"cost"`
	AbsoluteReturn   float64 `json:"absoluteReturn"`
	PercentageReturn Percent `json:"percentageReturn"`
}

// AssetClassAggregate is the summed value and cost of all holdings in one asset class.
type AssetClassAggregate struct {
	ClassID          string  `json:"classId"`
	Name             string  `json:"name"`
	CurrentValue     float64 `json:"currentValue"`
	CostBasis        float64 `json:"costBasis"`
	AbsoluteReturn   float64 `json:"absoluteReturn"`
	PercentageReturn Percent `json:"percentageReturn"`
}

// HoldingSnapshot is the per-holding view included in a snapshot.
// Value and Cost are in the base currency, Price in the holding's own currency.
type HoldingSnapshot struct {
	Ticker       string        `json:"ticker"`
	Name         string        `json:"name"`
	AssetClassID string        `json:"assetClassId"`
	Currency     string        `json:"currency"`
	Quantity     float64       `json:"quantity"`
	Price        float64       `json:"price"`
	Value        float64       `json:"value"`
	Cost         float64       `json:"cost"`
	Weight       float64       `json:"weight"`
	Performance  PeriodReturns `json:"performance"`
}

// RiskMetrics are passed through from an external source; the snapshot does not compute them.
type RiskMetrics struct {
	Beta        float64 `json:"beta"`
	MaxDrawdown float64 `json:"maxDrawdown"`
	Volatility  float64 `json:"volatility"`
}

// Allocation is one slice of an allocation breakdown. Weight is a percentage of total value.
type Allocation struct {
	Key    string  `json:"key"`
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Weight float64 `json:"weight"`
}

// DataQuality lists inputs that were missing while building a snapshot.
type DataQuality struct {
	MissingQuotes []string `json:"missingQuotes"`
	MissingRates  []string `json:"missingRates"`
	UnknownCost   []string `json:"unknownCost"`
}

// Complete reports whether no input was missing.
func (d DataQuality) Complete() bool {
	return len(d.MissingQuotes) == 0 && len(d.MissingRates) == 0 && len(d.UnknownCost) == 0
}

// PortfolioSnapshot is one complete computed view of the portfolio. It is
// rebuilt from scratch on every request and has no identity of its own.
type PortfolioSnapshot struct {
	AsOf                     time.Time               `json:"asOf"`
	BaseCurrency             string                  `json:"baseCurrency"`
	TotalValue               float64                 `json:"totalValue"`
	TotalCost                float64                 `json:"totalCost"`
	AbsoluteReturn           float64                 `json:"absoluteReturn"`
	PercentageReturn         Percent                 `json:"percentageReturn"`
	Performance              PeriodReturns           `json:"performance"`
	HistoricalExpectedReturn float64                 `json:"historicalExpectedReturn"`
	ForwardExpectedReturn    float64                 `json:"forwardExpectedReturn"`
	Returns                  map[string]TickerReturn `json:"returns"`
	AssetClasses             []AssetClassAggregate   `json:"assetClasses"`
	Holdings                 []HoldingSnapshot       `json:"holdings"`
	Risk                     RiskMetrics             `json:"risk"`
	SectorAllocation         []Allocation            `json:"sectorAllocation"`
	CurrencyAllocation       []Allocation            `json:"currencyAllocation"`
	CountryAllocation        []Allocation            `json:"countryAllocation"`
	MarketAllocation         []Allocation            `json:"marketAllocation"`
	DataQuality              DataQuality             `json:"dataQuality"`
}
