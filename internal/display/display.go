// Package display turns a numeric PortfolioSnapshot into the formatted strings
// a dashboard shows. The snapshot itself carries only numbers; every currency
// symbol, rounding and sign decision is made here.
package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

// NotAvailable is shown for undefined percentages.
const NotAvailable = "n/a"

// FormatMoney formats amount in currency using the currency's symbol and minor
// units, e.g. "$1,234.56". Codes unknown to the currency table fall back to
// "1234.56 XYZ".
func FormatMoney(amount float64, currency string) string {
	code := strings.ToUpper(currency)
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%.2f %s", amount, code)
	}
	minor := int64(math.Round(amount * math.Pow10(cur.Fraction)))
	return money.New(minor, cur.Code).Display()
}

// FormatPercent formats a percentage with an explicit sign and two decimals,
// e.g. "+1.23%". Undefined percentages render as NotAvailable.
func FormatPercent(p model.Percent) string {
	if !p.Valid {
		return NotAvailable
	}
	return fmt.Sprintf("%+.2f%%", p.Value)
}

// FormatRate formats a fractional rate such as an expected return of 0.0625 as "6.25%".
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// Periods is the formatted form of model.PeriodReturns.
type Periods struct {
	Daily   string `json:"daily"`
	Monthly string `json:"monthly"`
	Yearly  string `json:"yearly"`
}

// Holding is one formatted row of the holdings table.
type Holding struct {
	Ticker      string  `json:"ticker"`
	Name        string  `json:"name"`
	Quantity    string  `json:"quantity"`
	Price       string  `json:"price"`
	Value       string  `json:"value"`
	Cost        string  `json:"cost"`
	Return      string  `json:"return"`
	ReturnPct   string  `json:"returnPct"`
	IsPositive  bool    `json:"isPositive"`
	Weight      string  `json:"weight"`
	Performance Periods `json:"performance"`
}

// AssetClass is one formatted row of the asset class table.
type AssetClass struct {
	Name      string `json:"name"`
	Value     string `json:"value"`
	Cost      string `json:"cost"`
	Return    string `json:"return"`
	ReturnPct string `json:"returnPct"`
}

// Slice is one formatted allocation slice.
type Slice struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Weight string `json:"weight"`
}

// View is the dashboard-ready rendering of a snapshot.
type View struct {
	AsOf                     string       `json:"asOf"`
	BaseCurrency             string       `json:"baseCurrency"`
	TotalValue               string       `json:"totalValue"`
	TotalCost                string       `json:"totalCost"`
	Return                   string       `json:"return"`
	ReturnPct                string       `json:"returnPct"`
	Performance              Periods      `json:"performance"`
	HistoricalExpectedReturn string       `json:"historicalExpectedReturn"`
	ForwardExpectedReturn    string       `json:"forwardExpectedReturn"`
	Holdings                 []Holding    `json:"holdings"`
	AssetClasses             []AssetClass `json:"assetClasses"`
	Sectors                  []Slice      `json:"sectors"`
	Currencies               []Slice      `json:"currencies"`
	Countries                []Slice      `json:"countries"`
	Markets                  []Slice      `json:"markets"`
	Warnings                 []string     `json:"warnings"`
}

// Snapshot renders snap for display. Money in holdings rows is shown in the
// base currency except for the unit price, which stays in the asset's currency.
func Snapshot(snap model.PortfolioSnapshot) View {
	base := snap.BaseCurrency
	v := View{
		AsOf:                     snap.AsOf.Format("2006-01-02 15:04 MST"),
		BaseCurrency:             base,
		TotalValue:               FormatMoney(snap.TotalValue, base),
		TotalCost:                FormatMoney(snap.TotalCost, base),
		Return:                   FormatMoney(snap.AbsoluteReturn, base),
		ReturnPct:                FormatPercent(snap.PercentageReturn),
		Performance:              periods(snap.Performance),
		HistoricalExpectedReturn: FormatRate(snap.HistoricalExpectedReturn),
		ForwardExpectedReturn:    FormatRate(snap.ForwardExpectedReturn),
		Holdings:                 make([]Holding, 0, len(snap.Holdings)),
		AssetClasses:             make([]AssetClass, 0, len(snap.AssetClasses)),
		Sectors:                  allocationSlices(snap.SectorAllocation, base),
		Currencies:               allocationSlices(snap.CurrencyAllocation, base),
		Countries:                allocationSlices(snap.CountryAllocation, base),
		Markets:                  allocationSlices(snap.MarketAllocation, base),
		Warnings:                 warnings(snap.DataQuality),
	}

	for _, h := range snap.Holdings {
		ret := snap.Returns[h.Ticker]
		v.Holdings = append(v.Holdings, Holding{
			Ticker:      h.Ticker,
			Name:        h.Name,
			Quantity:    fmt.Sprintf("%g", h.Quantity),
			Price:       FormatMoney(h.Price, h.Currency),
			Value:       FormatMoney(h.Value, base),
			Cost:        FormatMoney(h.Cost, base),
			Return:      FormatMoney(ret.AbsoluteReturn, base),
			ReturnPct:   FormatPercent(ret.PercentageReturn),
			IsPositive:  ret.IsPositive,
			Weight:      fmt.Sprintf("%.2f%%", h.Weight),
			Performance: periods(h.Performance),
		})
	}

	for _, c := range snap.AssetClasses {
		v.AssetClasses = append(v.AssetClasses, AssetClass{
			Name:      c.Name,
			Value:     FormatMoney(c.CurrentValue, base),
			Cost:      FormatMoney(c.CostBasis, base),
			Return:    FormatMoney(c.AbsoluteReturn, base),
			ReturnPct: FormatPercent(c.PercentageReturn),
		})
	}

	return v
}

func periods(p model.PeriodReturns) Periods {
	return Periods{
		Daily:   FormatPercent(p.Daily),
		Monthly: FormatPercent(p.Monthly),
		Yearly:  FormatPercent(p.Yearly),
	}
}

func allocationSlices(allocs []model.Allocation, base string) []Slice {
	out := make([]Slice, 0, len(allocs))
	for _, a := range allocs {
		out = append(out, Slice{
			Name:   a.Name,
			Value:  FormatMoney(a.Value, base),
			Weight: fmt.Sprintf("%.2f%%", a.Weight),
		})
	}
	return out
}

func warnings(dq model.DataQuality) []string {
	out := []string{}
	if len(dq.MissingQuotes) > 0 {
		out = append(out, "no price for "+strings.Join(dq.MissingQuotes, ", "))
	}
	if len(dq.MissingRates) > 0 {
		out = append(out, "no exchange rate for "+strings.Join(dq.MissingRates, ", "))
	}
	if len(dq.UnknownCost) > 0 {
		out = append(out, "unknown cost basis for "+strings.Join(dq.UnknownCost, ", "))
	}
	return out
}
