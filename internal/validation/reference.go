package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

// ValidateReference checks a reference data import before it is stored.
// Every row needs an identifier and a name. Currency codes must be three
// letters with a finite positive rate, asset tickers must be unique, explicit
// asset ids must be UUIDs and return assumptions must be finite. Joins between
// tables are not checked here; dangling references surface when a snapshot is built.
func ValidateReference(ref model.ReferenceData) error {
	errors := make(map[string]string)

	named := func(table string, i int, id, name string) {
		if strings.TrimSpace(id) == "" {
			errors[fmt.Sprintf("%s[%d].id", table, i)] = "id is required"
		}
		if strings.TrimSpace(name) == "" {
			errors[fmt.Sprintf("%s[%d].name", table, i)] = "name is required"
		}
	}

	for i, c := range ref.AssetClasses {
		named("assetClass", i, c.ID, c.Name)
	}
	for i, s := range ref.Sectors {
		named("sector", i, s.ID, s.Name)
	}
	for i, ind := range ref.Industries {
		named("industry", i, ind.ID, ind.Name)
	}
	for i, r := range ref.Regions {
		named("region", i, r.ID, r.Name)
	}
	for i, c := range ref.Countries {
		named("country", i, c.ID, c.Name)
	}
	for i, m := range ref.Markets {
		named("market", i, m.ID, m.Name)
	}
	for i, c := range ref.Currencies {
		if err := ValidateCurrencyCode(c.Code); err != nil {
			errors[fmt.Sprintf("currency[%d].code", i)] = err.Error()
		}
		if c.Rate != nil && (math.IsNaN(*c.Rate) || math.IsInf(*c.Rate, 0) || *c.Rate <= 0) {
			errors[fmt.Sprintf("currency[%d].rate", i)] = "rate must be a finite positive number"
		}
	}

	tickers := make(map[string]int)
	for i, a := range ref.Assets {
		ticker := strings.ToUpper(strings.TrimSpace(a.Ticker))
		switch {
		case ticker == "":
			errors[fmt.Sprintf("asset[%d].ticker", i)] = "ticker is required"
		default:
			if first, dup := tickers[ticker]; dup {
				errors[fmt.Sprintf("asset[%d].ticker", i)] = fmt.Sprintf("duplicate of asset[%d]", first)
			} else {
				tickers[ticker] = i
			}
		}
		if a.ID != "" {
			if err := ValidateUUID(a.ID); err != nil {
				errors[fmt.Sprintf("asset[%d].id", i)] = err.Error()
			}
		}
		if strings.TrimSpace(a.AssetClassID) == "" {
			errors[fmt.Sprintf("asset[%d].assetClass", i)] = "asset class is required"
		}
		if err := ValidateCurrencyCode(a.Currency); err != nil {
			errors[fmt.Sprintf("asset[%d].currency", i)] = err.Error()
		}
		if r := a.HistoricalReturn; r != nil && (math.IsNaN(*r) || math.IsInf(*r, 0)) {
			errors[fmt.Sprintf("asset[%d].historicalReturn", i)] = "historical return must be finite"
		}
		if r := a.ForecastReturn; r != nil && (math.IsNaN(*r) || math.IsInf(*r, 0)) {
			errors[fmt.Sprintf("asset[%d].forecastReturn", i)] = "forecast return must be finite"
		}
	}

	return errorOrNil(errors)
}
