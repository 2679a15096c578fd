// Package refdata imports reference data (asset classes, sectors, currencies,
// geography and assets) from a TOML file into the reference store.
package refdata

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/validation"
)

// assetNamespace derives stable asset IDs from tickers, so re-importing a file
// updates rows instead of duplicating them.
var assetNamespace = uuid.MustParse("8f0c3c1e-5a53-4c3e-9b1e-7d0f6a2b9c41")

type document struct {
	AssetClasses []named    `toml:"asset_class"`
	Sectors      []named    `toml:"sector"`
	Industries   []industry `toml:"industry"`
	Currencies   []currency `toml:"currency"`
	Regions      []named    `toml:"region"`
	Countries    []country  `toml:"country"`
	Markets      []market   `toml:"market"`
	Assets       []asset    `toml:"asset"`
}

type named struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

type industry struct {
	ID     string `toml:"id"`
	Name   string `toml:"name"`
	Sector string `toml:"sector"`
}

type currency struct {
	Code string   `toml:"code"`
	Name string   `toml:"name"`
	Rate *float64 `toml:"rate"`
}

type country struct {
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	ISOCode string `toml:"iso_code"`
	Region  string `toml:"region"`
}

type market struct {
	ID      string `toml:"id"`
	Name    string `toml:"name"`
	MIC     string `toml:"mic"`
	Country string `toml:"country"`
}

type asset struct {
	ID               string   `toml:"id"`
	Ticker           string   `toml:"ticker"`
	Name             string   `toml:"name"`
	AssetClass       string   `toml:"asset_class"`
	Currency         string   `toml:"currency"`
	Sector           string   `toml:"sector"`
	Industry         string   `toml:"industry"`
	Country          string   `toml:"country"`
	Market           string   `toml:"market"`
	HistoricalReturn *float64 `toml:"historical_return"`
	ForecastReturn   *float64 `toml:"forecast_return"`
}

// Saver stores reference data.
type Saver interface {
	Save(ctx context.Context, ref model.ReferenceData) error
}

// Parse decodes and validates a reference data file. Assets without an id get
// one derived from their ticker.
func Parse(r io.Reader) (model.ReferenceData, error) {
	var doc document
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&doc); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return model.ReferenceData{}, fmt.Errorf("%w: %s", apperrors.ErrDataInconsistency, strict.String())
		}
		return model.ReferenceData{}, fmt.Errorf("failed to decode reference data: %w", err)
	}

	var ref model.ReferenceData
	for _, c := range doc.AssetClasses {
		ref.AssetClasses = append(ref.AssetClasses, model.AssetClass{ID: c.ID, Name: c.Name})
	}
	for _, s := range doc.Sectors {
		ref.Sectors = append(ref.Sectors, model.Sector{ID: s.ID, Name: s.Name})
	}
	for _, i := range doc.Industries {
		ref.Industries = append(ref.Industries, model.Industry{ID: i.ID, Name: i.Name, SectorID: i.Sector})
	}
	for _, c := range doc.Currencies {
		ref.Currencies = append(ref.Currencies, model.Currency{Code: strings.ToUpper(c.Code), Name: c.Name, Rate: c.Rate})
	}
	for _, r := range doc.Regions {
		ref.Regions = append(ref.Regions, model.Region{ID: r.ID, Name: r.Name})
	}
	for _, c := range doc.Countries {
		ref.Countries = append(ref.Countries, model.Country{ID: c.ID, Name: c.Name, ISOCode: strings.ToUpper(c.ISOCode), RegionID: c.Region})
	}
	for _, m := range doc.Markets {
		ref.Markets = append(ref.Markets, model.Market{ID: m.ID, Name: m.Name, MIC: strings.ToUpper(m.MIC), CountryID: m.Country})
	}
	for _, a := range doc.Assets {
		ticker := strings.ToUpper(strings.TrimSpace(a.Ticker))
		id := a.ID
		if id == "" && ticker != "" {
			id = uuid.NewSHA1(assetNamespace, []byte(ticker)).String()
		}
		ref.Assets = append(ref.Assets, model.Asset{
			ID:               id,
			Ticker:           ticker,
			Name:             a.Name,
			AssetClassID:     a.AssetClass,
			Currency:         strings.ToUpper(a.Currency),
			SectorID:         a.Sector,
			IndustryID:       a.Industry,
			CountryID:        a.Country,
			MarketID:         a.Market,
			HistoricalReturn: a.HistoricalReturn,
			ForecastReturn:   a.ForecastReturn,
		})
	}

	if err := validation.ValidateReference(ref); err != nil {
		return model.ReferenceData{}, fmt.Errorf("%w: %w", apperrors.ErrDataInconsistency, err)
	}
	return ref, nil
}

// ImportFile parses the file at path and stores its contents through saver.
// It returns the imported data so callers can report what was loaded.
func ImportFile(ctx context.Context, path string, saver Saver) (model.ReferenceData, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.ReferenceData{}, fmt.Errorf("failed to open reference data: %w", err)
	}
	defer f.Close()

	ref, err := Parse(f)
	if err != nil {
		return model.ReferenceData{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := saver.Save(ctx, ref); err != nil {
		return model.ReferenceData{}, fmt.Errorf("failed to store reference data: %w", err)
	}
	return ref, nil
}
