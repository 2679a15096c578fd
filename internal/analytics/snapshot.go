package analytics

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/model"
)

// unclassified is the allocation key used for holdings without the optional join.
const unclassified = "unclassified"

// Inputs is everything a snapshot is computed from.
type Inputs struct {
	Ledger    []model.LedgerEntry
	Reference model.ReferenceData
	// Quotes are keyed by symbol (the asset ticker).
	Quotes map[string]model.PriceSnapshot
	Rates  RateTable
	// Risk is passed through to the snapshot; nil yields zero metrics.
	Risk *model.RiskMetrics
	AsOf time.Time
}

// Options holds the policy values of a snapshot computation.
type Options struct {
	BaseCurrency            string
	DefaultHistoricalReturn float64
	DefaultForwardReturn    float64
}

// DefaultOptions returns USD-based options with the default return assumptions.
func DefaultOptions() Options {
	return Options{
		BaseCurrency:            "USD",
		DefaultHistoricalReturn: DefaultHistoricalReturn,
		DefaultForwardReturn:    DefaultForwardReturn,
	}
}

// position is the ledger lots of one ticker merged together.
type position struct {
	ticker    string
	quantity  float64
	cost      float64
	costKnown bool
}

// BuildSnapshot sequences currency normalization, realized returns, expected
// returns and period performance into one PortfolioSnapshot.
//
// Joins that cannot be resolved (unknown ticker, asset class, currency, or an
// optional join pointing at a missing row) fail the whole computation. Missing
// quotes and FX rates do not fail it; they are reported in DataQuality.
// An empty ledger produces an empty snapshot.
func BuildSnapshot(in Inputs, opts Options) (model.PortfolioSnapshot, error) {
	base := strings.ToUpper(strings.TrimSpace(opts.BaseCurrency))
	if base == "" {
		return model.PortfolioSnapshot{}, fmt.Errorf("%w: base currency", apperrors.ErrMissingRequiredField)
	}

	ref := indexReference(in.Reference)
	quality := newQualityTracker()

	positions := mergeLedger(in.Ledger)
	holdings := make([]model.Holding, 0, len(positions))
	prices := make([]float64, 0, len(positions))
	performance := make([]model.PeriodReturns, 0, len(positions))

	for _, p := range positions {
		asset, ok := ref.assets[p.ticker]
		if !ok {
			return model.PortfolioSnapshot{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownTicker, p.ticker)
		}
		if err := ref.checkJoins(asset, base); err != nil {
			return model.PortfolioSnapshot{}, err
		}

		quote, hasQuote := in.Quotes[p.ticker]
		if !hasQuote || quote.Price <= 0 {
			quality.missingQuote(p.ticker)
		}

		value, conv := Normalize(p.quantity*quote.Price, asset.Currency, base, in.Rates)
		if conv == ConversionRateMissing {
			quality.missingRate(asset.Currency)
		}

		h := model.Holding{
			Ticker:           p.ticker,
			Name:             asset.Name,
			AssetClassID:     asset.AssetClassID,
			Currency:         strings.ToUpper(asset.Currency),
			SectorID:         asset.SectorID,
			CountryID:        asset.CountryID,
			MarketID:         asset.MarketID,
			Quantity:         p.quantity,
			CurrentValue:     value,
			HistoricalReturn: asset.HistoricalReturn,
			ForecastReturn:   asset.ForecastReturn,
		}
		if p.costKnown {
			cost, _ := Normalize(p.cost, asset.Currency, base, in.Rates)
			h.CostBasis = &cost
		} else {
			quality.unknownCost(p.ticker)
		}

		perf := model.PeriodReturns{}
		if quote.Price > 0 {
			perf = PeriodPerformance(quote.Price, quote)
		}

		holdings = append(holdings, h)
		prices = append(prices, quote.Price)
		performance = append(performance, perf)
	}

	returns := RealizedReturns(holdings)

	historical, err := HistoricalExpectedReturn(holdings, opts.DefaultHistoricalReturn)
	if err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("historical expected return: %w", err)
	}
	forward, err := ForwardExpectedReturn(holdings, opts.DefaultForwardReturn)
	if err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("forward expected return: %w", err)
	}

	weighted := make([]WeightedPeriodReturns, len(holdings))
	for i, h := range holdings {
		weighted[i] = WeightedPeriodReturns{Value: h.CurrentValue, Returns: performance[i]}
	}
	aggregate, err := AggregatePerformance(weighted)
	if err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("performance aggregation: %w", err)
	}

	total := returns.Total.Value
	views := make([]model.HoldingSnapshot, len(holdings))
	for i, h := range holdings {
		cost, _ := effectiveCost(h)
		views[i] = model.HoldingSnapshot{
			Ticker:       h.Ticker,
			Name:         h.Name,
			AssetClassID: h.AssetClassID,
			Currency:     h.Currency,
			Quantity:     h.Quantity,
			Price:        prices[i],
			Value:        h.CurrentValue,
			Cost:         cost,
			Weight:       share(h.CurrentValue, total),
			Performance:  performance[i],
		}
	}

	for i := range returns.Classes {
		returns.Classes[i].Name = ref.classes[returns.Classes[i].ClassID].Name
	}

	risk := model.RiskMetrics{}
	if in.Risk != nil {
		risk = *in.Risk
	}

	return model.PortfolioSnapshot{
		AsOf:                     in.AsOf,
		BaseCurrency:             base,
		TotalValue:               total,
		TotalCost:                returns.Total.Cost,
		AbsoluteReturn:           returns.Total.AbsoluteReturn,
		PercentageReturn:         returns.Total.PercentageReturn,
		Performance:              aggregate,
		HistoricalExpectedReturn: historical,
		ForwardExpectedReturn:    forward,
		Returns:                  returns.ByTicker,
		AssetClasses:             returns.Classes,
		Holdings:                 views,
		Risk:                     risk,
		SectorAllocation: allocate(holdings, total,
			func(h model.Holding) string { return h.SectorID },
			func(id string) string { return ref.sectors[id].Name }),
		CurrencyAllocation: allocate(holdings, total,
			func(h model.Holding) string { return h.Currency },
			func(code string) string { return ref.currencies[code].Name }),
		CountryAllocation: allocate(holdings, total,
			func(h model.Holding) string { return h.CountryID },
			func(id string) string { return ref.countries[id].Name }),
		MarketAllocation: allocate(holdings, total,
			func(h model.Holding) string { return h.MarketID },
			func(id string) string { return ref.markets[id].Name }),
		DataQuality: quality.report(),
	}, nil
}

// mergeLedger folds ledger lots into one position per ticker, sorted by ticker.
// The cost of a position is known only when every lot records a purchase price.
func mergeLedger(entries []model.LedgerEntry) []position {
	byTicker := make(map[string]*position)
	for _, e := range entries {
		ticker := strings.ToUpper(strings.TrimSpace(e.Ticker))
		p, ok := byTicker[ticker]
		if !ok {
			p = &position{ticker: ticker, costKnown: true}
			byTicker[ticker] = p
		}
		p.quantity += e.Quantity
		if e.PurchasePrice == nil {
			p.costKnown = false
			continue
		}
		p.cost += e.Quantity * *e.PurchasePrice
	}

	positions := make([]position, 0, len(byTicker))
	for _, p := range byTicker {
		positions = append(positions, *p)
	}
	slices.SortFunc(positions, func(a, b position) int { return cmp.Compare(a.ticker, b.ticker) })
	return positions
}

// allocate sums holding values by key and returns the slices ordered by value,
// largest first. Holdings with an empty key are grouped as unclassified.
func allocate(holdings []model.Holding, total float64, key func(model.Holding) string, name func(string) string) []model.Allocation {
	sums := make(map[string]float64)
	for _, h := range holdings {
		k := key(h)
		if k == "" {
			k = unclassified
		}
		sums[k] += h.CurrentValue
	}

	allocations := make([]model.Allocation, 0, len(sums))
	for k, v := range sums {
		n := "Unclassified"
		if k != unclassified {
			n = name(k)
		}
		allocations = append(allocations, model.Allocation{Key: k, Name: n, Value: v, Weight: share(v, total)})
	}
	slices.SortFunc(allocations, func(a, b model.Allocation) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return allocations
}

// share returns value as a percentage of total, or 0 when total is 0.
func share(value, total float64) float64 {
	if total == 0 {
		return 0
	}
	return value / total * 100
}

type referenceIndex struct {
	assets     map[string]model.Asset
	classes    map[string]model.AssetClass
	sectors    map[string]model.Sector
	industries map[string]model.Industry
	currencies map[string]model.Currency
	countries  map[string]model.Country
	markets    map[string]model.Market
}

func indexReference(ref model.ReferenceData) referenceIndex {
	idx := referenceIndex{
		assets:     make(map[string]model.Asset, len(ref.Assets)),
		classes:    make(map[string]model.AssetClass, len(ref.AssetClasses)),
		sectors:    make(map[string]model.Sector, len(ref.Sectors)),
		industries: make(map[string]model.Industry, len(ref.Industries)),
		currencies: make(map[string]model.Currency, len(ref.Currencies)),
		countries:  make(map[string]model.Country, len(ref.Countries)),
		markets:    make(map[string]model.Market, len(ref.Markets)),
	}
	for _, a := range ref.Assets {
		idx.assets[strings.ToUpper(strings.TrimSpace(a.Ticker))] = a
	}
	for _, c := range ref.AssetClasses {
		idx.classes[c.ID] = c
	}
	for _, s := range ref.Sectors {
		idx.sectors[s.ID] = s
	}
	for _, i := range ref.Industries {
		idx.industries[i.ID] = i
	}
	for _, c := range ref.Currencies {
		idx.currencies[strings.ToUpper(c.Code)] = c
	}
	for _, c := range ref.Countries {
		idx.countries[c.ID] = c
	}
	for _, m := range ref.Markets {
		idx.markets[m.ID] = m
	}
	return idx
}

// checkJoins verifies that every reference an asset carries resolves and that
// its return assumptions are finite.
// The asset's currency may be the base currency even if it has no currency row.
func (idx referenceIndex) checkJoins(a model.Asset, base string) error {
	if _, ok := idx.classes[a.AssetClassID]; !ok {
		return fmt.Errorf("%w: %s (asset %s)", apperrors.ErrUnknownAssetClass, a.AssetClassID, a.Ticker)
	}
	code := strings.ToUpper(a.Currency)
	if _, ok := idx.currencies[code]; !ok && code != base {
		return fmt.Errorf("%w: %s (asset %s)", apperrors.ErrUnknownCurrency, a.Currency, a.Ticker)
	}
	if r := a.HistoricalReturn; r != nil && !finite(*r) {
		return fmt.Errorf("%w: asset %s has a non-finite historical return", apperrors.ErrDataInconsistency, a.Ticker)
	}
	if r := a.ForecastReturn; r != nil && !finite(*r) {
		return fmt.Errorf("%w: asset %s has a non-finite forecast return", apperrors.ErrDataInconsistency, a.Ticker)
	}
	if a.SectorID != "" {
		if _, ok := idx.sectors[a.SectorID]; !ok {
			return fmt.Errorf("%w: asset %s references unknown sector %s", apperrors.ErrDataInconsistency, a.Ticker, a.SectorID)
		}
	}
	if a.IndustryID != "" {
		if _, ok := idx.industries[a.IndustryID]; !ok {
			return fmt.Errorf("%w: asset %s references unknown industry %s", apperrors.ErrDataInconsistency, a.Ticker, a.IndustryID)
		}
	}
	if a.CountryID != "" {
		if _, ok := idx.countries[a.CountryID]; !ok {
			return fmt.Errorf("%w: asset %s references unknown country %s", apperrors.ErrDataInconsistency, a.Ticker, a.CountryID)
		}
	}
	if a.MarketID != "" {
		if _, ok := idx.markets[a.MarketID]; !ok {
			return fmt.Errorf("%w: asset %s references unknown market %s", apperrors.ErrDataInconsistency, a.Ticker, a.MarketID)
		}
	}
	return nil
}

// qualityTracker collects missing inputs without duplicates.
type qualityTracker struct {
	quotes map[string]struct{}
	rates  map[string]struct{}
	costs  map[string]struct{}
}

func newQualityTracker() *qualityTracker {
	return &qualityTracker{
		quotes: make(map[string]struct{}),
		rates:  make(map[string]struct{}),
		costs:  make(map[string]struct{}),
	}
}

func (q *qualityTracker) missingQuote(ticker string) { q.quotes[ticker] = struct{}{} }
func (q *qualityTracker) missingRate(code string)    { q.rates[strings.ToUpper(code)] = struct{}{} }
func (q *qualityTracker) unknownCost(ticker string)  { q.costs[ticker] = struct{}{} }

func (q *qualityTracker) report() model.DataQuality {
	return model.DataQuality{
		MissingQuotes: sortedKeys(q.quotes),
		MissingRates:  sortedKeys(q.rates),
		UnknownCost:   sortedKeys(q.costs),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
