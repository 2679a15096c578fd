package yahoo

import "time"

// Response represents the raw JSON response of the Yahoo Finance chart API.
// Chart.Result typically contains one element. Price arrays hold null for
// days without trading, hence the pointer elements.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top level object of a chart response.
type Chart struct {
	Result []Result `json:"result"`
	Error  *Error   `json:"error"`
}

// Error is the error object Yahoo returns instead of a result.
type Error struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result holds the metadata and daily series of one symbol.
type Result struct {
	Meta       Meta       `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
}

// Meta is the symbol metadata of a chart result.
type Meta struct {
	Currency           string  `json:"currency"`
	Symbol             string  `json:"symbol"`
	ExchangeName       string  `json:"exchangeName"`
	LongName           string  `json:"longName"`
	ShortName          string  `json:"shortName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	RegularMarketTime  int64   `json:"regularMarketTime"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
}

// Indicators wraps the price series of a result.
type Indicators struct {
	Quote []Quote `json:"quote"`
}

// Quote holds the daily close series, aligned with Result.Timestamp.
type Quote struct {
	Close []*float64 `json:"close"`
}

// PriceChart is the parsed form of a chart response: symbol metadata and the
// daily closes in ascending date order, with null points removed.
type PriceChart struct {
	Symbol             string
	Currency           string
	Name               string
	RegularMarketPrice float64
	Closes             []Close
}

// Close is one trading day's closing price. Date is midnight UTC.
type Close struct {
	Date  time.Time
	Price float64
}

// Latest returns the most recent close.
func (c PriceChart) Latest() (Close, bool) {
	if len(c.Closes) == 0 {
		return Close{}, false
	}
	return c.Closes[len(c.Closes)-1], true
}

// CloseOnOrBefore returns the close of the last trading day on or before day.
// Only the date of day is considered.
func (c PriceChart) CloseOnOrBefore(day time.Time) (Close, bool) {
	target := truncateDay(day)
	for i := len(c.Closes) - 1; i >= 0; i-- {
		if !c.Closes[i].Date.After(target) {
			return c.Closes[i], true
		}
	}
	return Close{}, false
}

// CloseBefore returns the close of the last trading day strictly before day.
func (c PriceChart) CloseBefore(day time.Time) (Close, bool) {
	return c.CloseOnOrBefore(truncateDay(day).AddDate(0, 0, -1))
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
