package model

import "time"

// PriceSnapshot holds the current and reference prices of one symbol.
// A zero price means the figure is unknown.
type PriceSnapshot struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	LastClose float64   `json:"lastClose"`
	MonthAgo  float64   `json:"monthAgo"`
	YearAgo   float64   `json:"yearAgo"`
	UpdatedAt time.Time `json:"updatedAt"`
}
