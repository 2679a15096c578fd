package model

import (
	"bytes"
	"encoding/json"
	"math"
)

// Percent is a percentage figure that may be undefined, for example a return
// computed against a zero cost basis or a missing price baseline.
// An undefined Percent encodes to JSON null.
type Percent struct {
	Value float64
	Valid bool
}

// PercentOf returns a defined Percent. NaN and infinities are treated as undefined.
func PercentOf(value float64) Percent {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Percent{}
	}
	return Percent{Value: value, Valid: true}
}

// Or returns the percentage value, or fallback when undefined.
func (p Percent) Or(fallback float64) float64 {
	if !p.Valid {
		return fallback
	}
	return p.Value
}

func (p Percent) MarshalJSON() ([]byte, error) {
	if !p.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

func (p *Percent) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Percent{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PercentOf(v)
	return nil
}
