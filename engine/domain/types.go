// Package domain defines the core listing record model, column accessors,
// and validation for the AutoScope engine. It acts as the validation gate
// at ingest and event entry points.
package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Num is a numeric field that may be absent. The dataset marks unknown
// values as "N/A"; those become an invalid Num, which is distinct from zero
// and must stay out of any aggregation keyed or averaged on the field.
type Num struct {
	Float float64
	Valid bool
}

// N wraps a known value.
func N(v float64) Num { return Num{Float: v, Valid: true} }

// NA is the not-available sentinel.
var NA = Num{}

// Or returns the value, or fallback when not available.
func (n Num) Or(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Float
}

// MarshalJSON renders an unavailable Num as null.
func (n Num) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.Float) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(n.Float, 'f', -1, 64)), nil
}

// UnmarshalJSON accepts null or a JSON number.
func (n *Num) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = NA
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = N(v)
	return nil
}

// Listing is one vehicle-for-sale record. Listings are created once at
// ingest and never mutated; downstream views only filter and aggregate.
type Listing struct {
	Brand      string `json:"brand"`
	City       string `json:"city"`
	Title      string `json:"title"`
	Kilometer  Num    `json:"kilometer"`
	Price      Num    `json:"price"`
	EngineSize Num    `json:"engine_size"`
	Horsepower Num    `json:"horsepower"`
	Year       Num    `json:"year"`
	GasType    string `json:"gas_type"`
	GearBox    string `json:"gear_box"`
	Seller     string `json:"seller"`
	Location   string `json:"location"`
	Published  string `json:"published"`
}

// Mode selects which metric a chart encodes on its primary axis.
type Mode string

const (
	ModeListings     Mode = "listings"
	ModeAveragePrice Mode = "average_price"
)

// ValidModes is the set of recognised display modes.
var ValidModes = map[Mode]bool{
	ModeListings:     true,
	ModeAveragePrice: true,
}
