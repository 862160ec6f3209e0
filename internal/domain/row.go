package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Venue origin system of a holding.
type Venue string

const (
	VenueBinanceUS Venue = "Binance.US"
	VenueEthereum  Venue = "Ethereum"
)

// DisplayPlaces number of decimal places shown for amount, price and total.
const DisplayPlaces = 4

// DisplayRow normalized, rounded record shown in the portfolio table.
type DisplayRow struct {
	Asset  string
	Amount decimal.Decimal
	Price  decimal.Decimal
	Total  decimal.Decimal
	Source Venue
}

type displayRowJSON struct {
	Asset  string      `json:"asset"`
	Amount json.Number `json:"amount"`
	Price  json.Number `json:"price"`
	Total  json.Number `json:"total"`
	Source Venue       `json:"source"`
}

// MarshalJSON encodes numeric fields as JSON numbers with four fractional digits.
func (r DisplayRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(displayRowJSON{
		Asset:  r.Asset,
		Amount: json.Number(r.Amount.StringFixed(DisplayPlaces)),
		Price:  json.Number(r.Price.StringFixed(DisplayPlaces)),
		Total:  json.Number(r.Total.StringFixed(DisplayPlaces)),
		Source: r.Source,
	})
}

// UnmarshalJSON decodes the form written by MarshalJSON.
func (r *DisplayRow) UnmarshalJSON(data []byte) error {
	var raw displayRowJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = DisplayRow{
		Asset:  raw.Asset,
		Amount: ParseAmount(raw.Amount.String()),
		Price:  ParseAmount(raw.Price.String()),
		Total:  ParseAmount(raw.Total.String()),
		Source: raw.Source,
	}
	return nil
}

// Snapshot row set produced by one refresh.
type Snapshot struct {
	ID   string       `json:"id"`
	Time time.Time    `json:"ts"`
	Rows []DisplayRow `json:"rows"`
}
