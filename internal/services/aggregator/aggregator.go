// Package aggregator merges exchange balances and wallet tokens into the
// priced row set shown by the portfolio table.
package aggregator

import (
	"github.com/shopspring/decimal"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

// Aggregate builds display rows from exchange holdings, wallet holdings and
// symbol-keyed prices. Exchange rows come first, then wallet rows, each group
// in input order. Holdings with a non-positive balance are dropped, unknown
// prices are zero and no rows are merged across venues.
func Aggregate(exchange []domain.ExchangeHolding, wallet []domain.WalletHolding, prices domain.Prices) []domain.DisplayRow {
	rows := make([]domain.DisplayRow, 0, len(exchange)+len(wallet))

	for _, h := range exchange {
		amount := h.Quantity()
		if !amount.IsPositive() {
			continue
		}
		rows = append(rows, newRow(h.Asset, amount, prices.Get(h.Asset), domain.VenueBinanceUS))
	}

	for _, h := range wallet {
		amount := h.Quantity()
		if !amount.IsPositive() {
			continue
		}
		rows = append(rows, newRow(h.Symbol, amount, h.Price(), domain.VenueEthereum))
	}

	return rows
}

// newRow rounds for display only; total is taken from the unrounded amount and price.
func newRow(asset string, amount, price decimal.Decimal, source domain.Venue) domain.DisplayRow {
	return domain.DisplayRow{
		Asset:  asset,
		Amount: amount.Round(domain.DisplayPlaces),
		Price:  price.Round(domain.DisplayPlaces),
		Total:  amount.Mul(price).Round(domain.DisplayPlaces),
		Source: source,
	}
}
