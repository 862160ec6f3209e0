package domain

import "github.com/shopspring/decimal"

// Prices maps an upper-cased asset symbol to its price in the quote currency.
type Prices map[string]decimal.Decimal

// Get returns the price for symbol, zero when unknown.
func (p Prices) Get(symbol string) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	price, ok := p[NormalizeSymbol(symbol)]
	if !ok {
		return decimal.Zero
	}
	return price
}

// Set stores the price for symbol.
func (p Prices) Set(symbol string, price decimal.Decimal) {
	p[NormalizeSymbol(symbol)] = price
}

// Merge copies every price from other into p, overwriting existing symbols.
func (p Prices) Merge(other Prices) {
	for symbol, price := range other {
		p[symbol] = price
	}
}

// Strings returns the prices in their canonical string form.
func (p Prices) Strings() map[string]string {
	out := make(map[string]string, len(p))
	for symbol, price := range p {
		out[symbol] = price.String()
	}
	return out
}

// AlignPrices converts a price vector that is index-aligned with the eligible
// exchange holdings into symbol-keyed prices. Entries past the end of the
// vector are left out. When the same asset appears twice the first price wins.
func AlignPrices(holdings []ExchangeHolding, vector []float64) Prices {
	prices := make(Prices, len(vector))
	i := 0
	for _, h := range holdings {
		if !h.Eligible() {
			continue
		}
		if i >= len(vector) {
			break
		}
		symbol := NormalizeSymbol(h.Asset)
		if _, ok := prices[symbol]; !ok {
			prices[symbol] = decimal.NewFromFloat(vector[i])
		}
		i++
	}
	return prices
}
