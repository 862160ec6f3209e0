package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ExchangeHolding custodial exchange balance as reported by the exchange.
type ExchangeHolding struct {
	Asset  string `json:"asset" yaml:"asset"`
	Free   string `json:"free" yaml:"free"`
	Locked string `json:"locked" yaml:"locked"`
}

// Quantity returns free + locked.
func (h ExchangeHolding) Quantity() decimal.Decimal {
	return ParseAmount(h.Free).Add(ParseAmount(h.Locked))
}

// Eligible reports whether the holding is shown in the table.
func (h ExchangeHolding) Eligible() bool {
	return h.Quantity().IsPositive()
}

// WalletHolding on-chain token balance together with the token price.
type WalletHolding struct {
	Symbol     string `json:"symbol" yaml:"symbol"`
	Amount     string `json:"amount" yaml:"amount"`
	TokenPrice string `json:"tokenPrice" yaml:"token_price"`
}

// Quantity returns the parsed token amount.
func (h WalletHolding) Quantity() decimal.Decimal {
	return ParseAmount(h.Amount)
}

// Price returns the parsed token price.
func (h WalletHolding) Price() decimal.Decimal {
	return ParseAmount(h.TokenPrice)
}

// Eligible reports whether the holding is shown in the table.
func (h WalletHolding) Eligible() bool {
	return h.Quantity().IsPositive()
}

// EligibleAssets returns the symbols of exchange holdings with a positive balance, in input order.
func EligibleAssets(holdings []ExchangeHolding) []string {
	assets := make([]string, 0, len(holdings))
	seen := make(map[string]struct{}, len(holdings))
	for _, h := range holdings {
		if !h.Eligible() {
			continue
		}
		symbol := NormalizeSymbol(h.Asset)
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		assets = append(assets, symbol)
	}
	return assets
}

// ParseAmount parses a numeric string coming from an exchange or a wallet.
// Malformed or empty values are zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
