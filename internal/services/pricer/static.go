package pricer

import (
	"context"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

// StaticPricer serves a fixed price table, typically from the config file.
type StaticPricer struct {
	prices domain.Prices
}

func NewStaticPricer(prices domain.Prices) *StaticPricer {
	table := make(domain.Prices, len(prices))
	for symbol, price := range prices {
		table.Set(symbol, price)
	}
	return &StaticPricer{prices: table}
}

func (p *StaticPricer) GetPrices(_ context.Context, assets []string) (domain.Prices, error) {
	out := make(domain.Prices, len(assets))
	for _, asset := range assets {
		symbol := domain.NormalizeSymbol(asset)
		if price, ok := p.prices[symbol]; ok {
			out[symbol] = price
		}
	}
	return out, nil
}
