package pricer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

// midsReader is the part of hyperliquid.Info used for pricing.
type midsReader interface {
	AllMids(ctx context.Context) (map[string]string, error)
}

// HyperliquidPricer prices every asset from a single AllMids call.
// Hyperliquid mids are keyed by base coin (e.g., "BTC") and quoted in USD.
type HyperliquidPricer struct {
	info midsReader
	par  Par
}

func NewHyperliquidPricer(info midsReader, par Par) *HyperliquidPricer {
	if par == nil {
		par = NewPar(DefaultQuote)
	}
	return &HyperliquidPricer{info: info, par: par}
}

func (p *HyperliquidPricer) GetPrices(ctx context.Context, assets []string) (domain.Prices, error) {
	if p.info == nil {
		return nil, errors.New("hyperliquid info client is nil")
	}

	mids, err := p.info.AllMids(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch hyperliquid mids")
	}

	prices := make(domain.Prices, len(assets))
	for _, asset := range assets {
		symbol := domain.NormalizeSymbol(asset)
		if p.par.Has(symbol) {
			prices[symbol] = decimal.NewFromInt(1)
			continue
		}
		mid, ok := mids[symbol]
		if !ok || mid == "" {
			continue
		}
		price, err := decimal.NewFromString(mid)
		if err != nil {
			continue
		}
		prices[symbol] = price
	}
	return prices, nil
}
