// Package pricer resolves exchange assets to prices in a single quote currency.
package pricer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

// ErrNoPrices is returned when none of the requested assets could be priced.
var ErrNoPrices = errors.New("no prices available")

// DefaultQuote is the currency every price is expressed in.
const DefaultQuote = "USDT"

// Pricer produces symbol-keyed prices for a set of assets. Assets without a
// market are left out of the result.
type Pricer interface {
	GetPrices(ctx context.Context, assets []string) (domain.Prices, error)
}

// Quoter returns the last traded price of a single pair.
type Quoter interface {
	GetPrice(ctx context.Context, pair domain.Pair) (decimal.Decimal, error)
}

// Par is the set of symbols priced at exactly one unit of the quote currency.
type Par map[string]struct{}

// NewPar builds the par set from the quote currency and extra stablecoins.
func NewPar(quote string, stablecoins ...string) Par {
	par := make(Par, len(stablecoins)+1)
	if quote != "" {
		par[domain.NormalizeSymbol(quote)] = struct{}{}
	}
	for _, s := range stablecoins {
		if s = domain.NormalizeSymbol(s); s != "" {
			par[s] = struct{}{}
		}
	}
	return par
}

// Has reports whether symbol prices at par.
func (p Par) Has(symbol string) bool {
	_, ok := p[domain.NormalizeSymbol(symbol)]
	return ok
}

// PairPricer prices assets one pair at a time against a quote currency.
type PairPricer struct {
	quoter Quoter
	quote  string
	par    Par
	logger *zap.Logger
}

// NewPairPricer wraps quoter. Assets in par skip the lookup.
func NewPairPricer(quoter Quoter, quote string, par Par, logger *zap.Logger) *PairPricer {
	if quote == "" {
		quote = DefaultQuote
	}
	if par == nil {
		par = NewPar(quote)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PairPricer{
		quoter: quoter,
		quote:  domain.NormalizeSymbol(quote),
		par:    par,
		logger: logger,
	}
}

// GetPrices quotes each asset. Failed lookups are omitted; ErrNoPrices is
// returned only when every lookup failed.
func (p *PairPricer) GetPrices(ctx context.Context, assets []string) (domain.Prices, error) {
	prices := make(domain.Prices, len(assets))
	var (
		lookups int
		lastErr error
	)
	for _, asset := range assets {
		symbol := domain.NormalizeSymbol(asset)
		if symbol == "" {
			continue
		}
		if _, done := prices[symbol]; done {
			continue
		}
		if p.par.Has(symbol) {
			prices[symbol] = decimal.NewFromInt(1)
			continue
		}

		lookups++
		price, err := p.quoter.GetPrice(ctx, domain.NewPair(symbol, p.quote))
		if err != nil {
			if ctx.Err() != nil {
				return nil, errors.Wrap(ctx.Err(), "price lookup interrupted")
			}
			lastErr = err
			p.logger.Debug("no price for asset", zap.String("asset", symbol), zap.Error(err))
			continue
		}
		prices[symbol] = price
	}

	if lookups > 0 && lastErr != nil && len(prices) == 0 {
		return nil, errors.Wrapf(ErrNoPrices, "last error: %v", lastErr)
	}
	return prices, nil
}
