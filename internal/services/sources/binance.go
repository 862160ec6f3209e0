package sources

import (
	"context"

	"github.com/adshao/go-binance/v2"
	"github.com/adshao/go-binance/v2/common"
	"github.com/pkg/errors"

	"github.com/smilewilson1999/Eggregator/internal/domain"
	"github.com/smilewilson1999/Eggregator/pkg/retrier"
)

// BinanceSource reads spot balances of a Binance.US account.
type BinanceSource struct {
	client  *binance.Client
	retrier *retrier.Retrier
}

// NewBinanceSource wraps client. A nil retrier uses the default backoff;
// API errors reported by the exchange are never retried.
func NewBinanceSource(client *binance.Client, r *retrier.Retrier) *BinanceSource {
	if r == nil {
		r = retrier.New(retrier.WithRetryIf(isTransient))
	}
	return &BinanceSource{client: client, retrier: r}
}

func isTransient(err error) bool {
	return !common.IsAPIError(errors.Cause(err))
}

func (s *BinanceSource) ExchangeHoldings(ctx context.Context) ([]domain.ExchangeHolding, error) {
	if s.client == nil || s.client.APIKey == "" {
		return nil, errors.Wrap(ErrNotConfigured, "binance api key is empty")
	}

	account, err := retrier.DoWithData(ctx, s.retrier, func(ctx context.Context) (*binance.Account, error) {
		return s.client.NewGetAccountService().Do(ctx)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get binance account")
	}

	holdings := make([]domain.ExchangeHolding, 0, len(account.Balances))
	for _, b := range account.Balances {
		holdings = append(holdings, domain.ExchangeHolding{
			Asset:  b.Asset,
			Free:   b.Free,
			Locked: b.Locked,
		})
	}
	return holdings, nil
}
