// Package sources turns exchange accounts, wallets and holdings files into
// the holdings lists the aggregator consumes.
package sources

import (
	"context"

	"github.com/pkg/errors"

	"github.com/smilewilson1999/Eggregator/internal/domain"
)

// ErrNotConfigured is returned by sources that lack the settings to run.
var ErrNotConfigured = errors.New("source not configured")

// ExchangeSource lists custodial exchange balances.
type ExchangeSource interface {
	ExchangeHoldings(ctx context.Context) ([]domain.ExchangeHolding, error)
}

// WalletSource lists on-chain token balances together with token prices.
type WalletSource interface {
	WalletHoldings(ctx context.Context) ([]domain.WalletHolding, error)
}

// Empty is a source with no holdings.
type Empty struct{}

func (Empty) ExchangeHoldings(context.Context) ([]domain.ExchangeHolding, error) { return nil, nil }
func (Empty) WalletHoldings(context.Context) ([]domain.WalletHolding, error)     { return nil, nil }
